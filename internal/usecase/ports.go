package usecase

import (
	"context"

	"github.com/sahara-community/pulse/internal/domain"
)

// Publisher pushes a payload to the live subscribers of a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload domain.Payload) error
}

// Enqueuer schedules work that must not hold up the caller.
type Enqueuer interface {
	Enqueue(name string, job func(ctx context.Context) error) error
}

// NotificationRepository is the durable notification store.
type NotificationRepository interface {
	Create(ctx context.Context, n domain.Notification) (domain.Notification, error)
	Get(ctx context.Context, id string) (domain.Notification, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
}

// UserRepository lists the recipients of broadcast notifications.
type UserRepository interface {
	ActiveUserIDs(ctx context.Context) ([]string, error)
}

type HelpRequestRepository interface {
	List(ctx context.Context) ([]domain.HelpRequest, error)
}

type ChatRepository interface {
	EnsureRoom(ctx context.Context, name string) (domain.Room, error)
	CreateMessage(ctx context.Context, msg domain.ChatMessage) (domain.ChatMessage, error)
	ListMessages(ctx context.Context, room string, limit int) ([]domain.ChatMessage, error)
}

// RoomAccess decides whether a user belongs to a group or event room.
type RoomAccess interface {
	CanAccess(ctx context.Context, userID string, room string) (bool, error)
}

type CampaignRepository interface {
	Save(ctx context.Context, campaign domain.DonationCampaign) (domain.DonationCampaign, error)
}
