package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sahara-community/pulse/internal/domain"
)

const defaultHistoryLimit = 50

type ChatUsecase struct {
	repo           ChatRepository
	access         RoomAccess
	publisher      Publisher
	allowAnonymous bool
	historyLimit   int
}

func NewChatUsecase(repo ChatRepository, access RoomAccess, publisher Publisher, allowAnonymous bool, historyLimit int) *ChatUsecase {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &ChatUsecase{
		repo:           repo,
		access:         access,
		publisher:      publisher,
		allowAnonymous: allowAnonymous,
		historyLimit:   historyLimit,
	}
}

// restricted reports whether room belongs to a group or an event.
func restricted(room string) bool {
	return strings.HasPrefix(room, domain.GroupRoomPrefix) || strings.HasPrefix(room, domain.EventRoomPrefix)
}

func (uc *ChatUsecase) authorize(ctx context.Context, principal *domain.Principal, room string) error {
	if !restricted(room) {
		return nil
	}
	if principal == nil {
		return domain.ForbiddenError{Reason: "authentication required for " + room}
	}

	ok, err := uc.access.CanAccess(ctx, principal.ID, room)
	if err != nil {
		return errors.Wrap(err, "check room access")
	}
	if !ok {
		return domain.ForbiddenError{Reason: "not a member of " + room}
	}
	return nil
}

// Join checks that the principal may listen to room and makes sure the room exists.
func (uc *ChatUsecase) Join(ctx context.Context, principal *domain.Principal, room string) error {
	ctx, span := tracer.Start(ctx, "Chat.Usecase.Join")
	defer span.End()
	span.SetAttributes(attribute.String("room", room))

	if err := uc.authorize(ctx, principal, room); err != nil {
		span.RecordError(err)
		return err
	}

	_, err := uc.repo.EnsureRoom(ctx, room)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "ensure room")
	}
	return nil
}

// Post stores a chat message and broadcasts it to the room. The sender's
// own sessions receive it through the same broadcast.
func (uc *ChatUsecase) Post(ctx context.Context, principal *domain.Principal, room string, content string) (domain.ChatMessage, error) {
	ctx, span := tracer.Start(ctx, "Chat.Usecase.Post")
	defer span.End()
	span.SetAttributes(attribute.String("room", room))

	content = strings.TrimSpace(content)
	if content == "" {
		return domain.ChatMessage{}, fmt.Errorf("%w: empty message", domain.ErrInvalidPayload)
	}

	if principal == nil && !uc.allowAnonymous {
		return domain.ChatMessage{}, domain.ForbiddenError{Reason: "anonymous messages are disabled"}
	}
	if err := uc.authorize(ctx, principal, room); err != nil {
		span.RecordError(err)
		return domain.ChatMessage{}, err
	}

	msg := domain.ChatMessage{
		Room:      room,
		Username:  domain.AnonymousUsername,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	if principal != nil {
		id := principal.ID
		msg.SenderID = &id
		msg.Username = principal.DisplayName()
	}

	saved, err := uc.repo.CreateMessage(ctx, msg)
	if err != nil {
		span.RecordError(err)
		return domain.ChatMessage{}, errors.Wrap(err, "store chat message")
	}

	err = uc.publisher.Publish(ctx, domain.ChatTopic(room), domain.NewChatPayload(saved))
	if err != nil {
		return saved, err
	}
	return saved, nil
}

func (uc *ChatUsecase) History(ctx context.Context, principal *domain.Principal, room string, limit int) ([]domain.ChatMessage, error) {
	ctx, span := tracer.Start(ctx, "Chat.Usecase.History")
	defer span.End()

	if err := uc.authorize(ctx, principal, room); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > uc.historyLimit {
		limit = uc.historyLimit
	}
	return uc.repo.ListMessages(ctx, room, limit)
}
