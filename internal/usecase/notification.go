package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sahara-community/pulse/internal/domain"
)

var tracer = otel.Tracer("usecase")

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type NotificationUsecase struct {
	repo      NotificationRepository
	publisher Publisher
}

func NewNotificationUsecase(repo NotificationRepository, publisher Publisher) *NotificationUsecase {
	return &NotificationUsecase{repo: repo, publisher: publisher}
}

// Notify records a notification for userID and then pushes it to the
// user's live sessions. A failed write is returned and nothing is published.
func (uc *NotificationUsecase) Notify(
	ctx context.Context,
	userID string,
	message string,
	notifType domain.NotifType,
	relatedObjectID *string,
) (domain.Notification, error) {
	ctx, span := tracer.Start(ctx, "Notification.Usecase.Notify")
	defer span.End()
	span.SetAttributes(
		attribute.String("user", userID),
		attribute.String("type", string(notifType)),
	)

	if userID == "" {
		return domain.Notification{}, fmt.Errorf("%w: missing recipient", domain.ErrInvalidPayload)
	}
	if !notifType.Valid() {
		return domain.Notification{}, fmt.Errorf("%w: unknown notification type %q", domain.ErrInvalidPayload, notifType)
	}

	created, err := uc.repo.Create(ctx, domain.Notification{
		ID:              uuid.NewString(),
		UserID:          userID,
		Message:         message,
		NotifType:       notifType,
		RelatedObjectID: relatedObjectID,
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		span.RecordError(err)
		return domain.Notification{}, errors.Wrap(err, "store notification")
	}

	err = uc.publisher.Publish(ctx, domain.NotificationsTopic(userID), domain.NewNotificationPayload(created))
	if err != nil {
		slog.ErrorContext(
			ctx, "Failed to publish notification",
			slog.String("notification", created.ID),
			slog.String("error", err.Error()),
			slog.String("module", "notification"),
		)
	}

	return created, nil
}

func (uc *NotificationUsecase) List(ctx context.Context, principal domain.Principal, limit, offset int) ([]domain.Notification, error) {
	ctx, span := tracer.Start(ctx, "Notification.Usecase.List")
	defer span.End()

	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	return uc.repo.ListByUser(ctx, principal.ID, limit, offset)
}

// MarkRead flags a notification as read. Only its owner may do so.
func (uc *NotificationUsecase) MarkRead(ctx context.Context, principal domain.Principal, id string) error {
	ctx, span := tracer.Start(ctx, "Notification.Usecase.MarkRead")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return domain.NotFoundError{Resource: "notification"}
	}

	n, err := uc.repo.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if n.UserID != principal.ID {
		err := domain.ForbiddenError{Reason: "notification belongs to another user"}
		span.RecordError(err)
		return err
	}

	if n.IsRead {
		return nil
	}

	return uc.repo.MarkRead(ctx, id, principal.ID)
}

func (uc *NotificationUsecase) MarkAllRead(ctx context.Context, principal domain.Principal) (int64, error) {
	ctx, span := tracer.Start(ctx, "Notification.Usecase.MarkAllRead")
	defer span.End()

	return uc.repo.MarkAllRead(ctx, principal.ID)
}

func (uc *NotificationUsecase) UnreadCount(ctx context.Context, principal domain.Principal) (int64, error) {
	return uc.repo.CountUnread(ctx, principal.ID)
}
