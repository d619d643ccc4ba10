package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sahara-community/pulse/internal/domain"
	"github.com/sahara-community/pulse/internal/geo"
)

type HelpRequestUsecase struct {
	notifications *NotificationUsecase
	publisher     Publisher
	users         UserRepository
	requests      HelpRequestRepository
	dispatcher    Enqueuer
	radiusKm      float64
}

func NewHelpRequestUsecase(
	notifications *NotificationUsecase,
	publisher Publisher,
	users UserRepository,
	requests HelpRequestRepository,
	dispatcher Enqueuer,
	radiusKm float64,
) *HelpRequestUsecase {
	if radiusKm <= 0 {
		radiusKm = geo.DefaultRadiusKm
	}
	return &HelpRequestUsecase{
		notifications: notifications,
		publisher:     publisher,
		users:         users,
		requests:      requests,
		dispatcher:    dispatcher,
		radiusKm:      radiusKm,
	}
}

// Created announces a new help request on the community feed. Emergencies
// additionally notify every active user except the creator; that fan-out
// is queued so the caller does not wait for it.
func (uc *HelpRequestUsecase) Created(ctx context.Context, req domain.HelpRequest) error {
	ctx, span := tracer.Start(ctx, "HelpRequest.Usecase.Created")
	defer span.End()
	span.SetAttributes(
		attribute.String("request", req.ID),
		attribute.Bool("emergency", req.IsEmergency),
	)

	if req.ID == "" {
		return fmt.Errorf("%w: help request without id", domain.ErrInvalidPayload)
	}

	if req.IsEmergency {
		err := uc.dispatcher.Enqueue("emergency:"+req.ID, func(ctx context.Context) error {
			return uc.notifyEmergency(ctx, req)
		})
		if err != nil {
			span.RecordError(err)
			return errors.Wrap(err, "queue emergency fan-out")
		}
	}

	return uc.publisher.Publish(ctx, domain.CommunityFeedTopic, domain.NewHelpRequestFeedItem(req))
}

// notifyEmergency writes one independent notification per recipient. A
// failure for one recipient does not undo or stop the others.
func (uc *HelpRequestUsecase) notifyEmergency(ctx context.Context, req domain.HelpRequest) error {
	ctx, span := tracer.Start(ctx, "HelpRequest.Usecase.notifyEmergency")
	defer span.End()

	recipients, err := uc.users.ActiveUserIDs(ctx)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "list active users")
	}

	message := fmt.Sprintf("🚨 Emergency Help Needed: '%s'", req.Title)
	related := req.ID

	sent, failed := 0, 0
	for _, userID := range recipients {
		if userID == req.CreatedBy {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_, err := uc.notifications.Notify(ctx, userID, message, domain.NotifTypeEmergency, &related)
		if err != nil {
			failed++
			slog.ErrorContext(
				ctx, "Failed to notify user of emergency",
				slog.String("user", userID),
				slog.String("request", req.ID),
				slog.String("error", err.Error()),
				slog.String("module", "helprequest"),
			)
			continue
		}
		sent++
	}

	span.SetAttributes(attribute.Int("sent", sent), attribute.Int("failed", failed))
	if failed > 0 {
		return fmt.Errorf("emergency fan-out for %s: %d of %d notifications failed", req.ID, failed, sent+failed)
	}
	return nil
}

// ApplicationSubmitted tells the request creator someone applied.
func (uc *HelpRequestUsecase) ApplicationSubmitted(ctx context.Context, app domain.Application, req domain.HelpRequest) error {
	ctx, span := tracer.Start(ctx, "HelpRequest.Usecase.ApplicationSubmitted")
	defer span.End()

	if req.CreatedBy == "" || req.CreatedBy == app.ApplicantID {
		return nil
	}

	name := app.ApplicantName
	if name == "" {
		name = app.ApplicantID
	}

	related := req.ID
	_, err := uc.notifications.Notify(
		ctx,
		req.CreatedBy,
		fmt.Sprintf("%s applied to your help request: '%s'", name, req.Title),
		domain.NotifTypeApplication,
		&related,
	)
	if err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// ApplicationDecided tells the applicant their application was approved or
// rejected. The decision only counts as done once the notification is stored.
func (uc *HelpRequestUsecase) ApplicationDecided(ctx context.Context, app domain.Application, req domain.HelpRequest, approved bool) error {
	ctx, span := tracer.Start(ctx, "HelpRequest.Usecase.ApplicationDecided")
	defer span.End()
	span.SetAttributes(attribute.Bool("approved", approved))

	if app.ApplicantID == "" {
		return fmt.Errorf("%w: application without applicant", domain.ErrInvalidPayload)
	}

	message := fmt.Sprintf("❌ Your application for '%s' was rejected.", req.Title)
	if approved {
		message = fmt.Sprintf("🎉 Your application for '%s' was approved!", req.Title)
	}

	related := req.ID
	_, err := uc.notifications.Notify(ctx, app.ApplicantID, message, domain.NotifTypeApplicationResult, &related)
	if err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// StatusChanged pushes the new status to everyone watching the request.
func (uc *HelpRequestUsecase) StatusChanged(ctx context.Context, req domain.HelpRequest) error {
	ctx, span := tracer.Start(ctx, "HelpRequest.Usecase.StatusChanged")
	defer span.End()

	if req.ID == "" {
		return fmt.Errorf("%w: help request without id", domain.ErrInvalidPayload)
	}

	return uc.publisher.Publish(ctx, domain.HelpRequestTopic(req.ID), domain.HelpRequestUpdate{
		Type:    domain.HelpRequestUpdateType,
		ID:      req.ID,
		Status:  req.Status,
		Message: fmt.Sprintf("Help request '%s' is now %s", req.Title, req.Status),
	})
}

// ListNearby ranks every help request for a viewer at ref. A nil ref yields
// no distances.
func (uc *HelpRequestUsecase) ListNearby(ctx context.Context, ref *geo.Point, radiusKm float64) ([]domain.NearbyHelpRequest, error) {
	ctx, span := tracer.Start(ctx, "HelpRequest.Usecase.ListNearby")
	defer span.End()

	if radiusKm <= 0 {
		radiusKm = uc.radiusKm
	}

	requests, err := uc.requests.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "list help requests")
	}

	ranked := geo.Rank(ref, radiusKm, requests)
	result := make([]domain.NearbyHelpRequest, 0, len(ranked))
	for _, r := range ranked {
		item := domain.NearbyHelpRequest{HelpRequest: r.Item, IsNearby: r.InRange}
		if r.Distance != nil {
			d := geo.Round2(*r.Distance)
			item.Distance = &d
		}
		result = append(result, item)
	}
	return result, nil
}
