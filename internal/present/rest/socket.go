package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/sahara-community/pulse/internal/domain"
	"github.com/sahara-community/pulse/internal/present/rest/presenter"
	"github.com/sahara-community/pulse/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type chatRequest struct {
	Message string `json:"message"`
}

// handleSocket resolves the target and checks access before the upgrade,
// so rejected clients get a plain HTTP status.
func (h *Handler) handleSocket(c echo.Context) error {
	ctx := c.Request().Context()

	target, err := domain.ParseTarget(c.Param("*"))
	if err != nil {
		return presenter.NotFound(c, err.Error())
	}

	var principal *domain.Principal
	if p, ok := domain.PrincipalFromContext(ctx); ok {
		principal = &p
	}

	switch target.Kind {
	case domain.TargetNotifications:
		if principal == nil {
			return presenter.Unauthorized(c)
		}
		if principal.ID != target.Key {
			return presenter.Forbidden(c, "cannot listen to another user's notifications")
		}
	case domain.TargetChat:
		if err := h.chat.Join(ctx, principal, target.Key); err != nil {
			return presenter.Error(c, err)
		}
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return nil
	}

	session := realtime.NewSession(ws, h.registry, target.Topic, principal, h.session)
	if target.Kind == domain.TargetChat {
		session.HandleInbound(h.chatInbound(target.Key))
	}

	if err := session.Open(); err != nil {
		slog.ErrorContext(
			ctx, "Failed to open session",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		session.Close()
		return nil
	}

	slog.DebugContext(
		ctx, fmt.Sprintf("Socket subscribe: %s", target.Topic),
		slog.String("session", session.ID()),
		slog.String("module", "socket"),
	)

	_ = session.Run(h.ctx)
	return nil
}

// chatInbound stores and broadcasts messages sent by a chat client. The
// sender sees its message through the room broadcast only.
func (h *Handler) chatInbound(room string) realtime.InboundHandler {
	return func(ctx context.Context, s *realtime.Session, data []byte) error {
		var req chatRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return fmt.Errorf("%w: %s", domain.ErrInvalidPayload, err.Error())
		}

		var principal *domain.Principal
		if p, ok := s.Principal(); ok {
			principal = &p
		}

		_, err := h.chat.Post(ctx, principal, room, req.Message)
		if errors.Is(err, domain.ErrForbidden) {
			if sendErr := s.Send(domain.NewErrorPayload(err)); sendErr != nil {
				slog.WarnContext(
					ctx, "Failed to report rejection",
					slog.String("session", s.ID()),
					slog.String("error", sendErr.Error()),
					slog.String("module", "socket"),
				)
			}
		}
		return err
	}
}
