package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/zeebo/xxh3"

	"github.com/sahara-community/pulse/internal/domain"
	"github.com/sahara-community/pulse/internal/geo"
	"github.com/sahara-community/pulse/internal/present/rest/presenter"
	"github.com/sahara-community/pulse/internal/realtime"
	"github.com/sahara-community/pulse/internal/usecase"
)

type Handler struct {
	ctx           context.Context
	notifications *usecase.NotificationUsecase
	helpRequests  *usecase.HelpRequestUsecase
	feed          *usecase.FeedUsecase
	chat          *usecase.ChatUsecase
	registry      *realtime.Registry
	session       realtime.Options
}

// NewHandler wires the HTTP surface. Sessions run under ctx, so cancelling
// it closes every live connection.
func NewHandler(
	ctx context.Context,
	notifications *usecase.NotificationUsecase,
	helpRequests *usecase.HelpRequestUsecase,
	feed *usecase.FeedUsecase,
	chat *usecase.ChatUsecase,
	registry *realtime.Registry,
	session realtime.Options,
) *Handler {
	return &Handler{
		ctx:           ctx,
		notifications: notifications,
		helpRequests:  helpRequests,
		feed:          feed,
		chat:          chat,
		registry:      registry,
		session:       session,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.handleHealth)
	e.GET("/ws/*", h.handleSocket)

	api := e.Group("/api/v1")
	api.GET("/notifications", h.handleNotifications)
	api.GET("/notifications/unread-count", h.handleUnreadCount)
	api.POST("/notifications/read-all", h.handleMarkAllRead)
	api.POST("/notifications/:id/read", h.handleMarkRead)
	api.GET("/help-requests/nearby", h.handleNearby)
	api.GET("/chat/:room/messages", h.handleChatHistory)

	internal := e.Group("/internal/events")
	internal.POST("/help-request-created", h.handleHelpRequestCreated)
	internal.POST("/application-submitted", h.handleApplicationSubmitted)
	internal.POST("/application-decided", h.handleApplicationDecided)
	internal.POST("/help-request-updated", h.handleHelpRequestUpdated)
	internal.POST("/community-post-created", h.handleCommunityPostCreated)
	internal.POST("/donation-campaign-updated", h.handleDonationCampaignUpdated)
}

func (h *Handler) handleHealth(c echo.Context) error {
	return presenter.OK(c, echo.Map{"status": "ok", "topics": h.registry.Len()})
}

func queryInt(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}
	return value, nil
}

func (h *Handler) handleNotifications(c echo.Context) error {
	ctx := c.Request().Context()
	principal, ok := domain.PrincipalFromContext(ctx)
	if !ok {
		return presenter.Unauthorized(c)
	}

	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	notifications, err := h.notifications.List(ctx, principal, limit, offset)
	if err != nil {
		return presenter.Error(c, err)
	}

	body, err := json.Marshal(notifications)
	if err != nil {
		return presenter.InternalError(c, err)
	}

	etag := fmt.Sprintf(`"%016x"`, xxh3.Hash(body))
	c.Response().Header().Set("Cache-Control", "private, no-cache")
	c.Response().Header().Set("ETag", etag)
	if c.Request().Header.Get("If-None-Match") == etag {
		return c.NoContent(http.StatusNotModified)
	}

	return c.JSONBlob(http.StatusOK, body)
}

func (h *Handler) handleUnreadCount(c echo.Context) error {
	ctx := c.Request().Context()
	principal, ok := domain.PrincipalFromContext(ctx)
	if !ok {
		return presenter.Unauthorized(c)
	}

	count, err := h.notifications.UnreadCount(ctx, principal)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"unread_count": count})
}

func (h *Handler) handleMarkRead(c echo.Context) error {
	ctx := c.Request().Context()
	principal, ok := domain.PrincipalFromContext(ctx)
	if !ok {
		return presenter.Unauthorized(c)
	}

	err := h.notifications.MarkRead(ctx, principal, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleMarkAllRead(c echo.Context) error {
	ctx := c.Request().Context()
	principal, ok := domain.PrincipalFromContext(ctx)
	if !ok {
		return presenter.Unauthorized(c)
	}

	updated, err := h.notifications.MarkAllRead(ctx, principal)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok", "updated": updated})
}

func (h *Handler) handleNearby(c echo.Context) error {
	ctx := c.Request().Context()

	var ref *geo.Point
	latStr, lngStr := c.QueryParam("lat"), c.QueryParam("lng")
	if latStr != "" || lngStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid lat parameter")
		}
		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid lng parameter")
		}
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return presenter.BadRequestMessage(c, "coordinates out of range")
		}
		ref = &geo.Point{Lat: lat, Lng: lng}
	}

	var radius float64
	if radiusStr := c.QueryParam("radius"); radiusStr != "" {
		parsed, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil || parsed <= 0 {
			return presenter.BadRequestMessage(c, "invalid radius parameter")
		}
		radius = parsed
	}

	results, err := h.helpRequests.ListNearby(ctx, ref, radius)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, results)
}

func (h *Handler) handleChatHistory(c echo.Context) error {
	ctx := c.Request().Context()

	var principal *domain.Principal
	if p, ok := domain.PrincipalFromContext(ctx); ok {
		principal = &p
	}

	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	messages, err := h.chat.History(ctx, principal, c.Param("room"), limit)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, messages)
}
