package presenter

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"

	"github.com/sahara-community/pulse/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

func BadRequest(c echo.Context, err error) error {
	slog.Debug("Bad request", slog.String("error", err.Error()), slog.String("module", "presenter"))
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func BadRequestMessage(c echo.Context, msg string) error {
	slog.Debug("Bad request", slog.String("error", msg), slog.String("module", "presenter"))
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func Unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{Error: "authentication required"})
}

func Forbidden(c echo.Context, msg string) error {
	slog.Debug("Forbidden", slog.String("error", msg), slog.String("module", "presenter"))
	return c.JSON(http.StatusForbidden, errorResponse{Error: msg})
}

func NotFound(c echo.Context, msg string) error {
	slog.Debug("Not found", slog.String("error", msg), slog.String("module", "presenter"))
	return c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func Unavailable(c echo.Context, err error) error {
	slog.Warn("Service unavailable", slog.String("error", err.Error()), slog.String("module", "presenter"))
	return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
}

func InternalError(c echo.Context, err error) error {
	ctx := c.Request().Context()
	slog.ErrorContext(
		ctx, "Internal error",
		slog.String("error", err.Error()),
		slog.String("traceID", trace.SpanFromContext(ctx).SpanContext().TraceID().String()),
		slog.String("module", "presenter"),
	)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// Error picks the response for a usecase error.
func Error(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return NotFound(c, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrInvalidPayload):
		return BadRequest(c, err)
	case errors.Is(err, domain.ErrUnroutableTarget):
		return NotFound(c, err.Error())
	case errors.Is(err, domain.ErrQueueFull), errors.Is(err, domain.ErrDispatcherClosed):
		return Unavailable(c, err)
	default:
		return InternalError(c, err)
	}
}
