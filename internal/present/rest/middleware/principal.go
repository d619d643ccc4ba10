package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sahara-community/pulse/internal/domain"
)

var tracer = otel.Tracer("auth")

// IdentifyPrincipal copies the requester set by the upstream gateway into
// the request context. Requests without the header stay anonymous.
func IdentifyPrincipal(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.IdentifyPrincipal")
		defer span.End()

		requesterID := strings.TrimSpace(c.Request().Header.Get(domain.RequesterIdHeader))
		if requesterID != "" {
			ctx = context.WithValue(ctx, domain.RequesterIdCtxKey, requesterID)
			span.SetAttributes(attribute.String("RequesterId", requesterID))

			username := strings.TrimSpace(c.Request().Header.Get(domain.RequesterUsernameHeader))
			if username != "" {
				ctx = context.WithValue(ctx, domain.RequesterUsernameCtxKey, username)
			}
		}

		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
