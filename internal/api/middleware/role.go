package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/tradelog/trading-journal/internal/core/ports"
)

// ResolveRole asks resolver for the caller's role and stores it under
// ContextRole. It never fails the request; the resolver already falls back
// to the least-privileged role.
func ResolveRole(resolver ports.RoleResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get(ContextUserID).(string)
			c.Set(ContextRole, string(resolver.Resolve(c.Request().Context(), userID)))
			return next(c)
		}
	}
}
