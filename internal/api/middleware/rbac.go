package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tradelog/trading-journal/internal/core/domain"
	"github.com/tradelog/trading-journal/pkg/logger"
)

// RBAC admits only callers whose resolved role is one of allowedRoles.
// Must run after ResolveRole.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[string(r)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRole).(string)
			if _, ok := allowed[role]; !ok {
				logger.FromContext(c.Request().Context()).Warn().
					Str("role", role).
					Str("path", c.Path()).
					Msg("access denied")
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
