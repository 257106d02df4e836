package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/tradelog/trading-journal/pkg/logger"
)

// Context keys populated by Auth and ResolveRole.
const (
	ContextUserID    = "user_id"
	ContextEmail     = "email"
	ContextTokenID   = "token_id"
	ContextExpiresAt = "expires_at"
	ContextRole      = "role"
)

// RevocationChecker reports whether a token id was signed out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Auth validates the bearer JWT and injects its claims into the context.
// revoked may be nil, in which case sign-out is not enforced.
func Auth(jwtSecret string, revoked RevocationChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, _ := claims.GetSubject()
			if sub == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
			}
			jti, _ := claims["jti"].(string)
			email, _ := claims["email"].(string)

			if revoked != nil && jti != "" {
				gone, err := revoked.IsRevoked(c.Request().Context(), jti)
				if err != nil {
					logger.FromContext(c.Request().Context()).Error().Err(err).Msg("revocation check failed")
					return echo.NewHTTPError(http.StatusUnauthorized, "session could not be verified")
				}
				if gone {
					return echo.NewHTTPError(http.StatusUnauthorized, "session signed out")
				}
			}

			var exp time.Time
			if e, err := claims.GetExpirationTime(); err == nil && e != nil {
				exp = e.Time
			}

			c.Set(ContextUserID, sub)
			c.Set(ContextEmail, email)
			c.Set(ContextTokenID, jti)
			c.Set(ContextExpiresAt, exp)

			return next(c)
		}
	}
}
