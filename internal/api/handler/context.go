package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tradelog/trading-journal/internal/api/middleware"
	"github.com/tradelog/trading-journal/internal/core/ports"
)

// ctxUserID returns the authenticated caller. Every owner-scoped handler
// goes through it, so a request without an identity never reaches a service.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.ContextUserID).(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}

func ctxClaims(c echo.Context) (ports.TokenClaims, error) {
	userID, err := ctxUserID(c)
	if err != nil {
		return ports.TokenClaims{}, err
	}
	email, _ := c.Get(middleware.ContextEmail).(string)
	jti, _ := c.Get(middleware.ContextTokenID).(string)
	exp, _ := c.Get(middleware.ContextExpiresAt).(time.Time)
	return ports.TokenClaims{UserID: userID, Email: email, TokenID: jti, ExpiresAt: exp}, nil
}
