package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/tradelog/trading-journal/pkg/logger"
)

// RequestLogger writes one line per request and installs a request-scoped
// logger, tagged with the request id, into the request context.
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogRequestID: true,
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogError:     true,
		HandleError:  true,
		BeforeNextFunc: func(c echo.Context) {
			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			scoped := base.With().Str("request_id", reqID).Logger()
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), scoped)))
		},
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			ev := base.Info()
			switch {
			case v.Status >= 500:
				ev = base.Error().Err(v.Error)
			case v.Error != nil:
				ev = base.Warn().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
