package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/tradelog/trading-journal/docs"
	"github.com/tradelog/trading-journal/internal/api/handler"
	"github.com/tradelog/trading-journal/internal/api/middleware"
	"github.com/tradelog/trading-journal/internal/core/domain"
	"github.com/tradelog/trading-journal/internal/core/ports"
)

// RouterConfig carries everything the HTTP layer needs. Services are built
// by the caller so the router stays free of storage concerns.
type RouterConfig struct {
	Auth     ports.AuthService
	Profiles ports.ProfileService
	Roles    ports.RoleResolver
	Trades   ports.TradeService
	Admin    ports.AdminService

	// Revocations may be nil; signed-out tokens then stay valid until expiry.
	Revocations  middleware.RevocationChecker
	HealthChecks map[string]handler.CheckFunc

	JWTSecret string
	// AuthRateLimit is requests per second per client IP on /auth. Zero disables it.
	AuthRateLimit float64

	Logger zerolog.Logger
	// Registerer and Gatherer default to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	registerer := cfg.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(cfg.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Operational endpoints (no auth required) ---
	health := handler.NewHealthHandler(cfg.HealthChecks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	requireAuth := middleware.Auth(cfg.JWTSecret, cfg.Revocations)

	// --- Identity provider ---
	authHandler := handler.NewAuthHandler(cfg.Auth)
	auth := e.Group("/auth")
	if cfg.AuthRateLimit > 0 {
		auth.Use(authRateLimiter(cfg.AuthRateLimit))
	}
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/signin", authHandler.SignIn)
	auth.POST("/signout", authHandler.SignOut, requireAuth)
	auth.GET("/session", authHandler.Session, requireAuth)

	v1 := e.Group("/v1", requireAuth)

	// --- Own profile and role ---
	meHandler := handler.NewMeHandler(cfg.Profiles, cfg.Roles)
	v1.GET("/me", meHandler.Profile)
	v1.GET("/me/role", meHandler.Role)
	v1.PATCH("/me/profile", meHandler.UpdateProfile)

	// --- Trading records (owner-scoped) ---
	tradeHandler := handler.NewTradeHandler(cfg.Trades)
	v1.GET("/records", tradeHandler.List)
	v1.POST("/records", tradeHandler.Create)
	v1.GET("/records/summary", tradeHandler.Summary)
	v1.GET("/records/:id", tradeHandler.Get)
	v1.PUT("/records/:id", tradeHandler.Update)
	v1.DELETE("/records/:id", tradeHandler.Delete)

	// --- Admin directory ---
	adminHandler := handler.NewAdminHandler(cfg.Admin)
	admin := v1.Group("/admin", middleware.ResolveRole(cfg.Roles), middleware.RBAC(domain.RoleAdmin))
	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/users/:id/role", adminHandler.SetRole)
	admin.GET("/records/count", adminHandler.CountRecords)
	admin.GET("/stats", adminHandler.Stats)

	return e
}

func authRateLimiter(perSecond float64) echo.MiddlewareFunc {
	burst := int(perSecond * 2)
	if burst < 1 {
		burst = 1
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
		},
	})
}
