// Command api serves the trading journal HTTP API.
//
//	@title						Trading Journal API
//	@version					1.0
//	@description				Personal stock trading journal with per-user records, profit/loss summaries and an admin user directory.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tradelog/trading-journal/internal/api"
	"github.com/tradelog/trading-journal/internal/api/handler"
	"github.com/tradelog/trading-journal/internal/core/service"
	"github.com/tradelog/trading-journal/internal/infrastructure/config"
	mongodb "github.com/tradelog/trading-journal/internal/infrastructure/db/mongo"
	redisdb "github.com/tradelog/trading-journal/internal/infrastructure/db/redis"
	"github.com/tradelog/trading-journal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "trading-journal",
	})

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongodb")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer rdb.Close()

	users := mongodb.NewAuthRepository(db)
	profiles := mongodb.NewProfileRepository(db)
	roles := mongodb.NewRoleRepository(db)
	records := mongodb.NewTradeRepository(db)
	revocations := redisdb.NewRevocationList(rdb)

	router := api.NewRouter(api.RouterConfig{
		Auth: service.NewAuthService(users, profiles, roles, revocations, cfg.JWTSecret, service.AuthOptions{
			TokenTTL:            cfg.TokenTTL,
			BootstrapAdminEmail: cfg.BootstrapAdminEmail,
		}, log.With().Str("component", "auth").Logger()),
		Profiles:    service.NewProfileService(profiles),
		Roles:       service.NewRoleResolver(roles, log.With().Str("component", "roles").Logger()),
		Trades:      service.NewTradeService(records, redisdb.NewIdempotencyStore(rdb), log.With().Str("component", "records").Logger()),
		Admin:       service.NewAdminService(profiles, roles, records, log.With().Str("component", "admin").Logger()),
		Revocations: revocations,
		HealthChecks: map[string]handler.CheckFunc{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return redisdb.Ping(ctx, rdb) },
		},
		JWTSecret:     cfg.JWTSecret,
		AuthRateLimit: cfg.AuthRateLimit,
		Logger:        log,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
	log.Info().Msg("shutdown complete")
}
