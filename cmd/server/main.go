// Package main wires configuration, logging, storage, the backend client and
// the HTTP router, and runs the storefront gateway until SIGINT or SIGTERM.
//
// @title        Green Haven Storefront Gateway
// @version      1.0
// @description  Session-aware gateway in front of the Green Haven storefront backend.
// @BasePath     /v1
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/greenhaven/storefront/internal/api"
	"github.com/greenhaven/storefront/internal/core/service"
	"github.com/greenhaven/storefront/internal/infrastructure/backend"
	"github.com/greenhaven/storefront/internal/infrastructure/config"
	"github.com/greenhaven/storefront/internal/infrastructure/crypto"
	mongodb "github.com/greenhaven/storefront/internal/infrastructure/db/mongo"
	redisdb "github.com/greenhaven/storefront/internal/infrastructure/db/redis"
	"github.com/greenhaven/storefront/internal/infrastructure/queue"
	"github.com/greenhaven/storefront/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "storefront-gateway",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	store, err := mongodb.Open(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		OpTimeout:   cfg.Mongo.OpTimeout,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to mongodb")
	}
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to redis")
	}

	sessions := mongodb.NewSessionRepository(store.DB())
	if err := sessions.EnsureIndexes(ctx, cfg.Session.IdleTTL); err != nil {
		log.Fatal().Err(err).Msg("cannot create session indexes")
	}
	audit := mongodb.NewAuditRepository(store.DB())
	if err := audit.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("cannot create audit indexes")
	}

	sealer, err := crypto.NewSealer([]byte(cfg.Session.Secret), "flow-password")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot derive flow sealing key")
	}
	flows := redisdb.NewFlowStore(rdb, sealer, cfg.Auth.FlowTTL)
	guard := redisdb.NewInFlightGuard(rdb, cfg.Backend.Timeout)
	cache := redisdb.NewQueryCache(rdb, cfg.Cache.StaleTime)

	// --- Cache invalidation workers ---
	dispatcherCtx, cancelDispatcher := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Cache.InvalidationWorkers, cache, log)
	dispatcher.Start(dispatcherCtx)

	// --- Backend and services ---
	client := backend.New(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		RPS:     cfg.Backend.RPS,
		Burst:   cfg.Backend.Burst,
	}, sessions, nil, log)

	authFlows := service.NewAuthFlowService(client, sessions, flows, guard, audit, service.AuthFlowConfig{
		ResendCooldown: cfg.Auth.ResendCooldown,
		DefaultLocale:  cfg.DefaultLanguage,
	}, log)

	router := api.NewRouter(api.Deps{
		Flows:         authFlows,
		Sessions:      service.NewSessionService(sessions, cache, flows, cfg.DefaultLanguage, log),
		Catalog:       service.NewCatalogService(client, cache, cfg.CatalogPageSize, log),
		Carts:         service.NewCartService(client, client, sessions, cache, dispatcher, log),
		Wishlist:      service.NewWishlistService(client, cache, dispatcher, log),
		Profile:       service.NewProfileService(client, cache, dispatcher, cfg.RowsPerPage, log),
		Merchants:     service.NewMerchantService(client, log),
		SessionStore:  sessions,
		SessionSecret: []byte(cfg.Session.Secret),
		CookieSecure:  cfg.Session.CookieSecure,
		Mongo:         store,
		Redis:         rdb,
		Log:           log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting storefront gateway")
		if err := router.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	cancelDispatcher()
	dispatcher.Wait()

	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect")
	}
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close")
	}
}
