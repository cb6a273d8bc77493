package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskfleet/taskfleet/internal/config"
	"github.com/taskfleet/taskfleet/internal/notify"
	"github.com/taskfleet/taskfleet/internal/platform/cache"
	"github.com/taskfleet/taskfleet/internal/platform/postgres"
	"github.com/taskfleet/taskfleet/internal/service/auth"
	"github.com/taskfleet/taskfleet/internal/store"
)

// application holds the assembled dependencies of the HTTP server so the
// router and lifecycle code can reach them, and so cleanup can release
// them on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	userStore    store.UserStore
	taskStore    store.TaskStore
	tokenService auth.TokenService
	hasher       *auth.BcryptHasher
	notifier     *notify.AsynqNotifier
	cache        *cache.RedisCache
}

// newApplication constructs every service the server needs from the
// loaded configuration and the open database handle.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	db *sql.DB,
) (*application, error) {
	tokenService, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	redisCache, err := cache.NewRedisCache(ctx, cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis cache: %w", err)
	}

	return &application{
		config:       cfg,
		logger:       log,
		userStore:    postgres.NewPostgresUserStore(db, log),
		taskStore:    postgres.NewPostgresTaskStore(db, log),
		tokenService: tokenService,
		hasher:       auth.NewBcryptHasher(0),
		notifier:     notify.NewAsynqNotifier(cfg.Redis, log),
		cache:        redisCache,
	}, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup releases application resources on shutdown.
func (app *application) cleanup() {
	if err := app.notifier.Close(); err != nil {
		app.logger.Error("failed to close notifier", slog.String("error", err.Error()))
	}
	if err := app.cache.Close(); err != nil {
		app.logger.Error("failed to close cache", slog.String("error", err.Error()))
	}
}
