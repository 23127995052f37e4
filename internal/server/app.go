// Package server initializes and runs the CICLONE backend: it opens the
// PostgreSQL pool, applies migrations, connects the optional Redis cache,
// wires the services, and starts the HTTP server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ciclone-ptc/ciclone/internal/logging"
	"github.com/ciclone-ptc/ciclone/internal/server/cache"
	"github.com/ciclone-ptc/ciclone/internal/server/config"
	"github.com/ciclone-ptc/ciclone/internal/server/httpapi"
	"github.com/ciclone-ptc/ciclone/internal/server/repositories/repomanager"
	"github.com/ciclone-ptc/ciclone/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return &App{config: cfg, logger: logger, db: db}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	rm, err := repomanager.NewPostgresRepositoryManager(app.db)
	if err != nil {
		app.logger.Error(ctx, "db init error", "error", err.Error())
		return
	}

	if err := rm.RunMigrations(ctx, app.db); err != nil {
		app.logger.Error(ctx, "migration error", "error", err.Error())
		return
	}

	statsCache, err := cache.New(ctx, app.config.RedisAddr, app.config.StatsCacheTTL)
	if err != nil {
		app.logger.Warn(ctx, "cache unavailable, continuing without it", "error", err.Error())
		statsCache = nil
	}

	credits := services.NewCreditService(app.db, rm, statsCache)
	srv := httpapi.NewHTTPServer(
		app.config.EndpointAddr,
		app.logger,
		app.db,
		app.config.SecretKey,
		services.NewUserService(app.db, rm, app.config),
		credits,
		services.NewRatingService(app.db, rm, credits),
		services.NewCatalogService(app.db, rm),
		services.NewStatsService(app.db, rm, statsCache),
		services.NewAvatarService(app.db, rm, app.config),
	)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	_ = statsCache.Close()
	_ = app.db.Close()
}
