// Package app wires configuration, the fetch pipeline, the dashboard service,
// the optional archive and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"boxoffice/internal/archive"
	"boxoffice/internal/dashboard"
	"boxoffice/internal/gateway/config"
	"boxoffice/internal/gateway/handler"
	"boxoffice/internal/gateway/server"
)

type App struct {
	Dashboard *dashboard.Service

	logger  zerolog.Logger
	handler http.Handler
	server  *server.Server
	closers []func() error
}

func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	fetcher, err := NewFetcher(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	store, closeStore, err := chooseArchive(ctx, cfg, logger)
	if err != nil {
		_ = fetcher.Client.Close()
		return nil, err
	}

	opts := dashboard.Options{
		RetainOnError: cfg.RetainOnError,
		Logger:        logger,
	}
	if store != nil {
		opts.Archive = archive.NewWriter(store)
	}
	svc := dashboard.New(fetcher, opts)

	// Routing & Server
	router := server.NewRouter(logger, cfg.CORSAllowedOrigins, handler.NewDashboardHandler(svc, store))

	return &App{
		Dashboard: svc,
		logger:    logger,
		handler:   router,
		server:    server.New(cfg.Port, router, logger),
		closers:   []func() error{fetcher.Client.Close, closeStore},
	}, nil
}

func (a *App) Handler() http.Handler { return a.handler }

// Start loads the dashboard once in the background and serves until
// Shutdown.
func (a *App) Start(ctx context.Context) error {
	go func() {
		lctx := a.logger.With().Str("trigger", "startup").Logger().WithContext(ctx)
		if _, err := a.Dashboard.Refresh(lctx); err != nil {
			a.logger.Warn().Err(err).Msg("initial load failed")
		}
	}()
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	for _, c := range a.closers {
		if cerr := c(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close: %w", cerr))
		}
	}
	return err
}
