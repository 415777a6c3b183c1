package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"boxoffice/internal/gateway/app"
	"boxoffice/internal/gateway/config"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the dashboard once and serve it over HTTP and websocket",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = config.NormalizePort(port)
			}

			ctx, stop := signal.NotifyContext(logger.WithContext(cmd.Context()), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return a.Start(gctx)
			})
			g.Go(func() error {
				<-gctx.Done()
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := a.Shutdown(sctx); err != nil {
					return fmt.Errorf("server forced to shutdown: %w", err)
				}
				return nil
			})
			if err := g.Wait(); err != nil {
				return err
			}
			logger.Info().Msg("server exiting")
			return nil
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen address, overrides PORT")
	return cmd
}
