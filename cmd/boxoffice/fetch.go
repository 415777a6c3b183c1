package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"boxoffice/internal/dashboard"
	"boxoffice/internal/gateway/app"
	"boxoffice/internal/gateway/config"
	"boxoffice/internal/llm"
	"boxoffice/internal/render"
	"boxoffice/internal/util/jsonutil"
)

type fetchOptions struct {
	JSON    bool
	Trace   bool
	Sources int
}

func newFetchCmd() *cobra.Command {
	var opts fetchOptions
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch one snapshot and print it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(logger.WithContext(cmd.Context()), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runFetch(ctx, cfg, logger, cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the snapshot as JSON")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "Print the prompt and raw answer to stderr")
	cmd.Flags().IntVar(&opts.Sources, "sources", dashboard.DefaultSourceLimit, "Number of sources to list, -1 for all")
	return cmd
}

// runFetch prints one snapshot to out. Failures surface as the same message
// the dashboard shows; details go to the log.
func runFetch(ctx context.Context, cfg *config.Config, logger zerolog.Logger, out io.Writer, opts fetchOptions) error {
	f, err := app.NewFetcher(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer f.Client.Close()

	if opts.Trace {
		ctx = llm.WithPromptHook(ctx, llm.NewTraceHook(os.Stderr))
	}
	snap, err := f.Fetch(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("fetch failed")
		return errors.New(dashboard.UserErrorMessage)
	}

	if opts.JSON {
		b, err := jsonutil.MarshalNoEscapeIndent(snap, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(b))
		return err
	}
	return render.Snapshot(out, snap, opts.Sources)
}
