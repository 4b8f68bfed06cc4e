package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"moviebuddy/internal/logging"
	"moviebuddy/internal/server"
	"moviebuddy/internal/store"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the recommendation HTTP API",
		Long: `Load the artifacts once and serve recommendations over HTTP.

Endpoints:
  GET /api/titles?q=          list or search titles
  GET /api/recommendations?title=
  GET /api/info?title=        metadata for one title
  GET /api/status
  GET /healthz, /metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if bind != "" {
				cfg.Paths.APIBind = bind
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger, err := ctx.newLogger(cfg, false)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			lock, err := store.AcquireLock(cfg.LockPath())
			if err != nil {
				return err
			}
			defer func() { _ = lock.Release() }()

			rec, err := newRecommender(signalCtx, cfg, logger)
			if err != nil {
				logging.ErrorWithContext(logger, "artifacts failed to load", "startup_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check artifacts.source and the artifact paths"),
				)
				return err
			}

			var fetcher server.Fetcher
			if f, err := newFetcher(cfg, logger); err != nil {
				logging.WarnWithContext(logger, "metadata lookups disabled", "metadata_disabled",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "set omdb.api_key or OMDB_API_KEY"),
					logging.String(logging.FieldImpact, "cards are served without posters or details"),
				)
			} else {
				fetcher = f
			}

			srv, err := server.New(rec, fetcher, server.Options{
				Bind:        cfg.Paths.APIBind,
				Token:       cfg.Paths.APIToken,
				Source:      cfg.Artifacts.Source,
				Suggestions: cfg.Recommend.Suggestions,
				Logger:      logger,
			})
			if err != nil {
				return err
			}
			if err := srv.Run(signalCtx); err != nil {
				return err
			}
			logger.Info("moviebuddy shutting down")
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Override paths.api_bind")
	return cmd
}
