package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"moviebuddy/internal/artifacts"
	"moviebuddy/internal/catalog"
	"moviebuddy/internal/config"
	"moviebuddy/internal/logging"
	"moviebuddy/internal/metadata"
	"moviebuddy/internal/metadata/omdb"
	"moviebuddy/internal/recommend"
	"moviebuddy/internal/similarity"
	"moviebuddy/internal/store"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	verboseFlag  *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		verboseFlag:  verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// resolvedLogLevel applies --verbose and --log-level over the configured
// level. One-shot commands fall back to warn so logs don't bury results.
func (c *commandContext) resolvedLogLevel(cfg *config.Config, oneShot bool) string {
	if c.verboseFlag != nil && *c.verboseFlag {
		return "debug"
	}
	if c.logLevelFlag != nil {
		if level := strings.TrimSpace(*c.logLevelFlag); level != "" {
			return level
		}
	}
	if oneShot {
		return "warn"
	}
	return cfg.Logging.Level
}

// newLogger builds the process logger. Services log to stdout; one-shot
// commands log to stderr so stdout stays parseable.
func (c *commandContext) newLogger(cfg *config.Config, oneShot bool) (*slog.Logger, error) {
	console := "stdout"
	if oneShot {
		console = "stderr"
	}
	return logging.New(logging.Options{
		Level:       c.resolvedLogLevel(cfg, oneShot),
		Format:      cfg.Logging.Format,
		OutputPaths: []string{console, filepath.Join(cfg.Paths.LogDir, logging.LogFileName)},
	})
}

// loadArtifacts reads the catalog and matrix from the configured source.
func loadArtifacts(ctx context.Context, cfg *config.Config) (*catalog.Catalog, *similarity.Matrix, error) {
	switch cfg.Artifacts.Source {
	case config.SourceSQLite:
		s, err := store.Open(cfg.Artifacts.DatabaseFile)
		if err != nil {
			return nil, nil, fmt.Errorf("open artifact store: %w", err)
		}
		defer s.Close()
		cat, m, err := s.Load(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("load artifact store (run 'moviebuddy import' first): %w", err)
		}
		return cat, m, nil
	default:
		cat, m, err := artifacts.Load(cfg.Artifacts.TitlesFile, cfg.Artifacts.SimilarityFile)
		if err != nil {
			return nil, nil, fmt.Errorf("load artifacts: %w", err)
		}
		return cat, m, nil
	}
}

func newRecommender(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*recommend.Recommender, error) {
	cat, m, err := loadArtifacts(ctx, cfg)
	if err != nil {
		return nil, err
	}
	rec, err := recommend.New(cat, m,
		recommend.WithCount(cfg.Recommend.Count),
		recommend.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("build recommender: %w", err)
	}
	logger.Debug("artifacts loaded",
		logging.String("source", cfg.Artifacts.Source),
		logging.Int("titles", cat.Len()),
	)
	return rec, nil
}

func newFetcher(cfg *config.Config, logger *slog.Logger) (*metadata.Fetcher, error) {
	if err := cfg.RequireOMDbKey(); err != nil {
		return nil, err
	}
	client, err := omdb.New(cfg.OMDb.APIKey, cfg.OMDb.BaseURL, omdb.WithTimeout(cfg.OMDbTimeout()))
	if err != nil {
		return nil, fmt.Errorf("create omdb client: %w", err)
	}
	return metadata.New(client,
		metadata.WithLogger(logger),
		metadata.WithWorkers(cfg.Recommend.FetchWorkers),
		metadata.WithRateLimit(cfg.OMDb.RequestsPerSecond, cfg.OMDb.Burst),
		metadata.WithBreaker(metadata.BreakerSettings{
			Name:     "omdb",
			Failures: uint32(cfg.OMDb.BreakerFailures),
			Cooldown: cfg.BreakerCooldown(),
		}),
		metadata.WithPlaceholders(metadata.Placeholders{
			NoPoster:    cfg.OMDb.NoPosterURL,
			ErrorPoster: cfg.OMDb.ErrorPosterURL,
		}),
	), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
