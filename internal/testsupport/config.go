package testsupport

import (
	"path/filepath"
	"testing"

	"moviebuddy/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Artifacts.TitlesFile = filepath.Join(base, "data", "movie_dict.json")
	cfgVal.Artifacts.SimilarityFile = filepath.Join(base, "data", "similarity.json")
	cfgVal.Artifacts.DatabaseFile = filepath.Join(base, "data", "artifacts.db")
	cfgVal.OMDb.APIKey = "test"
	cfgVal.OMDb.RequestsPerSecond = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithOMDb points the metadata client at baseURL with the given key.
func WithOMDb(baseURL, apiKey string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.OMDb.BaseURL = baseURL
		b.cfg.OMDb.APIKey = apiKey
	}
}

// WithSource selects the artifact source (files or sqlite).
func WithSource(source string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Artifacts.Source = source
	}
}

// WithArtifacts writes the given titles and matrix to the configured artifact
// files.
func WithArtifacts(titles []string, rows [][]float64) ConfigOption {
	return func(b *configBuilder) {
		WriteTitlesJSON(b.t, b.cfg.Artifacts.TitlesFile, titles)
		WriteSimilarityJSON(b.t, b.cfg.Artifacts.SimilarityFile, rows)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
