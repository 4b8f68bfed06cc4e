package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Artifact sources understood by Artifacts.Source.
const (
	SourceFiles  = "files"
	SourceSQLite = "sqlite"
)

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir  string `toml:"data_dir"`
	LogDir   string `toml:"log_dir"`
	APIBind  string `toml:"api_bind"`
	APIToken string `toml:"api_token"`
}

// Artifacts describes where the precomputed catalog and similarity matrix live.
type Artifacts struct {
	Source         string `toml:"source"`
	TitlesFile     string `toml:"titles_file"`
	SimilarityFile string `toml:"similarity_file"`
	DatabaseFile   string `toml:"database_file"`
}

// OMDb contains configuration for the OMDb metadata API.
type OMDb struct {
	APIKey                 string  `toml:"api_key"`
	BaseURL                string  `toml:"base_url"`
	TimeoutSeconds         int     `toml:"timeout_seconds"`
	RequestsPerSecond      float64 `toml:"requests_per_second"`
	Burst                  int     `toml:"burst"`
	BreakerFailures        int     `toml:"breaker_failures"`
	BreakerCooldownSeconds int     `toml:"breaker_cooldown_seconds"`
	NoPosterURL            string  `toml:"no_poster_url"`
	ErrorPosterURL         string  `toml:"error_poster_url"`
}

// Recommend contains knobs for the recommendation lookup and card assembly.
type Recommend struct {
	Count        int `toml:"count"`
	FetchWorkers int `toml:"fetch_workers"`
	Suggestions  int `toml:"suggestions"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for moviebuddy.
//
// Configuration sections by subsystem:
//   - Paths: data/log directories and API bind address
//   - Artifacts: precomputed catalog and similarity matrix locations
//   - OMDb: metadata API credentials, timeouts, rate limit and breaker
//   - Recommend: result count and metadata fan-out width
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Artifacts Artifacts `toml:"artifacts"`
	OMDb      OMDb      `toml:"omdb"`
	Recommend Recommend `toml:"recommend"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("moviebuddy.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath returns the file used to keep a single writer/server per data directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "moviebuddy.lock")
}

// RequireOMDbKey reports a configuration error naming where the key can be set.
// Commands that never fetch metadata do not call it.
func (c *Config) RequireOMDbKey() error {
	if strings.TrimSpace(c.OMDb.APIKey) != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf("omdb.api_key is required. Set OMDB_API_KEY env var or edit %s (create with 'moviebuddy config init')", defaultPath)
}

// OMDbTimeout returns the per-request timeout for metadata lookups.
func (c *Config) OMDbTimeout() time.Duration {
	return time.Duration(c.OMDb.TimeoutSeconds) * time.Second
}

// BreakerCooldown returns how long the metadata breaker stays open.
func (c *Config) BreakerCooldown() time.Duration {
	return time.Duration(c.OMDb.BreakerCooldownSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
