package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeArtifacts(); err != nil {
		return err
	}
	c.normalizeOMDb()
	c.normalizeRecommend()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	if c.Paths.APIToken == "" {
		if value, ok := os.LookupEnv("MOVIEBUDDY_API_TOKEN"); ok {
			c.Paths.APIToken = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeArtifacts() error {
	c.Artifacts.Source = strings.ToLower(strings.TrimSpace(c.Artifacts.Source))
	if c.Artifacts.Source == "" {
		c.Artifacts.Source = SourceFiles
	}
	var err error
	if c.Artifacts.TitlesFile, err = c.resolveDataPath(c.Artifacts.TitlesFile, defaultTitlesFile); err != nil {
		return fmt.Errorf("artifacts.titles_file: %w", err)
	}
	if c.Artifacts.SimilarityFile, err = c.resolveDataPath(c.Artifacts.SimilarityFile, defaultSimilarityFile); err != nil {
		return fmt.Errorf("artifacts.similarity_file: %w", err)
	}
	if c.Artifacts.DatabaseFile, err = c.resolveDataPath(c.Artifacts.DatabaseFile, defaultDatabaseFile); err != nil {
		return fmt.Errorf("artifacts.database_file: %w", err)
	}
	return nil
}

// resolveDataPath anchors bare file names and relative paths in the data directory.
func (c *Config) resolveDataPath(value, fallback string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	if !strings.HasPrefix(value, "~") && !filepath.IsAbs(value) {
		value = filepath.Join(c.Paths.DataDir, value)
	}
	return expandPath(value)
}

func (c *Config) normalizeOMDb() {
	c.OMDb.APIKey = strings.TrimSpace(c.OMDb.APIKey)
	if c.OMDb.APIKey == "" {
		if value, ok := os.LookupEnv("OMDB_API_KEY"); ok {
			c.OMDb.APIKey = strings.TrimSpace(value)
		}
	}
	c.OMDb.BaseURL = strings.TrimSpace(c.OMDb.BaseURL)
	if c.OMDb.BaseURL == "" {
		c.OMDb.BaseURL = defaultOMDbBaseURL
	}
	if c.OMDb.TimeoutSeconds <= 0 {
		c.OMDb.TimeoutSeconds = defaultOMDbTimeoutSeconds
	}
	if c.OMDb.RequestsPerSecond < 0 {
		c.OMDb.RequestsPerSecond = 0
	}
	if c.OMDb.Burst <= 0 {
		c.OMDb.Burst = defaultOMDbBurst
	}
	if c.OMDb.BreakerCooldownSeconds <= 0 {
		c.OMDb.BreakerCooldownSeconds = defaultBreakerCooldownSeconds
	}
	c.OMDb.NoPosterURL = strings.TrimSpace(c.OMDb.NoPosterURL)
	if c.OMDb.NoPosterURL == "" {
		c.OMDb.NoPosterURL = defaultNoPosterURL
	}
	c.OMDb.ErrorPosterURL = strings.TrimSpace(c.OMDb.ErrorPosterURL)
	if c.OMDb.ErrorPosterURL == "" {
		c.OMDb.ErrorPosterURL = defaultErrorPosterURL
	}
}

func (c *Config) normalizeRecommend() {
	if c.Recommend.Count <= 0 {
		c.Recommend.Count = defaultRecommendCount
	}
	if c.Recommend.FetchWorkers <= 0 {
		c.Recommend.FetchWorkers = 1
	}
	if c.Recommend.Suggestions < 0 {
		c.Recommend.Suggestions = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
