package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable. The OMDb API key is not
// checked here; see RequireOMDbKey.
func (c *Config) Validate() error {
	if err := c.validateArtifacts(); err != nil {
		return err
	}
	if err := c.validateOMDb(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateArtifacts() error {
	switch c.Artifacts.Source {
	case SourceFiles, SourceSQLite:
		return nil
	default:
		return fmt.Errorf("artifacts.source must be %q or %q, got %q", SourceFiles, SourceSQLite, c.Artifacts.Source)
	}
}

func (c *Config) validateOMDb() error {
	parsed, err := url.Parse(c.OMDb.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("omdb.base_url must be an absolute URL, got %q", c.OMDb.BaseURL)
	}
	if c.OMDb.BreakerFailures < 0 {
		return errors.New("omdb.breaker_failures must not be negative")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.FetchWorkers > 32 {
		return errors.New("recommend.fetch_workers must be 32 or fewer")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
}
