package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"moviebuddy/internal/config"
)

func TestLoadDefaultConfigUsesEnvKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("OMDB_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "moviebuddy")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Artifacts.TitlesFile != filepath.Join(wantData, "movie_dict.json") {
		t.Fatalf("unexpected titles file: %q", cfg.Artifacts.TitlesFile)
	}
	if cfg.Artifacts.SimilarityFile != filepath.Join(wantData, "similarity.json") {
		t.Fatalf("unexpected similarity file: %q", cfg.Artifacts.SimilarityFile)
	}
	if cfg.Artifacts.Source != config.SourceFiles {
		t.Fatalf("expected files source by default, got %q", cfg.Artifacts.Source)
	}
	if cfg.Paths.APIBind != "127.0.0.1:8501" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.OMDb.APIKey != "test-key" {
		t.Fatalf("expected OMDb key from env, got %q", cfg.OMDb.APIKey)
	}
	if cfg.OMDb.BaseURL != config.Default().OMDb.BaseURL {
		t.Fatalf("unexpected OMDb base url: %q", cfg.OMDb.BaseURL)
	}
	if cfg.Recommend.Count != 10 {
		t.Fatalf("expected 10 recommendations by default, got %d", cfg.Recommend.Count)
	}
	if cfg.OMDbTimeout().Seconds() != 8 {
		t.Fatalf("unexpected timeout: %v", cfg.OMDbTimeout())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("OMDB_API_KEY", "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "moviebuddy.toml")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Artifacts struct {
			Source     string `toml:"source"`
			TitlesFile string `toml:"titles_file"`
		} `toml:"artifacts"`
		OMDb struct {
			APIKey  string `toml:"api_key"`
			BaseURL string `toml:"base_url"`
		} `toml:"omdb"`
		Recommend struct {
			Count        int `toml:"count"`
			FetchWorkers int `toml:"fetch_workers"`
		} `toml:"recommend"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Artifacts.Source = "SQLite"
	custom.Artifacts.TitlesFile = "/srv/movies/titles.csv"
	custom.OMDb.APIKey = "abc123"
	custom.OMDb.BaseURL = "https://example.com/omdb/"
	custom.Recommend.Count = 5
	custom.Recommend.FetchWorkers = 0
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.OMDb.APIKey != "abc123" {
		t.Fatalf("expected OMDb key from file, got %q", cfg.OMDb.APIKey)
	}
	if cfg.Artifacts.Source != config.SourceSQLite {
		t.Fatalf("expected normalized sqlite source, got %q", cfg.Artifacts.Source)
	}
	if cfg.Artifacts.TitlesFile != "/srv/movies/titles.csv" {
		t.Fatalf("absolute titles file should be kept, got %q", cfg.Artifacts.TitlesFile)
	}
	if cfg.Artifacts.DatabaseFile != filepath.Join(tempDir, "data", "artifacts.db") {
		t.Fatalf("database file should live in data dir, got %q", cfg.Artifacts.DatabaseFile)
	}
	if cfg.Paths.LogDir == "" {
		t.Fatal("expected log dir default")
	}
	if cfg.Recommend.Count != 5 {
		t.Fatalf("expected count override, got %d", cfg.Recommend.Count)
	}
	if cfg.Recommend.FetchWorkers != 1 {
		t.Fatalf("expected zero workers to mean sequential, got %d", cfg.Recommend.FetchWorkers)
	}
}

func TestFileKeyTakesPrecedenceOverEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "moviebuddy.toml")
	if err := os.WriteFile(configPath, []byte("[omdb]\napi_key = \"file-key\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("OMDB_API_KEY", "env-key")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.OMDb.APIKey != "file-key" {
		t.Fatalf("expected file key, got %q", cfg.OMDb.APIKey)
	}
}

func TestRequireOMDbKey(t *testing.T) {
	cfg := config.Default()
	err := cfg.RequireOMDbKey()
	if err == nil {
		t.Fatal("expected error when key missing")
	}
	if !strings.Contains(err.Error(), "OMDB_API_KEY") {
		t.Fatalf("expected env var hint, got %v", err)
	}
	cfg.OMDb.APIKey = "k"
	if err := cfg.RequireOMDbKey(); err != nil {
		t.Fatalf("unexpected error with key: %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"source":   "[artifacts]\nsource = \"postgres\"\n",
		"base_url": "[omdb]\nbase_url = \"not a url\"\n",
		"format":   "[logging]\nformat = \"xml\"\n",
		"level":    "[logging]\nlevel = \"verbose\"\n",
		"workers":  "[recommend]\nfetch_workers = 100\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "moviebuddy.toml")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatalf("expected validation error for %s", name)
			}
		})
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Recommend.Count != 10 {
		t.Fatalf("unexpected sample count: %d", cfg.Recommend.Count)
	}
}
