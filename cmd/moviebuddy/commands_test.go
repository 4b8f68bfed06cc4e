package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"moviebuddy/internal/config"
	"moviebuddy/internal/testsupport"
)

func sampleConfig(t *testing.T, opts ...testsupport.ConfigOption) (*config.Config, string) {
	t.Helper()
	t.Setenv("OMDB_API_KEY", "")
	t.Setenv("MOVIEBUDDY_API_TOKEN", "")
	opts = append([]testsupport.ConfigOption{
		testsupport.WithArtifacts(testsupport.SampleTitles, testsupport.SampleMatrix),
	}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	return cfg, writeTestConfig(t, cfg)
}

func newOMDbServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title := r.URL.Query().Get("t")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"Title":      title,
			"Year":       "1995",
			"Genre":      "Crime",
			"Poster":     "https://img.example/" + strings.ReplaceAll(title, " ", "_") + ".jpg",
			"imdbID":     "tt0113277",
			"imdbRating": "8.3",
			"Response":   "True",
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRecommendWithoutMetadata(t *testing.T) {
	_, path := sampleConfig(t)

	out, _, err := runCLI(t, []string{"recommend", "Avatar", "--no-metadata"}, path)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	requireContains(t, out, "Because you picked Avatar")
	requireOrder(t, out, "Aliens", "The Matrix", "Heat")
	if strings.Count(out, "Avatar") != 1 {
		t.Fatalf("expected the picked title only in the heading, got %q", out)
	}
}

func TestRecommendJSONWithMetadata(t *testing.T) {
	omdbSrv := newOMDbServer(t)
	_, path := sampleConfig(t, testsupport.WithOMDb(omdbSrv.URL, "secret"))

	out, _, err := runCLI(t, []string{"recommend", "Avatar", "--count", "2", "--json"}, path)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	var payload recommendOutput
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(payload.Cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(payload.Cards))
	}
	first := payload.Cards[0]
	if first.Title != "Aliens" || first.Rank != 1 {
		t.Fatalf("unexpected first card %+v", first)
	}
	if first.Year != "1995" || first.DetailURL != "https://www.imdb.com/title/tt0113277" {
		t.Fatalf("expected metadata on card, got %+v", first.Record)
	}
	if payload.Cards[1].Title != "The Matrix" {
		t.Fatalf("expected The Matrix second, got %q", payload.Cards[1].Title)
	}
}

func TestRecommendCountIsCapped(t *testing.T) {
	cfg, path := sampleConfig(t)

	_, _, err := runCLI(t, []string{"recommend", "Avatar", "--no-metadata", "--count", "1000000"}, path)
	if err == nil {
		t.Fatal("expected an error for a count above recommend.count")
	}
	requireContains(t, err.Error(), fmt.Sprintf("between 1 and %d", cfg.Recommend.Count))
}

func TestRecommendRequiresKeyForMetadata(t *testing.T) {
	_, path := sampleConfig(t, testsupport.WithOMDb("http://127.0.0.1:1", ""))

	_, _, err := runCLI(t, []string{"recommend", "Avatar"}, path)
	if err == nil {
		t.Fatal("expected missing key error")
	}
	requireContains(t, err.Error(), "OMDB_API_KEY")
}

func TestRecommendUnknownTitleSuggests(t *testing.T) {
	_, path := sampleConfig(t)

	_, _, err := runCLI(t, []string{"recommend", "avatar", "--no-metadata"}, path)
	if err == nil {
		t.Fatal("expected not found error")
	}
	requireContains(t, err.Error(), `title "avatar" not found`)
	requireContains(t, err.Error(), `did you mean "Avatar"`)
}

func TestInfoFallsBackOnServerError(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(failing.Close)
	_, path := sampleConfig(t, testsupport.WithOMDb(failing.URL, "secret"))

	out, _, err := runCLI(t, []string{"info", "Heat", "--json"}, path)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	requireContains(t, out, `"year": "N/A"`)
	requireContains(t, out, "API+Error")
}

func TestInfoTable(t *testing.T) {
	omdbSrv := newOMDbServer(t)
	_, path := sampleConfig(t, testsupport.WithOMDb(omdbSrv.URL, "secret"))

	out, _, err := runCLI(t, []string{"info", "Heat"}, path)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	requireContains(t, out, "Crime")
	requireContains(t, out, "8.3")
	requireContains(t, out, "https://img.example/Heat.jpg")
}

func TestTitlesSearchAndFallback(t *testing.T) {
	_, path := sampleConfig(t)

	out, _, err := runCLI(t, []string{"titles"}, path)
	if err != nil {
		t.Fatalf("titles: %v", err)
	}
	requireOrder(t, out, "Avatar", "Aliens", "Heat", "The Matrix")

	out, _, err = runCLI(t, []string{"titles", "--search", "MATRIX"}, path)
	if err != nil {
		t.Fatalf("titles search: %v", err)
	}
	if strings.TrimSpace(out) != "The Matrix" {
		t.Fatalf("expected only The Matrix, got %q", out)
	}

	out, _, err = runCLI(t, []string{"titles", "--search", "Alien", "--json"}, path)
	if err != nil {
		t.Fatalf("titles json: %v", err)
	}
	requireContains(t, out, `"Aliens"`)
}

func TestImportThenRecommendFromStore(t *testing.T) {
	cfg, path := sampleConfig(t)

	out, _, err := runCLI(t, []string{"import"}, path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "Imported 4 titles")

	if err := os.Remove(cfg.Artifacts.TitlesFile); err != nil {
		t.Fatalf("remove titles: %v", err)
	}
	cfg.Artifacts.Source = config.SourceSQLite
	path = writeTestConfig(t, cfg)

	out, _, err = runCLI(t, []string{"recommend", "Avatar", "--no-metadata", "-n", "1"}, path)
	if err != nil {
		t.Fatalf("recommend from store: %v", err)
	}
	requireContains(t, out, "Aliens")
	if strings.Contains(out, "Heat") {
		t.Fatalf("expected a single recommendation, got %q", out)
	}

	out, _, err = runCLI(t, []string{"config", "validate", "--artifacts"}, path)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Artifacts (sqlite): 4 titles")
	requireContains(t, out, "Imported at: ")
}

func TestImportRejectsMismatchedArtifacts(t *testing.T) {
	cfg, path := sampleConfig(t)
	testsupport.WriteSimilarityJSON(t, cfg.Artifacts.SimilarityFile, [][]float64{{1, 0}, {0, 1}})

	_, _, err := runCLI(t, []string{"import"}, path)
	if err == nil {
		t.Fatal("expected import to fail")
	}
	if _, statErr := os.Stat(cfg.Artifacts.DatabaseFile); statErr == nil {
		t.Fatalf("expected no database to be written")
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	t.Setenv("OMDB_API_KEY", "")
	dir := t.TempDir()
	target := filepath.Join(dir, "moviebuddy", "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}

	_, path := sampleConfig(t)
	out, _, err = runCLI(t, []string{"config", "validate", "--artifacts"}, path)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path: "+path)
	requireContains(t, out, "Artifacts (files): 4 titles")
	requireContains(t, out, "Configuration valid")
}
