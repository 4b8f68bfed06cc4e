package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
)

type titleRecord struct {
	MovieID int64  `json:"movie_id,omitempty"`
	Title   string `json:"title"`
}

// WriteTitlesJSON writes titles in the records layout, numbering movie ids
// from 1.
func WriteTitlesJSON(t testing.TB, path string, titles []string) {
	t.Helper()
	records := make([]titleRecord, len(titles))
	for i, title := range titles {
		records[i] = titleRecord{MovieID: int64(i + 1), Title: title}
	}
	writeJSON(t, path, records)
}

// WriteSimilarityJSON writes rows as a JSON matrix.
func WriteSimilarityJSON(t testing.TB, path string, rows [][]float64) {
	t.Helper()
	writeJSON(t, path, rows)
}

// SampleTitles is a four movie corpus with a matching SampleMatrix.
var SampleTitles = []string{"Avatar", "Aliens", "Heat", "The Matrix"}

// SampleMatrix ranks Aliens then The Matrix (tied, earlier wins) then Heat
// for Avatar.
var SampleMatrix = [][]float64{
	{1.0, 0.9, 0.1, 0.9},
	{0.9, 1.0, 0.2, 0.3},
	{0.1, 0.2, 1.0, 0.4},
	{0.9, 0.3, 0.4, 1.0},
}

func writeJSON(t testing.TB, path string, payload any) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
