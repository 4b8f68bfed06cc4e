package artifacts

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"moviebuddy/internal/catalog"
	"moviebuddy/internal/services"
	"moviebuddy/internal/similarity"
)

// LoadSimilarity reads a similarity matrix from a .json file.
func LoadSimilarity(path string) (*similarity.Matrix, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".json" {
		return nil, services.Wrap(services.ErrValidation, "artifacts", "load similarity", fmt.Sprintf("unsupported similarity format %q", ext), nil)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open similarity file: %w", err)
	}
	defer f.Close()
	return DecodeSimilarity(bufio.NewReader(f))
}

// DecodeSimilarity decodes a JSON array of numeric rows.
func DecodeSimilarity(r io.Reader) (*similarity.Matrix, error) {
	var rows [][]float64
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, services.Wrap(services.ErrDataIntegrity, "artifacts", "decode similarity", "", err)
	}
	return similarity.New(rows)
}

// Load reads both artifacts and checks that they describe the same corpus.
func Load(titlesPath, similarityPath string) (*catalog.Catalog, *similarity.Matrix, error) {
	entries, err := LoadTitles(titlesPath)
	if err != nil {
		return nil, nil, err
	}
	cat, err := catalog.New(entries)
	if err != nil {
		return nil, nil, err
	}
	m, err := LoadSimilarity(similarityPath)
	if err != nil {
		return nil, nil, err
	}
	if err := m.CheckCatalog(cat.Len()); err != nil {
		return nil, nil, err
	}
	return cat, m, nil
}
