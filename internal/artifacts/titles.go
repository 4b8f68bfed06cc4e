package artifacts

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"moviebuddy/internal/catalog"
	"moviebuddy/internal/services"
)

const (
	columnTitle   = "title"
	columnMovieID = "movie_id"
)

// LoadTitles reads catalog entries from a .json or .csv file.
func LoadTitles(path string) ([]catalog.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open titles file: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return DecodeTitlesJSON(f)
	case ".csv":
		return DecodeTitlesCSV(f)
	default:
		return nil, services.Wrap(services.ErrValidation, "artifacts", "load titles", fmt.Sprintf("unsupported titles format %q", ext), nil)
	}
}

// DecodeTitlesJSON decodes either the records or the column layout.
func DecodeTitlesJSON(r io.Reader) ([]catalog.Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read titles: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, integrityError("titles file is empty")
	}
	switch trimmed[0] {
	case '[':
		return decodeRecords(trimmed)
	case '{':
		return decodeColumns(trimmed)
	default:
		return nil, integrityError("titles JSON must be an array of records or an object of columns")
	}
}

type titleRecord struct {
	MovieID any     `json:"movie_id"`
	Title   *string `json:"title"`
}

func decodeRecords(data []byte) ([]catalog.Entry, error) {
	var records []titleRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, services.Wrap(services.ErrDataIntegrity, "artifacts", "decode titles", "", err)
	}
	entries := make([]catalog.Entry, 0, len(records))
	for i, rec := range records {
		if rec.Title == nil {
			return nil, integrityError(fmt.Sprintf("record %d has no %s", i, columnTitle))
		}
		id, err := parseMovieID(rec.MovieID)
		if err != nil {
			return nil, integrityError(fmt.Sprintf("record %d: %v", i, err))
		}
		entries = append(entries, catalog.Entry{MovieID: id, Title: *rec.Title})
	}
	return entries, nil
}

func decodeColumns(data []byte) ([]catalog.Entry, error) {
	var columns map[string]map[string]any
	if err := json.Unmarshal(data, &columns); err != nil {
		return nil, services.Wrap(services.ErrDataIntegrity, "artifacts", "decode titles", "", err)
	}
	titles, ok := columns[columnTitle]
	if !ok {
		return nil, integrityError(fmt.Sprintf("missing %q column", columnTitle))
	}

	type row struct {
		key   string
		index int64
	}
	rows := make([]row, 0, len(titles))
	for key := range titles {
		index, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, integrityError(fmt.Sprintf("row key %q is not an integer", key))
		}
		rows = append(rows, row{key: key, index: index})
	}
	sort.Slice(rows, func(a, b int) bool { return rows[a].index < rows[b].index })

	ids := columns[columnMovieID]
	entries := make([]catalog.Entry, 0, len(rows))
	for _, r := range rows {
		title, ok := titles[r.key].(string)
		if !ok {
			return nil, integrityError(fmt.Sprintf("row %s: title is not a string", r.key))
		}
		id, err := parseMovieID(ids[r.key])
		if err != nil {
			return nil, integrityError(fmt.Sprintf("row %s: %v", r.key, err))
		}
		entries = append(entries, catalog.Entry{MovieID: id, Title: title})
	}
	return entries, nil
}

// DecodeTitlesCSV decodes a CSV table whose header names a title column.
func DecodeTitlesCSV(r io.Reader) ([]catalog.Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, integrityError("titles file is empty")
	}
	if err != nil {
		return nil, services.Wrap(services.ErrDataIntegrity, "artifacts", "decode titles", "read header", err)
	}
	titleCol, idCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case columnTitle:
			titleCol = i
		case columnMovieID:
			idCol = i
		}
	}
	if titleCol < 0 {
		return nil, integrityError(fmt.Sprintf("missing %q column", columnTitle))
	}

	var entries []catalog.Entry
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, services.Wrap(services.ErrDataIntegrity, "artifacts", "decode titles", "", err)
		}
		if titleCol >= len(record) {
			return nil, integrityError(fmt.Sprintf("line %d has no title field", line))
		}
		entry := catalog.Entry{Title: record[titleCol]}
		if idCol >= 0 && idCol < len(record) {
			id, err := parseMovieID(record[idCol])
			if err != nil {
				return nil, integrityError(fmt.Sprintf("line %d: %v", line, err))
			}
			entry.MovieID = id
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseMovieID(value any) (int64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("movie_id %v is not an integer", v)
		}
		return int64(v), nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return 0, nil
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("movie_id %q is not an integer", v)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("movie_id has unsupported type %T", value)
	}
}

func integrityError(message string) error {
	return services.Wrap(services.ErrDataIntegrity, "artifacts", "decode titles", message, nil)
}
