package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"moviebuddy/internal/catalog"
	"moviebuddy/internal/services"
	"moviebuddy/internal/similarity"
)

const (
	metaImportedAt = "imported_at"
	metaSize       = "size"
)

// Store is the SQLite-backed artifact snapshot.
type Store struct {
	db   *sql.DB
	path string
}

// Info describes the stored snapshot.
type Info struct {
	Path       string    `json:"path"`
	Size       int       `json:"size"`
	ImportedAt time.Time `json:"imported_at"`
}

// Open initializes or connects to the artifact database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Import replaces the stored snapshot with cat and m in one transaction.
func (s *Store) Import(ctx context.Context, cat *catalog.Catalog, m *similarity.Matrix) error {
	if cat == nil || m == nil {
		return services.Wrap(services.ErrDataIntegrity, "store", "import", "catalog and matrix are required", nil)
	}
	if err := m.CheckCatalog(cat.Len()); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		"DELETE FROM similarity_rows",
		"DELETE FROM movies",
		"DELETE FROM artifact_meta",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear snapshot: %w", err)
		}
	}

	movieStmt, err := tx.PrepareContext(ctx, "INSERT INTO movies (position, movie_id, title) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare movie insert: %w", err)
	}
	defer movieStmt.Close()
	rowStmt, err := tx.PrepareContext(ctx, "INSERT INTO similarity_rows (position, scores) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare row insert: %w", err)
	}
	defer rowStmt.Close()

	for _, entry := range cat.Entries() {
		if _, err := movieStmt.ExecContext(ctx, entry.Position, nullableID(entry.MovieID), entry.Title); err != nil {
			return fmt.Errorf("insert movie %d: %w", entry.Position, err)
		}
		row, _ := m.Row(entry.Position)
		if _, err := rowStmt.ExecContext(ctx, entry.Position, encodeScores(row)); err != nil {
			return fmt.Errorf("insert similarity row %d: %w", entry.Position, err)
		}
	}

	meta := map[string]string{
		metaImportedAt: time.Now().UTC().Format(time.RFC3339Nano),
		metaSize:       strconv.Itoa(cat.Len()),
	}
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx, "INSERT INTO artifact_meta (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("insert meta %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// Load rebuilds the catalog and matrix from the stored snapshot. An empty
// store returns an error wrapping services.ErrNotFound.
func (s *Store) Load(ctx context.Context) (*catalog.Catalog, *similarity.Matrix, error) {
	entries, err := s.loadEntries(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(entries) == 0 {
		return nil, nil, services.Wrap(services.ErrNotFound, "store", "load", fmt.Sprintf("no artifacts imported into %s", s.path), nil)
	}
	cat, err := catalog.New(entries)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.loadRows(ctx, len(entries))
	if err != nil {
		return nil, nil, err
	}
	m, err := similarity.New(rows)
	if err != nil {
		return nil, nil, err
	}
	if err := m.CheckCatalog(cat.Len()); err != nil {
		return nil, nil, err
	}
	return cat, m, nil
}

// Info returns the snapshot size and import time.
func (s *Store) Info(ctx context.Context) (Info, error) {
	info := Info{Path: s.path}
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM artifact_meta")
	if err != nil {
		return info, fmt.Errorf("query meta: %w", err)
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return info, fmt.Errorf("scan meta: %w", err)
		}
		found = true
		switch key {
		case metaImportedAt:
			if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
				info.ImportedAt = ts
			}
		case metaSize:
			info.Size, _ = strconv.Atoi(value)
		}
	}
	if err := rows.Err(); err != nil {
		return info, fmt.Errorf("iterate meta: %w", err)
	}
	if !found {
		return info, services.Wrap(services.ErrNotFound, "store", "info", fmt.Sprintf("no artifacts imported into %s", s.path), nil)
	}
	return info, nil
}

func (s *Store) loadEntries(ctx context.Context) ([]catalog.Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT position, movie_id, title FROM movies ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	var entries []catalog.Entry
	for rows.Next() {
		var (
			position int
			movieID  sql.NullInt64
			title    string
		)
		if err := rows.Scan(&position, &movieID, &title); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		if position != len(entries) {
			return nil, services.Wrap(services.ErrDataIntegrity, "store", "load", fmt.Sprintf("movie positions skip from %d to %d", len(entries), position), nil)
		}
		entries = append(entries, catalog.Entry{Position: position, MovieID: movieID.Int64, Title: title})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return entries, nil
}

func (s *Store) loadRows(ctx context.Context, size int) ([][]float64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT position, scores FROM similarity_rows ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query similarity rows: %w", err)
	}
	defer rows.Close()

	out := make([][]float64, 0, size)
	for rows.Next() {
		var (
			position int
			blob     []byte
		)
		if err := rows.Scan(&position, &blob); err != nil {
			return nil, fmt.Errorf("scan similarity row: %w", err)
		}
		if position != len(out) {
			return nil, services.Wrap(services.ErrDataIntegrity, "store", "load", fmt.Sprintf("similarity rows skip from %d to %d", len(out), position), nil)
		}
		scores, err := decodeScores(blob)
		if err != nil {
			return nil, services.Wrap(services.ErrDataIntegrity, "store", "load", fmt.Sprintf("row %d", position), err)
		}
		out = append(out, scores)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate similarity rows: %w", err)
	}
	return out, nil
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
