package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"moviebuddy/internal/catalog"
	"moviebuddy/internal/logging"
	"moviebuddy/internal/metrics"
	"moviebuddy/internal/services"
	"moviebuddy/internal/similarity"
)

// DefaultCount is the number of titles returned when no count is configured.
const DefaultCount = 10

// Match is a ranked neighbour and its similarity score.
type Match struct {
	Entry catalog.Entry `json:"entry"`
	Score float64       `json:"score"`
}

// Recommender returns the nearest neighbours of a title.
type Recommender struct {
	catalog *catalog.Catalog
	matrix  *similarity.Matrix
	count   int
	logger  *slog.Logger
}

// Option configures a Recommender.
type Option func(*Recommender)

// WithCount sets how many titles Recommend returns. Non-positive values keep
// the default.
func WithCount(n int) Option {
	return func(r *Recommender) {
		if n > 0 {
			r.count = n
		}
	}
}

// WithLogger sets the logger used for debug traces.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recommender) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New builds a Recommender. The matrix must match the catalog size exactly.
func New(cat *catalog.Catalog, m *similarity.Matrix, opts ...Option) (*Recommender, error) {
	if cat == nil || m == nil {
		return nil, services.Wrap(services.ErrDataIntegrity, "recommend", "init", "catalog and matrix are required", nil)
	}
	if err := m.CheckCatalog(cat.Len()); err != nil {
		return nil, err
	}
	r := &Recommender{
		catalog: cat,
		matrix:  m,
		count:   DefaultCount,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "recommend")
	return r, nil
}

// Count returns the configured result size.
func (r *Recommender) Count() int {
	return r.count
}

// Catalog returns the catalog the recommender ranks.
func (r *Recommender) Catalog() *catalog.Catalog {
	return r.catalog
}

// Recommend returns up to Count titles most similar to title, best first.
// An unknown title yields an empty slice and an error wrapping
// services.ErrNotFound.
func (r *Recommender) Recommend(title string) ([]string, error) {
	return r.RecommendContext(context.Background(), title)
}

// RecommendContext is Recommend with request-scoped logging fields.
func (r *Recommender) RecommendContext(ctx context.Context, title string) ([]string, error) {
	matches, err := r.neighbors(ctx, title, r.count)
	titles := make([]string, len(matches))
	for i, match := range matches {
		titles[i] = match.Entry.Title
	}
	return titles, err
}

// Neighbors returns the ranked matches behind Recommend, with scores.
func (r *Recommender) Neighbors(title string) ([]Match, error) {
	return r.neighbors(context.Background(), title, r.count)
}

// NeighborsContext is Neighbors with request-scoped logging fields and an
// explicit result size.
func (r *Recommender) NeighborsContext(ctx context.Context, title string, count int) ([]Match, error) {
	if count <= 0 {
		count = r.count
	}
	return r.neighbors(ctx, title, count)
}

// Suggest returns up to limit catalog titles resembling title.
func (r *Recommender) Suggest(title string, limit int) []string {
	return r.catalog.Suggest(title, limit)
}

func (r *Recommender) neighbors(ctx context.Context, title string, count int) ([]Match, error) {
	logger := logging.WithContext(ctx, r.logger)

	entry, ok := r.catalog.Lookup(title)
	if !ok {
		metrics.RecordRecommend(services.Kind(services.ErrNotFound))
		logger.Debug("title not in catalog", logging.String(logging.FieldTitle, title))
		return []Match{}, services.Wrap(
			services.ErrNotFound,
			"recommend",
			"lookup",
			fmt.Sprintf("title %q is not in the catalog", title),
			nil,
		)
	}

	row, _ := r.matrix.Row(entry.Position)
	ranked := rank(row)

	matches := make([]Match, 0, min(count, len(ranked)))
	for _, pos := range ranked {
		if len(matches) == count {
			break
		}
		if pos == entry.Position {
			continue
		}
		neighbor, _ := r.catalog.At(pos)
		matches = append(matches, Match{Entry: neighbor, Score: row[pos]})
	}

	metrics.RecordRecommend(services.Kind(nil))
	logger.Debug("recommendations ranked",
		logging.String(logging.FieldTitle, title),
		logging.Int("position", entry.Position),
		logging.Int("results", len(matches)),
	)
	return matches, nil
}

// rank returns row positions ordered by score descending. Equal scores keep
// ascending position order.
func rank(row []float64) []int {
	positions := make([]int, len(row))
	for i := range positions {
		positions[i] = i
	}
	sort.SliceStable(positions, func(a, b int) bool {
		return row[positions[a]] > row[positions[b]]
	})
	return positions
}
