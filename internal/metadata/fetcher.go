package metadata

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"moviebuddy/internal/logging"
	"moviebuddy/internal/metadata/omdb"
	"moviebuddy/internal/metrics"
	"moviebuddy/internal/services"
)

// DefaultWorkers is the FetchAll pool size when none is configured.
const DefaultWorkers = 4

// Lookuper fetches the raw OMDb payload for a title.
type Lookuper interface {
	Lookup(ctx context.Context, title string) (*omdb.Response, error)
}

var _ Lookuper = (*omdb.Client)(nil)

// FailureHook receives every lookup failure after it has been logged.
type FailureHook func(title string, err error)

// Fetcher resolves metadata records for titles. It is safe for concurrent use.
type Fetcher struct {
	lookup       Lookuper
	placeholders Placeholders
	logger       *slog.Logger
	workers      int
	limiter      *rate.Limiter
	breaker      *gobreaker.CircuitBreaker[*omdb.Response]
	breakerCfg   *BreakerSettings
	onFailure    FailureHook
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithPlaceholders overrides the placeholder poster images.
func WithPlaceholders(p Placeholders) Option {
	return func(f *Fetcher) {
		f.placeholders = p.withDefaults()
	}
}

// WithLogger sets the logger used for failure reports.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithWorkers sets the FetchAll pool size. One worker fetches sequentially.
func WithWorkers(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.workers = n
		}
	}
}

// WithRateLimit caps outbound lookups at rps with the given burst. A
// non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(f *Fetcher) {
		if rps <= 0 {
			f.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithBreaker guards lookups with a circuit breaker. While half-open the
// breaker admits one trial request per FetchAll worker.
func WithBreaker(settings BreakerSettings) Option {
	return func(f *Fetcher) {
		f.breakerCfg = &settings
	}
}

// WithFailureHook registers fn to observe lookup failures.
func WithFailureHook(fn FailureHook) Option {
	return func(f *Fetcher) {
		f.onFailure = fn
	}
}

// New creates a Fetcher around lookup.
func New(lookup Lookuper, opts ...Option) *Fetcher {
	f := &Fetcher{
		lookup:       lookup,
		placeholders: DefaultPlaceholders(),
		logger:       logging.NewNop(),
		workers:      DefaultWorkers,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = logging.NewComponentLogger(f.logger, "metadata")
	if f.breakerCfg != nil {
		f.breaker = newBreaker(*f.breakerCfg, f)
	}
	return f
}

// Placeholders returns the placeholder images in use.
func (f *Fetcher) Placeholders() Placeholders {
	return f.placeholders
}

// BreakerState reports the circuit breaker state, or "disabled".
func (f *Fetcher) BreakerState() string {
	if f.breaker == nil {
		return "disabled"
	}
	return stateToString(f.breaker.State())
}

// FetchInfo returns the metadata record for title. It never fails; any error
// yields the fallback record.
func (f *Fetcher) FetchInfo(ctx context.Context, title string) Record {
	start := time.Now()
	resp, err := f.fetch(ctx, title)
	if err != nil {
		result := metrics.FetchFailure
		if isRejected(err) {
			result = metrics.FetchRejected
		}
		metrics.RecordMetadataFetch(result, time.Since(start))
		f.reportFailure(ctx, title, err)
		return f.placeholders.Fallback()
	}
	metrics.RecordMetadataFetch(metrics.FetchSuccess, time.Since(start))
	if !resp.Found() {
		logging.WithContext(ctx, f.logger).Debug("omdb has no match",
			logging.String(logging.FieldTitle, title),
			logging.String("omdb_error", resp.Error),
		)
	}
	return f.placeholders.FromResponse(resp)
}

// FetchAll fetches records for titles on the worker pool. The result has one
// record per title, in input order.
func (f *Fetcher) FetchAll(ctx context.Context, titles []string) []Record {
	records := make([]Record, len(titles))
	if len(titles) == 0 {
		return records
	}
	workers := min(f.workers, len(titles))

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				records[i] = f.FetchInfo(ctx, titles[i])
			}
		}()
	}
	for i := range titles {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return records
}

func (f *Fetcher) fetch(ctx context.Context, title string) (*omdb.Response, error) {
	if f.lookup == nil {
		return nil, services.Wrap(services.ErrConfiguration, "metadata", "fetch", "no lookup client configured", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, services.Wrap(services.ErrTransport, "metadata", "fetch", "context done", err)
	}
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, services.Wrap(services.ErrTransport, "metadata", "rate limit", "", err)
		}
	}
	if f.breaker == nil {
		return f.lookup.Lookup(ctx, title)
	}
	resp, err := f.breaker.Execute(func() (*omdb.Response, error) {
		return f.lookup.Lookup(ctx, title)
	})
	if isRejected(err) {
		return nil, services.Wrap(services.ErrTransport, "metadata", "fetch", "circuit breaker rejected request", err)
	}
	return resp, err
}

func (f *Fetcher) reportFailure(ctx context.Context, title string, err error) {
	logging.WarnWithContext(logging.WithContext(ctx, f.logger), "metadata lookup failed; using placeholder",
		"metadata_fetch_failed",
		logging.String(logging.FieldTitle, title),
		logging.String("error_kind", services.Kind(err)),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check omdb.api_key and network access to omdb.base_url"),
		logging.String(logging.FieldImpact, "recommendation shown without poster or details"),
	)
	if f.onFailure != nil {
		f.onFailure(title, err)
	}
}

func isRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
