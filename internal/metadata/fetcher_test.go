package metadata_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"moviebuddy/internal/metadata"
	"moviebuddy/internal/metadata/omdb"
	"moviebuddy/internal/services"
)

type stubLookup struct {
	mu    sync.Mutex
	calls int
	fn    func(title string) (*omdb.Response, error)
}

func (s *stubLookup) Lookup(_ context.Context, title string) (*omdb.Response, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.fn(title)
}

func (s *stubLookup) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func fallback() metadata.Record {
	return metadata.Record{
		PosterURL: metadata.DefaultErrorPosterURL,
		DetailURL: "#",
		Year:      "N/A",
		Rating:    "N/A",
		Genre:     "N/A",
	}
}

func newOMDbFetcher(t *testing.T, handler http.HandlerFunc, opts ...metadata.Option) *metadata.Fetcher {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := omdb.New("key", server.URL, omdb.WithTimeout(100*time.Millisecond))
	if err != nil {
		t.Fatalf("omdb.New: %v", err)
	}
	return metadata.New(client, opts...)
}

func TestFetchInfoSuccess(t *testing.T) {
	f := newOMDbFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Poster":"https://img/heat.jpg","imdbID":"tt0113277","Year":"1995","imdbRating":"8.3","Genre":"Action, Crime, Drama","Response":"True"}`))
	})
	got := f.FetchInfo(context.Background(), "Heat")
	want := metadata.Record{
		PosterURL: "https://img/heat.jpg",
		DetailURL: "https://www.imdb.com/title/tt0113277",
		Year:      "1995",
		Rating:    "8.3",
		Genre:     "Action, Crime, Drama",
	}
	if got != want {
		t.Fatalf("FetchInfo() = %+v, want %+v", got, want)
	}
}

func TestFetchInfoFallbackOnServiceFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status 500": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"malformed body": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"Poster":`))
		},
		"timeout": func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			var hooked atomic.Int32
			f := newOMDbFetcher(t, handler, metadata.WithFailureHook(func(title string, err error) {
				if title != "Heat" || err == nil {
					t.Errorf("unexpected hook call %q %v", title, err)
				}
				hooked.Add(1)
			}))
			if got := f.FetchInfo(context.Background(), "Heat"); got != fallback() {
				t.Fatalf("FetchInfo() = %+v, want fallback", got)
			}
			if hooked.Load() != 1 {
				t.Fatalf("expected failure hook once, got %d", hooked.Load())
			}
		})
	}
}

func TestFetchInfoMissingFields(t *testing.T) {
	f := newOMDbFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Poster":"N/A","Year":"2004"}`))
	})
	got := f.FetchInfo(context.Background(), "Obscure")
	if got.DetailURL != "#" {
		t.Fatalf("expected # detail url, got %q", got.DetailURL)
	}
	if got.PosterURL != metadata.DefaultNoPosterURL {
		t.Fatalf("expected no-poster placeholder, got %q", got.PosterURL)
	}
	if got.Year != "2004" || got.Rating != "N/A" || got.Genre != "N/A" {
		t.Fatalf("unexpected values %+v", got)
	}
}

func TestFetchInfoNotFoundPayloadUsesDefaults(t *testing.T) {
	f := newOMDbFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	})
	got := f.FetchInfo(context.Background(), "Nope")
	want := metadata.Record{
		PosterURL: metadata.DefaultNoPosterURL,
		DetailURL: "#",
		Year:      "N/A",
		Rating:    "N/A",
		Genre:     "N/A",
	}
	if got != want {
		t.Fatalf("FetchInfo() = %+v, want %+v", got, want)
	}
}

func TestFetchInfoCustomPlaceholders(t *testing.T) {
	stub := &stubLookup{fn: func(string) (*omdb.Response, error) {
		return nil, services.Wrap(services.ErrTransport, "test", "lookup", "", errors.New("dial"))
	}}
	f := metadata.New(stub, metadata.WithPlaceholders(metadata.Placeholders{ErrorPoster: "https://err.png"}))
	got := f.FetchInfo(context.Background(), "Heat")
	if got.PosterURL != "https://err.png" {
		t.Fatalf("expected custom error poster, got %q", got.PosterURL)
	}
	if f.Placeholders().NoPoster != metadata.DefaultNoPosterURL {
		t.Fatalf("unexpected no-poster placeholder %q", f.Placeholders().NoPoster)
	}
}

func TestFetchInfoCancelledContext(t *testing.T) {
	stub := &stubLookup{fn: func(string) (*omdb.Response, error) {
		return &omdb.Response{Year: "1999"}, nil
	}}
	f := metadata.New(stub)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := f.FetchInfo(ctx, "Heat"); got != fallback() {
		t.Fatalf("expected fallback for cancelled context, got %+v", got)
	}
	if stub.Calls() != 0 {
		t.Fatalf("lookup should not run for a cancelled context")
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	stub := &stubLookup{fn: func(string) (*omdb.Response, error) {
		return nil, services.Wrap(services.ErrTransport, "test", "lookup", "", errors.New("connection refused"))
	}}
	f := metadata.New(stub, metadata.WithBreaker(metadata.BreakerSettings{
		Name:     "omdb-test",
		Failures: 3,
		Cooldown: time.Minute,
	}))
	for i := 0; i < 5; i++ {
		if got := f.FetchInfo(context.Background(), "Heat"); got != fallback() {
			t.Fatalf("call %d: expected fallback, got %+v", i, got)
		}
	}
	if stub.Calls() != 3 {
		t.Fatalf("expected breaker to stop calls after 3 failures, got %d calls", stub.Calls())
	}
	if f.BreakerState() != "open" {
		t.Fatalf("expected open breaker, got %s", f.BreakerState())
	}
}

func TestBreakerDisabledByDefault(t *testing.T) {
	f := metadata.New(&stubLookup{fn: func(string) (*omdb.Response, error) { return &omdb.Response{}, nil }})
	if f.BreakerState() != "disabled" {
		t.Fatalf("unexpected breaker state %s", f.BreakerState())
	}
}

func TestFetchAllPreservesOrder(t *testing.T) {
	titles := make([]string, 25)
	for i := range titles {
		titles[i] = fmt.Sprintf("Movie %02d", i)
	}
	stub := &stubLookup{fn: func(title string) (*omdb.Response, error) {
		if title == "Movie 07" {
			return nil, services.Wrap(services.ErrTransport, "test", "lookup", "", errors.New("boom"))
		}
		time.Sleep(time.Millisecond)
		return &omdb.Response{Year: title, IMDbID: "tt" + title[6:]}, nil
	}}
	for _, workers := range []int{1, 3, 64} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			f := metadata.New(stub, metadata.WithWorkers(workers))
			records := f.FetchAll(context.Background(), titles)
			if len(records) != len(titles) {
				t.Fatalf("expected %d records, got %d", len(titles), len(records))
			}
			for i, record := range records {
				if i == 7 {
					if record != fallback() {
						t.Fatalf("expected fallback at 7, got %+v", record)
					}
					continue
				}
				if record.Year != titles[i] {
					t.Fatalf("record %d out of order: %+v", i, record)
				}
			}
		})
	}
}

func TestFetchAllEmpty(t *testing.T) {
	f := metadata.New(&stubLookup{fn: func(string) (*omdb.Response, error) { return nil, nil }})
	if got := f.FetchAll(context.Background(), nil); len(got) != 0 {
		t.Fatalf("expected no records, got %v", got)
	}
}

func TestRateLimitHonoursContext(t *testing.T) {
	stub := &stubLookup{fn: func(string) (*omdb.Response, error) { return &omdb.Response{}, nil }}
	f := metadata.New(stub, metadata.WithRateLimit(0.001, 1))
	_ = f.FetchInfo(context.Background(), "first")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if got := f.FetchInfo(ctx, "second"); got != fallback() {
		t.Fatalf("expected fallback when limiter wait exceeds deadline, got %+v", got)
	}
	if stub.Calls() != 1 {
		t.Fatalf("expected one lookup, got %d", stub.Calls())
	}
}

func TestHalfOpenBreakerAdmitsOneTrialPerWorker(t *testing.T) {
	var failing atomic.Bool
	failing.Store(true)
	var inFlight atomic.Int32
	stub := &stubLookup{fn: func(title string) (*omdb.Response, error) {
		if failing.Load() {
			return nil, services.Wrap(services.ErrTransport, "test", "lookup", "", errors.New("connection refused"))
		}
		inFlight.Add(1)
		deadline := time.Now().Add(500 * time.Millisecond)
		for inFlight.Load() < 4 && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
		return &omdb.Response{Year: "1995", IMDbID: "tt" + title}, nil
	}}
	f := metadata.New(stub,
		metadata.WithWorkers(4),
		metadata.WithBreaker(metadata.BreakerSettings{Failures: 1, Cooldown: 20 * time.Millisecond}),
	)
	_ = f.FetchInfo(context.Background(), "warmup")
	if f.BreakerState() != "open" {
		t.Fatalf("expected open breaker, got %s", f.BreakerState())
	}

	failing.Store(false)
	time.Sleep(50 * time.Millisecond)

	records := f.FetchAll(context.Background(), []string{"1", "2", "3", "4"})
	for i, record := range records {
		if record.Year != "1995" {
			t.Fatalf("record %d rejected while half-open: %+v", i, record)
		}
	}
}

func TestEmptyFieldsBecomeNotAvailable(t *testing.T) {
	stub := &stubLookup{fn: func(string) (*omdb.Response, error) {
		return &omdb.Response{Year: "", Genre: "", IMDbRating: "", Poster: "", IMDbID: ""}, nil
	}}
	got := metadata.New(stub).FetchInfo(context.Background(), "Heat")
	want := metadata.Record{
		PosterURL: metadata.DefaultNoPosterURL,
		DetailURL: "#",
		Year:      "N/A",
		Rating:    "N/A",
		Genre:     "N/A",
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}
