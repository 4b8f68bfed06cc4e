package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"moviebuddy/internal/logging"
	"moviebuddy/internal/metadata"
	"moviebuddy/internal/recommend"
)

// DefaultRequestsPerMinute caps /api requests per client IP.
const DefaultRequestsPerMinute = 120

// Fetcher is the metadata surface the server needs.
type Fetcher interface {
	FetchInfo(ctx context.Context, title string) metadata.Record
	FetchAll(ctx context.Context, titles []string) []metadata.Record
	BreakerState() string
}

// Options configure the HTTP server.
type Options struct {
	Bind              string
	Token             string
	Source            string
	Suggestions       int
	RequestsPerMinute int
	Logger            *slog.Logger
}

// Server serves the HTTP API.
type Server struct {
	bind        string
	token       string
	source      string
	suggestions int
	rpm         int
	logger      *slog.Logger

	recommender *recommend.Recommender
	fetcher     Fetcher

	handler  http.Handler
	listener net.Listener
	server   *http.Server
	started  time.Time

	stopped  chan struct{}
	stopOnce sync.Once
}

// New builds a Server. fetcher may be nil, in which case cards carry no
// metadata and /api/info is unavailable.
func New(rec *recommend.Recommender, fetcher Fetcher, opts Options) (*Server, error) {
	if rec == nil {
		return nil, errors.New("server: recommender required")
	}
	s := &Server{
		bind:        strings.TrimSpace(opts.Bind),
		token:       opts.Token,
		source:      opts.Source,
		suggestions: opts.Suggestions,
		rpm:         opts.RequestsPerMinute,
		logger:      logging.NewComponentLogger(opts.Logger, "api-server"),
		recommender: rec,
		fetcher:     fetcher,
	}
	if s.suggestions <= 0 {
		s.suggestions = 5
	}
	if s.rpm <= 0 {
		s.rpm = DefaultRequestsPerMinute
	}
	s.handler = s.routes()
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.stopped = make(chan struct{})
	return s, nil
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the listening address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start listens on the configured address and serves in the background until
// ctx is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	if s.bind == "" {
		return errors.New("server: bind address required")
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.started = time.Now()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.stopped:
		}
	}()

	s.logger.Info("api server listening",
		logging.String("address", listener.Addr().String()),
		logging.Bool("auth", s.token != ""),
	)
	return nil
}

// Run starts the server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

// Stop shuts the server down gracefully. Later calls wait for the first
// shutdown and return.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopped)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	})
}
