package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"moviebuddy/internal/logging"
	"moviebuddy/internal/recommend"
	"moviebuddy/internal/services"
)

// TitlesResponse lists catalog titles.
type TitlesResponse struct {
	Titles []string `json:"titles"`
}

// RecommendationsResponse carries the ranked cards for a title.
type RecommendationsResponse struct {
	Title string           `json:"title"`
	Cards []recommend.Card `json:"cards"`
}

// ErrorResponse is returned for every non-2xx API response.
type ErrorResponse struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// StatusResponse summarizes the running service.
type StatusResponse struct {
	CatalogSize int    `json:"catalog_size"`
	Source      string `json:"source"`
	Count       int    `json:"count"`
	Breaker     string `json:"breaker"`
	Metadata    bool   `json:"metadata"`
	Uptime      string `json:"uptime,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleTitles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cat := s.recommender.Catalog()
	titles := cat.Search(query, limit)
	if len(titles) == 0 && strings.TrimSpace(query) != "" {
		suggestLimit := limit
		if suggestLimit <= 0 {
			suggestLimit = s.suggestions
		}
		titles = cat.Suggest(query, suggestLimit)
	}
	if titles == nil {
		titles = []string{}
	}
	s.writeJSON(w, http.StatusOK, TitlesResponse{Titles: titles})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if strings.TrimSpace(title) == "" {
		s.writeError(w, http.StatusBadRequest, "title query parameter is required")
		return
	}
	count, err := intParam(r, "count", s.recommender.Count())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// Every card may cost one OMDb lookup.
	if count > s.recommender.Count() {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("count must not exceed %d", s.recommender.Count()))
		return
	}
	withMetadata := r.URL.Query().Get("metadata") != "false"

	ctx := services.WithTitle(r.Context(), title)
	matches, err := s.recommender.NeighborsContext(ctx, title, count)
	if errors.Is(err, services.ErrNotFound) {
		s.writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:       "title not found in catalog",
			Suggestions: s.recommender.Suggest(title, s.suggestions),
		})
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var fetcher recommend.RecordFetcher
	if withMetadata && s.fetcher != nil {
		fetcher = s.fetcher
	}
	s.writeJSON(w, http.StatusOK, RecommendationsResponse{
		Title: title,
		Cards: recommend.BuildCards(ctx, matches, fetcher),
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if strings.TrimSpace(title) == "" {
		s.writeError(w, http.StatusBadRequest, "title query parameter is required")
		return
	}
	if s.fetcher == nil {
		s.writeError(w, http.StatusServiceUnavailable, "metadata lookups are not configured")
		return
	}
	record := s.fetcher.FetchInfo(services.WithTitle(r.Context(), title), title)
	s.writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	status := StatusResponse{
		CatalogSize: s.recommender.Catalog().Len(),
		Source:      s.source,
		Count:       s.recommender.Count(),
		Breaker:     "disabled",
	}
	if s.fetcher != nil {
		status.Metadata = true
		status.Breaker = s.fetcher.BreakerState()
	}
	if !s.started.IsZero() {
		status.Uptime = time.Since(s.started).Truncate(time.Second).String()
	}
	s.writeJSON(w, http.StatusOK, status)
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, errors.New(name + " must be a non-negative integer")
	}
	if value == 0 {
		return fallback, nil
	}
	return value, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: message})
}
