// Package server exposes the question-answering pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/askitmo/askitmo/internal/answer"
	"github.com/askitmo/askitmo/internal/config"
	"github.com/askitmo/askitmo/internal/logger"
	"github.com/askitmo/askitmo/internal/news"
	"github.com/askitmo/askitmo/internal/search"
)

const (
	maxResponseSources = 3

	detailNoQuery  = "Не удалось сгенерировать поисковый запрос."
	detailInternal = "Internal server error"
)

// Synthesizer turns a user question plus gathered context into a final answer.
type Synthesizer interface {
	GenerateQuery(ctx context.Context, question string) (string, error)
	Synthesize(ctx context.Context, question string, results []search.Result, newsItems []news.Item) answer.Synthesis
}

// NewsSource supplies the most recent feed items.
type NewsSource interface {
	Latest(ctx context.Context, maxItems int) []news.Item
}

// PredictionRequest is the request body for /api/request. Pointer fields
// distinguish absent values from zero values during validation.
type PredictionRequest struct {
	ID    *int    `json:"id"`
	Query *string `json:"query"`
}

// PredictionResponse is the response body for /api/request. Answer is null
// when the model produced no integer; Sources is always a list, never null.
type PredictionResponse struct {
	ID        int      `json:"id"`
	Answer    *int     `json:"answer"`
	Reasoning string   `json:"reasoning"`
	Sources   []string `json:"sources"`
}

// Server provides the HTTP interface for the question-answering service.
type Server struct {
	cfg    *config.Config
	synth  Synthesizer
	search search.Provider
	news   NewsSource
	router *httprouter.Router
	server *http.Server
}

// New creates a server wired to the given pipeline components.
func New(cfg *config.Config, synth Synthesizer, searchProvider search.Provider, newsSource NewsSource) *Server {
	s := &Server{
		cfg:    cfg,
		synth:  synth,
		search: searchProvider,
		news:   newsSource,
		router: httprouter.New(),
	}

	s.setupRoutes()
	return s
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.router,
	}

	logger.Info("Starting server on %s", s.cfg.ListenAddr)
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.POST("/api/request", s.handlePredict)
	s.router.GET("/health", s.handleHealth)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if req.ID == nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Field 'id' is required")
		return
	}
	if req.Query == nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Field 'query' is required")
		return
	}

	ctx := r.Context()
	logger.Info("Received request %d: %s", *req.ID, *req.Query)

	query, err := s.synth.GenerateQuery(ctx, *req.Query)
	if err != nil {
		if errors.Is(err, answer.ErrNoQuery) {
			writeDetail(w, http.StatusBadRequest, detailNoQuery)
			return
		}
		logger.Error("Query generation failed: %v", err)
		writeDetail(w, http.StatusInternalServerError, detailInternal)
		return
	}
	logger.Info("Generated search query: %s", query)

	results, err := s.search.Search(ctx, query, s.cfg.MaxSearchResults)
	if err != nil {
		logger.Error("Search failed: %v", err)
		writeDetail(w, http.StatusInternalServerError, detailInternal)
		return
	}
	logger.Info("Search returned %d results", len(results))

	newsItems := s.news.Latest(ctx, s.cfg.MaxNewsItems)
	logger.Info("News feed returned %d items", len(newsItems))

	syn := s.synth.Synthesize(ctx, *req.Query, results, newsItems)
	logger.Info("Completed request %d", *req.ID)

	writeJSON(w, http.StatusOK, PredictionResponse{
		ID:        *req.ID,
		Answer:    syn.Answer,
		Reasoning: syn.Reasoning,
		Sources:   dedupeSources(syn.Sources),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// dedupeSources keeps the first occurrence of each source and caps the list
// at maxResponseSources. The result is never nil.
func dedupeSources(sources []string) []string {
	deduped := make([]string, 0, maxResponseSources)
	seen := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		if _, ok := seen[src]; ok {
			continue
		}
		seen[src] = struct{}{}
		deduped = append(deduped, src)
		if len(deduped) == maxResponseSources {
			break
		}
	}
	return deduped
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response: %v", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
