// Package http exposes an engine over a small JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/trove"
	"github.com/aretw0/trove/internal/presentation/graph"
	"github.com/aretw0/trove/internal/registry"
	"github.com/aretw0/trove/pkg/domain"
	"github.com/aretw0/trove/pkg/loot"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// Engine is the part of trove.Engine the server needs.
type Engine interface {
	Generate(ctx context.Context, table string, params *loot.ParamsBuilder, opts ...trove.GenerateOption) (*trove.Result, error)
	Reload(ctx context.Context) (*registry.Report, error)
	Report() *registry.Report
	Snapshot() *registry.Snapshot
	Tables() []string
}

// Server serves one engine.
type Server struct {
	Engine Engine
	Logger *slog.Logger
}

// Option configures the handler.
type Option func(*handlerConfig)

type handlerConfig struct {
	metrics http.Handler
	logger  *slog.Logger
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(c *handlerConfig) { c.metrics = h }
}

// WithLogger sets the request error logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *handlerConfig) { c.logger = l }
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	cfg := handlerConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Server{Engine: engine, Logger: cfg.logger}

	r := chi.NewRouter()
	r.Use(validateRequests(cfg.logger))
	r.Get("/openapi.yaml", serveSpec)
	r.Get("/healthz", s.Health)
	r.Get("/tables", s.ListTables)
	r.Get("/problems", s.Problems)
	r.Get("/graph", s.Graph)
	r.Post("/generate", s.Generate)
	r.Post("/reload", s.Reload)
	if cfg.metrics != nil {
		r.Handle("/metrics", cfg.metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health reports the published snapshot.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	snap := s.Engine.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"snapshot_id":  snap.ID(),
		"published_at": snap.CreatedAt().UTC().Format(time.RFC3339),
		"assets":       snap.Len(),
	})
}

// ListTables handles GET /tables. The kind query parameter selects another
// asset kind.
func (s *Server) ListTables(w http.ResponseWriter, r *http.Request) {
	var kind string
	if err := runtime.BindQueryParameter("form", true, false, "kind", r.URL.Query(), &kind); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if kind == "" {
		writeJSON(w, http.StatusOK, s.Engine.Tables())
		return
	}
	k, err := domain.ParseKind(kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.Engine.Snapshot().Names(k))
}

// Problems handles GET /problems with the last reload report.
func (s *Server) Problems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Engine.Report())
}

// Graph handles GET /graph with a Mermaid flowchart.
func (s *Server) Graph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	var overlay *graph.Overlay
	if report := s.Engine.Report(); report != nil {
		overlay = graph.ProblemOverlay(report.Problems)
	}
	_, _ = w.Write([]byte(graph.GenerateMermaid(s.Engine.Snapshot(), overlay)))
}

// GenerateRequest is the body of POST /generate.
type GenerateRequest struct {
	Table  string                     `json:"table"`
	Seed   *uint64                    `json:"seed,omitempty"`
	Luck   float32                    `json:"luck,omitempty"`
	Params map[string]json.RawMessage `json:"params,omitempty"`
}

// Generate handles POST /generate.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	var body GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Generate: invalid request body", "error", err)
		return
	}
	if body.Table == "" {
		http.Error(w, "table is required", http.StatusBadRequest)
		return
	}

	params := loot.NewParamsBuilder().WithLuck(body.Luck)
	for name, raw := range body.Params {
		if err := params.WithEncodedParam(name, raw); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	var opts []trove.GenerateOption
	if body.Seed != nil {
		opts = append(opts, trove.WithSeed(*body.Seed))
	}

	res, err := s.Engine.Generate(r.Context(), body.Table, params, opts...)
	var missing *domain.MissingParamsError
	switch {
	case errors.Is(err, domain.ErrAssetNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.As(err, &missing):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		http.Error(w, "Generate error", http.StatusInternalServerError)
		s.Logger.Error("Generate failed", "table", body.Table, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Reload handles POST /reload.
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	report, err := s.Engine.Reload(r.Context())
	if err != nil {
		http.Error(w, "Reload error", http.StatusInternalServerError)
		s.Logger.Error("Reload failed", "error", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
