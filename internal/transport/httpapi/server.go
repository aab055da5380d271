// Package httpapi exposes the coordinator's commit and get_commits
// operations over HTTP, as a thin transport wrapper around
// internal/coordinator. The core itself is transport-agnostic; this is
// one optional front-end, grounded on the teacher's internal/api HTTP
// server layout: gorilla/mux routing, a request-ID logging middleware
// from pkg/logger, and a per-table token-bucket rate limiter.
package httpapi

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/kalyankadiyala/commitcoord/internal/coordinator"
	"github.com/kalyankadiyala/commitcoord/pkg/logger"
)

// Server wires the Coordinator core behind an HTTP API.
type Server struct {
	coord  *coordinator.Coordinator
	logger *slog.Logger
	router *mux.Router

	limiterMu  sync.Mutex
	limiters   map[coordinator.TableID]*rate.Limiter
	ratePerSec float64
	rateBurst  int
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithLogger sets the server's structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRateLimit bounds each table to ratePerSec requests/sec, with a
// burst allowance. A ratePerSec of 0 disables limiting.
func WithRateLimit(ratePerSec float64, burst int) Option {
	return func(s *Server) {
		s.ratePerSec = ratePerSec
		s.rateBurst = burst
	}
}

// NewServer builds an HTTP front-end over coord.
func NewServer(coord *coordinator.Coordinator, opts ...Option) *Server {
	s := &Server{
		coord:    coord,
		logger:   slog.Default(),
		limiters: make(map[coordinator.TableID]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(s)
	}

	router := mux.NewRouter()
	router.Use(logger.LoggingMiddleware(s.logger))

	router.HandleFunc("/tables/{id}/commits", s.handleCommit).Methods(http.MethodPost)
	router.HandleFunc("/tables/{id}/commits", s.handleGetCommits).Methods(http.MethodGet)
	router.HandleFunc("/tables", s.handleListTables).Methods(http.MethodGet)
	router.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/admin/fault", s.handleSetFault).Methods(http.MethodPost)

	s.router = router
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// allow applies the per-table rate limit, lazily creating a limiter for
// tables seen for the first time. Returns true when the request may
// proceed.
func (s *Server) allow(id coordinator.TableID) bool {
	if s.ratePerSec <= 0 {
		return true
	}

	s.limiterMu.Lock()
	lim, ok := s.limiters[id]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(s.ratePerSec), s.rateBurst)
		s.limiters[id] = lim
	}
	s.limiterMu.Unlock()

	return lim.Allow()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	ids := s.coord.ListTables()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": out})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.coord.Stats()
	writeJSON(w, http.StatusOK, stats)
}
