// Package api provides the HTTP REST API server for zakatd.
//
// It exposes the current metal rates, the derived Nisab thresholds, the
// Zakat calculation endpoint, optional calculation history, and a
// WebSocket stream of rate refreshes.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/zakathq/zakatd/internal/config"
	"github.com/zakathq/zakatd/internal/rates"
	"github.com/zakathq/zakatd/internal/store"
	"github.com/zakathq/zakatd/internal/zakat"
	"github.com/zakathq/zakatd/pkg/models"
)

// Server is the HTTP API server.
type Server struct {
	router  chi.Router
	cfg     *config.Config
	cache   *rates.Cache
	history *store.Store // nil when the history store is disabled
	wsHub   *WSHub
	logger  *zap.Logger
}

// NewServer creates a configured API server with all routes and middleware.
// history may be nil; the calculation path does not depend on it.
func NewServer(cfg *config.Config, cache *rates.Cache, history *store.Store, logger *zap.Logger) *Server {
	srv := &Server{
		cfg:     cfg,
		cache:   cache,
		history: history,
		wsHub:   NewWSHub(),
		logger:  logger,
	}

	// Push every refreshed quote to WebSocket subscribers.
	cache.OnUpdate(func(q models.RateQuote) {
		srv.wsHub.Broadcast(WSMessage{Type: "rates", Data: q})
	})

	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start WebSocket hub
	go s.wsHub.Run()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-done:
	}
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/rates/current", s.handleCurrentRates)
		r.Get("/nisab/thresholds", s.handleNisabThresholds)

		r.Post("/zakat/calculate", s.handleCalculate)
		r.Get("/zakat/history", s.handleHistory)

		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CalculateRequest is the body for POST /api/v1/zakat/calculate.
// Omitted or unrecognized nisab_basis defaults to silver.
type CalculateRequest struct {
	Assets      models.AssetDeclaration     `json:"assets"`
	Liabilities models.LiabilityDeclaration `json:"liabilities"`
	NisabBasis  string                      `json:"nisab_basis,omitempty"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":  "ok",
			"version": "dev",
		},
	})
}

// handleCurrentRates never fails from the caller's perspective: the
// cache degrades to stale or fallback data on upstream trouble.
func (s *Server) handleCurrentRates(w http.ResponseWriter, r *http.Request) {
	q := s.cache.Current(r.Context())
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: q})
}

func (s *Server) handleNisabThresholds(w http.ResponseWriter, r *http.Request) {
	q := s.cache.Current(r.Context())
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: zakat.Thresholds(q)})
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q := s.cache.Current(r.Context())
	result := zakat.Calculate(req.Assets, req.Liabilities, req.NisabBasis, q)

	if s.history != nil {
		if err := s.history.SaveResult(r.Context(), result); err != nil {
			// History is advisory; the calculation still succeeds.
			s.logger.Warn("failed to save calculation history", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: result})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "calculation history is disabled")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to read calculation history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "unable to read history")
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: records})
}

// ============================================================
// Helpers
// ============================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("failed to write JSON response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
