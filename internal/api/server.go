package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"crypto-tracker-go/internal/config"
	"crypto-tracker-go/internal/models"
	"crypto-tracker-go/internal/portfolio"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// PortfolioService is what the handlers need from the portfolio package.
type PortfolioService interface {
	CreateTrade(ctx context.Context, owner string, req portfolio.TradeRequest) (*models.Trade, error)
	Analyze(ctx context.Context, owner string) (*portfolio.Analysis, error)
	ListTrades(ctx context.Context, owner string) ([]models.Trade, error)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP API of the tracker.
type Server struct {
	router      *chi.Mux
	server      *http.Server
	service     PortfolioService
	db          Pinger
	provider    Pinger
	ownerHeader string
	logger      *zap.Logger
}

// NewServer wires the router, middleware and handlers.
func NewServer(cfg *config.Server, service PortfolioService, db, provider Pinger, logger *zap.Logger) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		service:     service,
		db:          db,
		provider:    provider,
		ownerHeader: cfg.OwnerHeader,
		logger:      logger.Named("api-server"),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Post("/trades", s.handleCreateTrade)
	s.router.Get("/trades", s.handleListTrades)
	s.router.Get("/portfolio/analysis", s.handleAnalysis)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// owner reads the caller identifier, writing a 400 when it is absent.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner := r.Header.Get(s.ownerHeader)
	if owner == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("%s header missing", s.ownerHeader))
		return "", false
	}
	return owner, true
}

// writeJSON encodes v before writing the header so an encoding failure can
// still be answered with a 500.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("Failed to encode response", zap.Int("status", status), zap.Error(err))
		status = http.StatusInternalServerError
		body = []byte(`{"detail":"failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		s.logger.Warn("Failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, map[string]string{"detail": detail})
}
