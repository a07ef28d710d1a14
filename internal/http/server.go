package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Clark-Hu/filmdb/internal/config"
	"github.com/Clark-Hu/filmdb/internal/repository"
	"github.com/Clark-Hu/filmdb/internal/store"
)

// Server wires HTTP routing, middleware, and handlers. It is the application
// context every handler reads its dependencies from.
type Server struct {
	cfg     config.Config
	store   *store.Store
	repo    *repository.Repository
	logger  *zap.Logger
	limiter *rate.Limiter
	router  chi.Router
	httpSrv *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, st *store.Store, repo *repository.Repository, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:    cfg,
		store:  st,
		repo:   repo,
		logger: logger.Named("http"),
		router: chi.NewRouter(),
	}
	if cfg.RateLimitRPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(instrument)
	s.router.Use(middleware.Recoverer)
	if s.limiter != nil {
		s.router.Use(s.rateLimit)
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router.Route("/movies", func(r chi.Router) {
		r.Get("/", s.handleListMovies)
		r.Post("/", s.handleCreateMovie)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetMovie)
			r.Put("/", s.handleUpdateMovie)
			r.Patch("/", s.handleUpdateMovie)
			r.Delete("/", s.handleDeleteMovie)
		})
	})
	s.router.Route("/directors", func(r chi.Router) {
		r.Get("/", s.handleListDirectors)
		r.Post("/", s.handleCreateDirector)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetDirector)
			r.Put("/", s.handleUpdateDirector)
			r.Patch("/", s.handleUpdateDirector)
			r.Delete("/", s.handleDeleteDirector)
		})
	})
	s.router.Route("/genres", func(r chi.Router) {
		r.Get("/", s.handleListGenres)
		r.Post("/", s.handleCreateGenre)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGenre)
			r.Put("/", s.handleUpdateGenre)
			r.Patch("/", s.handleUpdateGenre)
			r.Delete("/", s.handleDeleteGenre)
		})
	})
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then drains in-flight requests for up to
// five seconds. It returns ctx.Err() after a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.httpSrv.Addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		s.respondError(w, http.StatusServiceUnavailable, "UNAVAILABLE", http.StatusText(http.StatusServiceUnavailable))
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
