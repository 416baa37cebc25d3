package backend

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"hackorsnooze/internal/logger"
	"hackorsnooze/internal/metrics"
)

// Options configures the backend. Zero values pick sensible defaults.
type Options struct {
	Addr string
	// BcryptCost defaults to bcrypt.DefaultCost. Tests use bcrypt.MinCost.
	BcryptCost int
	// Registry, when set, receives request metrics and is served on /metrics.
	Registry *prometheus.Registry
	Now      func() time.Time
}

// Server wraps the HTTP server and its in-memory state.
type Server struct {
	http *http.Server
	log  logger.Logger
}

// NewHandler builds the router with all routes and middleware.
func NewHandler(opts Options, log logger.Logger) http.Handler {
	log = logger.OrNop(log)
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(accessLog(log))
	if opts.Registry != nil {
		r.Use(instrument(metrics.NewHTTPMetrics(opts.Registry)))
		r.Method(http.MethodGet, "/metrics", metrics.Handler(opts.Registry))
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	h := &handlers{store: newMemoryStore(cost, now)}
	h.routes(r)
	return r
}

// New builds the HTTP server.
func New(opts Options, log logger.Logger) *Server {
	log = logger.OrNop(log)
	addr := opts.Addr
	if addr == "" {
		addr = ":3000"
	}
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           NewHandler(opts, log),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
		log: log,
	}
}

// Start serves until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.log.Infof("story backend listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts down with the provided context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("story backend shutting down")
	return s.http.Shutdown(ctx)
}
