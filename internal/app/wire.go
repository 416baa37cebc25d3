package app

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"hackorsnooze/internal/api"
	"hackorsnooze/internal/config"
	"hackorsnooze/internal/domain"
	"hackorsnooze/internal/logger"
	"hackorsnooze/internal/metrics"
	"hackorsnooze/internal/services/catalog"
	"hackorsnooze/internal/services/session"
	"hackorsnooze/internal/store"
)

// Wire bundles the stores, clients and services built from a Config.
type Wire struct {
	Config      *config.Config
	Log         logger.Logger
	API         *api.Client
	Credentials domain.CredentialStore
	Catalogs    *catalog.Service
	Sessions    *session.Service
	State       *State
	Metrics     *prometheus.Registry

	closers []io.Closer
}

// Options adjusts wiring beyond what Config carries.
type Options struct {
	HTTP *http.Client // optional; defaults to http.DefaultClient
}

// NewWire constructs the dependency graph from cfg.
func NewWire(ctx context.Context, cfg *config.Config, log logger.Logger, opts Options) (*Wire, error) {
	log = logger.OrNop(log)
	w := &Wire{Config: cfg, Log: log, Metrics: metrics.NewRegistry()}

	w.API = api.New(cfg.API.BaseURL,
		api.WithHTTPClient(opts.HTTP),
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(log.With(logger.String("component", "api"))),
		api.WithMetrics(metrics.NewAPIMetrics(w.Metrics)),
	)

	creds, err := w.credentialStore(ctx)
	if err != nil {
		return nil, err
	}
	w.Credentials = creds

	w.Catalogs = catalog.New(w.API, log.With(logger.String("component", "catalog")))
	w.Sessions = session.New(w.API, w.API, log.With(logger.String("component", "session")))
	w.State = NewState(w.Catalogs, w.Sessions, w.Credentials, log)
	return w, nil
}

func (w *Wire) credentialStore(ctx context.Context) (domain.CredentialStore, error) {
	c := w.Config.Credentials
	base := w.API.Base
	switch c.Backend {
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	case config.BackendRedis:
		rdb, err := store.Connect(ctx, c.RedisURL)
		if err != nil {
			return nil, err
		}
		w.closers = append(w.closers, rdb)
		return store.NewRedisStore(rdb, c.RedisKey, base, c.TTL), nil
	case config.BackendFile, "":
		if c.Passphrase != "" {
			return store.NewSealedFileStore(c.Dir, base, c.Passphrase, store.DefaultKDF), nil
		}
		return store.NewFileStore(c.Dir, base), nil
	default:
		return nil, fmt.Errorf("unknown credentials backend %q", c.Backend)
	}
}

// Close releases connections held by the wired stores.
func (w *Wire) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	w.closers = nil
	return first
}
