// Package app wires configuration into a ready-to-serve API handler. Both
// entrypoints share it so the mux and gin servers behave the same.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"dashboard-pipeline/internal/api/handler"
	"dashboard-pipeline/internal/auth"
	"dashboard-pipeline/internal/config"
	"dashboard-pipeline/internal/httpds"
	"dashboard-pipeline/internal/metrics"
	"dashboard-pipeline/internal/metrics/datadog"
	"dashboard-pipeline/internal/metrics/prom"
	"dashboard-pipeline/internal/pipeline"
	"dashboard-pipeline/internal/store"
	"dashboard-pipeline/pkg/utils"
)

// App is everything a server needs.
type App struct {
	Handler *handler.Handler
	// Metrics serves /metrics; nil unless the Prometheus backend is active.
	Metrics http.Handler

	closers []func() error
}

// New opens the store, installs the metrics backend and builds the handler.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	a := &App{}

	st, err := store.Open(ctx, cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, st.Close)
	log.Printf("🗄️ Store ready (driver=%s)", cfg.DB.Driver)

	if err := a.installMetrics(cfg.Metrics); err != nil {
		a.Close()
		return nil, err
	}

	uploads := utils.NewUploadManager(cfg.UploadDir, 0)
	if err := uploads.EnsureBaseDirExists(); err != nil {
		a.Close()
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	verifier, err := auth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		a.Close()
		return nil, err
	}

	var cache pipeline.Cache
	if ttl := cfg.TTL(); ttl > 0 {
		cache = pipeline.NewMemoryCache(ttl)
	}
	svc := pipeline.NewService(pipeline.Options{
		HTTP:    httpds.NewClient(httpds.Config{Timeout: cfg.Timeout()}),
		Secrets: cfg.SecretSet(),
		Uploads: uploads,
		Cache:   cache,
	})

	a.Handler = handler.New(svc, st, uploads, verifier)
	return a, nil
}

func (a *App) installMetrics(m config.Metrics) error {
	switch m.Backend {
	case config.MetricsPrometheus:
		b := prom.NewBackend()
		metrics.SetBackend(b)
		a.Metrics = b.Handler()
		log.Printf("📈 metrics: prometheus, scrape /metrics")
	case config.MetricsDatadog:
		b, err := datadog.NewBackend(datadog.Config{Addr: m.StatsdAddr, Namespace: m.Namespace, GlobalTags: m.Tags})
		if err != nil {
			return err
		}
		metrics.SetBackend(b)
		a.closers = append(a.closers, func() error {
			if err := metrics.Flush(); err != nil {
				log.Printf("metrics: flush error: %v", err)
			}
			return b.Close()
		})
		log.Printf("📈 metrics: datadog, statsd=%s", m.StatsdAddr)
	default:
		log.Printf("metrics: disabled (backend=%q)", m.Backend)
	}
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
