// Package prom implements a Prometheus backend for the metrics package and
// exposes the registry over HTTP for scraping.
package prom

import (
	"net/http"
	"sort"
	"strings"
	"sync"

	"dashboard-pipeline/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Backend collects metrics into its own registry. Collectors are created
// lazily per metric name; the label names of the first observation fix the
// collector's label set.
type Backend struct {
	reg *prometheus.Registry

	mu       sync.Mutex
	counters map[string]*prometheus.CounterVec
	hists    map[string]*prometheus.HistogramVec
}

// NewBackend returns a backend with Go runtime and process collectors registered.
func NewBackend() *Backend {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return &Backend{
		reg:      reg,
		counters: map[string]*prometheus.CounterVec{},
		hists:    map[string]*prometheus.HistogramVec{},
	}
}

// Registry exposes the underlying registry (tests gather from it).
func (b *Backend) Registry() *prometheus.Registry { return b.reg }

// Handler serves the registry in the Prometheus exposition format.
func (b *Backend) Handler() http.Handler {
	return promhttp.HandlerFor(b.reg, promhttp.HandlerOpts{})
}

// IncCounter implements metrics.Backend.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	if delta < 0 {
		return
	}
	names, values := split(labels)

	b.mu.Lock()
	cv, ok := b.counters[name]
	if !ok {
		cv = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help(name)}, names)
		b.reg.MustRegister(cv)
		b.counters[name] = cv
	}
	b.mu.Unlock()

	if c, err := cv.GetMetricWithLabelValues(values...); err == nil {
		c.Add(delta)
	}
}

// ObserveHistogram implements metrics.Backend.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	names, values := split(labels)

	b.mu.Lock()
	hv, ok := b.hists[name]
	if !ok {
		hv = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Help:    help(name),
			Buckets: prometheus.DefBuckets,
		}, names)
		b.reg.MustRegister(hv)
		b.hists[name] = hv
	}
	b.mu.Unlock()

	if h, err := hv.GetMetricWithLabelValues(values...); err == nil {
		h.Observe(value)
	}
}

// Flush is a no-op; Prometheus pulls.
func (b *Backend) Flush() error { return nil }

func split(labels metrics.Labels) ([]string, []string) {
	names := make([]string, 0, len(labels))
	for k := range labels {
		names = append(names, k)
	}
	sort.Strings(names)
	values := make([]string, len(names))
	for i, n := range names {
		values[i] = labels[n]
	}
	return names, values
}

func help(name string) string {
	return "Dashboard pipeline metric " + strings.ReplaceAll(name, "_", " ") + "."
}
