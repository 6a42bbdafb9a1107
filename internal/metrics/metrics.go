// Package metrics is a small, backend-agnostic facade for operational metrics.
//
// A global backend defaults to a no-op, so instrumentation is always safe to
// call. Concrete systems (Prometheus, Datadog) live in subpackages and are
// installed once at startup with SetBackend.
package metrics

import (
	"sync"
	"time"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

// RecordStep records one pipeline operation (fetch, validate, preview,
// transform) with its source kind, outcome and latency.
func RecordStep(op, kind string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{
		"op":     op,
		"kind":   kind,
		"status": status,
	}
	b := current()
	b.IncCounter("pipeline_op_total", 1, lbls)
	b.ObserveHistogram("pipeline_op_duration_seconds", d.Seconds(), lbls)
}

// RecordRows counts rows produced by an operation.
func RecordRows(op string, n int) {
	if n <= 0 {
		return
	}
	current().IncCounter("pipeline_rows_total", float64(n), Labels{"op": op})
}

// RecordCache counts cache lookups by result ("hit" or "miss").
func RecordCache(result string) {
	current().IncCounter("pipeline_cache_total", 1, Labels{"result": result})
}
