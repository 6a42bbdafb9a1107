package datadog

import (
	"reflect"
	"testing"

	"dashboard-pipeline/internal/metrics"
)

type fakeClient struct {
	counts  map[string]int64
	hists   map[string]float64
	tags    []string
	flushed bool
}

func (f *fakeClient) Count(name string, value int64, tags []string, rate float64) error {
	f.counts[name] += value
	f.tags = tags
	return nil
}

func (f *fakeClient) Histogram(name string, value float64, tags []string, rate float64) error {
	f.hists[name] = value
	return nil
}

func (f *fakeClient) Flush() error { f.flushed = true; return nil }
func (f *fakeClient) Close() error { return nil }

func TestNewBackend_RequiresAddr(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend(Config{}); err == nil {
		t.Fatalf("expected error for empty Addr")
	}
}

func TestBackend_Forwards(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{counts: map[string]int64{}, hists: map[string]float64{}}
	b := &Backend{client: fc}

	b.IncCounter("pipeline_op_total", 2, metrics.Labels{"op": "fetch", "kind": "csv"})
	b.ObserveHistogram("pipeline_op_duration_seconds", 0.5, nil)
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if fc.counts["pipeline_op_total"] != 2 {
		t.Fatalf("count: got %d, want 2", fc.counts["pipeline_op_total"])
	}
	if fc.hists["pipeline_op_duration_seconds"] != 0.5 {
		t.Fatalf("histogram not forwarded")
	}
	if want := []string{"kind:csv", "op:fetch"}; !reflect.DeepEqual(fc.tags, want) {
		t.Fatalf("tags: got %v, want %v", fc.tags, want)
	}
	if !fc.flushed {
		t.Fatalf("expected flush")
	}
}

func TestBackend_NilClientIsSafe(t *testing.T) {
	t.Parallel()

	var b Backend
	b.IncCounter("x", 1, nil)
	b.ObserveHistogram("x", 1, nil)
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}
