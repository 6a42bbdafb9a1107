package httpds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// TestNewClient_Defaults verifies the zero Config still yields a bounded client.
func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{InsecureSkipVerify: true})
	if c.Timeout() != 30*time.Second {
		t.Fatalf("timeout: got %v, want 30s", c.Timeout())
	}
	tr, ok := c.httpClient.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", c.httpClient.Transport)
	}
	if tr.TLSClientConfig == nil || !tr.TLSClientConfig.InsecureSkipVerify {
		t.Fatalf("expected InsecureSkipVerify=true when configured")
	}
}

// TestDo_NoRetryOn5xx verifies a failing status is returned after exactly one request.
func TestDo_NoRetryOn5xx(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Config{Timeout: 2 * time.Second})
	resp, err := c.Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("expected exactly 1 request, got %d", got)
	}
}

// TestDo_HeadersOverrideBase verifies per-request headers replace base headers.
func TestDo_HeadersOverrideBase(t *testing.T) {
	t.Parallel()

	var gotAgent, gotKey string
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotKey = r.Header.Get("X-Key")
		gotMethod = r.Method
	}))
	defer srv.Close()

	c := NewClient(Config{BaseHeaders: http.Header{"User-Agent": {"base"}, "X-Key": {"base"}}})
	resp, err := c.Do(context.Background(), http.MethodPost, srv.URL, []byte("{}"), http.Header{"X-Key": {"override"}})
	if err != nil {
		t.Fatalf("Do error: %v", err)
	}
	resp.Body.Close()

	if gotMethod != http.MethodPost {
		t.Fatalf("method: got %q, want POST", gotMethod)
	}
	if gotAgent != "base" {
		t.Fatalf("User-Agent: got %q, want base", gotAgent)
	}
	if gotKey != "override" {
		t.Fatalf("X-Key: got %q, want override", gotKey)
	}
}

// TestDo_ContextCanceled verifies a canceled context aborts the request.
func TestDo_ContextCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(Config{Timeout: time.Second})
	if _, err := c.Get(ctx, srv.URL, nil); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}

func TestDo_EmptyURL(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{})
	if _, err := c.Do(context.Background(), "", "", nil, nil); err == nil {
		t.Fatalf("expected error for empty url")
	}
}
