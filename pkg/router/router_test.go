package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func serve(r *Router, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRouter_WildcardSpecificity(t *testing.T) {
	t.Parallel()

	r := New()
	var got string
	// Registered catch-all first: the longer pattern must still win.
	r.GET("/api/v1/dashboards/*", func(w http.ResponseWriter, req *http.Request) {
		got = "one"
	})
	r.GET("/api/v1/dashboards/*/data", func(w http.ResponseWriter, req *http.Request) {
		got = "data"
	})

	for path, want := range map[string]string{
		"/api/v1/dashboards/d1":      "one",
		"/api/v1/dashboards/d1/data": "data",
		"/api/v1/dashboards/d1/x/y":  "one",
	} {
		got = ""
		if rec := serve(r, http.MethodGet, path); rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d", path, rec.Code)
		}
		if got != want {
			t.Fatalf("%s: got %q, want %q", path, got, want)
		}
	}
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	t.Parallel()

	r := New()
	r.GET("/health", func(w http.ResponseWriter, req *http.Request) {})
	r.GET("/api/v1/sources/*", func(w http.ResponseWriter, req *http.Request) {})

	if rec := serve(r, http.MethodGet, "/nope"); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown path: got %d, want 404", rec.Code)
	}
	if rec := serve(r, http.MethodPost, "/health"); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("wrong method: got %d, want 405", rec.Code)
	}
	if rec := serve(r, http.MethodDelete, "/api/v1/sources/x"); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("wrong method on wildcard: got %d, want 405", rec.Code)
	}
	if rec := serve(r, http.MethodGet, "/api/v1/sources/"); rec.Code != http.StatusNotFound {
		t.Fatalf("empty wildcard: got %d, want 404", rec.Code)
	}
}

func TestRouter_MiddlewareOrder(t *testing.T) {
	t.Parallel()

	var trace []string
	mark := func(name string) Middleware {
		return func(next HandlerFunc) HandlerFunc {
			return func(w http.ResponseWriter, req *http.Request) {
				trace = append(trace, name)
				next(w, req)
			}
		}
	}

	r := New()
	r.Use(mark("global"))
	r.GET("/x", func(w http.ResponseWriter, req *http.Request) { trace = append(trace, "handler") }, mark("route"))

	serve(r, http.MethodGet, "/x")
	want := []string{"global", "route", "handler"}
	if len(trace) != len(want) {
		t.Fatalf("got %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("got %v, want %v", trace, want)
		}
	}
}

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()

	r := New()
	r.Use(CORS)
	r.POST("/fetch-data", func(w http.ResponseWriter, req *http.Request) {
		t.Errorf("handler should not run for OPTIONS")
	})

	rec := serve(r, http.MethodOptions, "/fetch-data")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin: got %q, want *", got)
	}
}

func TestRouter_Mount(t *testing.T) {
	t.Parallel()

	r := New()
	r.Mount("/metrics", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	if rec := serve(r, http.MethodGet, "/metrics"); rec.Code != http.StatusTeapot {
		t.Fatalf("got %d, want 418", rec.Code)
	}
}
