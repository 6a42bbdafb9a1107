package router

import (
	"log"
	"net/http"
	"strings"
	"time"
)

// --- ANSI color codes ---
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

type HandlerFunc func(http.ResponseWriter, *http.Request)

// Middleware wraps a handler. Global middleware (Use) runs before route
// lookup; route middleware runs only for the route it was registered with.
type Middleware func(HandlerFunc) HandlerFunc

type Router struct {
	mux      *http.ServeMux
	routes   map[string]HandlerFunc // key = METHOD:PATH
	paths    map[string]bool        // track registered paths
	patterns []string               // wildcard paths, registration order
	global   []Middleware
}

func New() *Router {
	r := &Router{
		mux:    http.NewServeMux(),
		routes: make(map[string]HandlerFunc),
		paths:  make(map[string]bool),
	}

	// Catch-all handler for unknown paths
	r.mux.HandleFunc("/", logged(func(w http.ResponseWriter, req *http.Request) {
		h := HandlerFunc(r.dispatch)
		for i := len(r.global) - 1; i >= 0; i-- {
			h = r.global[i](h)
		}
		h(w, req)
	}))

	return r
}

// Use adds middleware that runs for every request, matched or not.
func (r *Router) Use(mw ...Middleware) {
	r.global = append(r.global, mw...)
}

// Mount serves everything under prefix with h, bypassing route lookup.
// Requests are still logged.
func (r *Router) Mount(prefix string, h http.Handler) {
	r.mux.HandleFunc(prefix, logged(h.ServeHTTP))
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	key := req.Method + ":" + req.URL.Path
	if h, ok := r.routes[key]; ok {
		h(w, req)
		return
	}

	// Same segment count first, so /a/*/b is never shadowed by a trailing /a/*.
	for _, exact := range []bool{true, false} {
		for _, routePath := range r.patterns {
			if !matchWildcardRoute(req.URL.Path, routePath, exact) {
				continue
			}
			if h, ok := r.routes[req.Method+":"+routePath]; ok {
				h(w, req)
				return
			}
		}
	}

	if r.pathExists(req.URL.Path) {
		// Path exists but method not allowed
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	http.Error(w, "Not Found", http.StatusNotFound)
}

func (r *Router) pathExists(path string) bool {
	if r.paths[path] {
		return true
	}
	for _, p := range r.patterns {
		if matchWildcardRoute(path, p, false) {
			return true
		}
	}
	return false
}

// logged wraps h with the colored one-line request log.
func logged(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		h(lrw, req)

		duration := time.Since(start)
		color := statusColor(lrw.statusCode)
		methodColor := methodColor(req.Method)

		log.Printf("%s[%s]%s %s%s%s %s %s%d%s %s(%v)%s",
			colorCyan, start.Format("2006-01-02 15:04:05"), colorReset,
			methodColor, req.Method, colorReset,
			req.URL.Path,
			color, lrw.statusCode, colorReset,
			colorBlue, duration, colorReset,
		)
	}
}

// matchWildcardRoute checks if a request path matches a wildcard route pattern.
// With exact set, only patterns with the same number of segments match;
// otherwise a trailing "*" also swallows any remaining segments.
func matchWildcardRoute(requestPath, routePattern string, exact bool) bool {
	requestSegments := strings.Split(strings.Trim(requestPath, "/"), "/")
	routeSegments := strings.Split(strings.Trim(routePattern, "/"), "/")

	if len(requestSegments) != len(routeSegments) {
		last := len(routeSegments) - 1
		if exact || routeSegments[last] != "*" || len(requestSegments) < len(routeSegments) {
			return false
		}
		return matchSegments(requestSegments[:last], routeSegments[:last])
	}
	return matchSegments(requestSegments, routeSegments)
}

func matchSegments(requestSegments, routeSegments []string) bool {
	for i, routeSegment := range routeSegments {
		if routeSegment == "*" {
			// Wildcard matches any non-empty segment
			if requestSegments[i] == "" {
				return false
			}
			continue
		}
		if requestSegments[i] != routeSegment {
			// Exact match required for non-wildcard segments
			return false
		}
	}
	return true
}

// --- Register paths ---
func (r *Router) register(method, path string, handler HandlerFunc, mw []Middleware) {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	key := method + ":" + path
	r.routes[key] = handler
	if strings.Contains(path, "*") && !r.paths[path] {
		r.patterns = append(r.patterns, path)
	}
	r.paths[path] = true
}

func (r *Router) GET(path string, handler HandlerFunc, mw ...Middleware) {
	r.register(http.MethodGet, path, handler, mw)
}
func (r *Router) POST(path string, handler HandlerFunc, mw ...Middleware) {
	r.register(http.MethodPost, path, handler, mw)
}
func (r *Router) PUT(path string, handler HandlerFunc, mw ...Middleware) {
	r.register(http.MethodPut, path, handler, mw)
}
func (r *Router) PATCH(path string, handler HandlerFunc, mw ...Middleware) {
	r.register(http.MethodPatch, path, handler, mw)
}
func (r *Router) DELETE(path string, handler HandlerFunc, mw ...Middleware) {
	r.register(http.MethodDelete, path, handler, mw)
}

// Getter methods for testing
func (r *Router) Routes() map[string]HandlerFunc {
	return r.routes
}

func (r *Router) Paths() map[string]bool {
	return r.paths
}

// Handler exposes the router as an http.Handler.
func (r *Router) Handler() http.Handler { return r.mux }

// --- Start server ---
func (r *Router) Start(addr string) {
	log.Printf("🚀 Server started on %shttp://localhost%s%s", colorGreen, addr, colorReset)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// CORS allows any origin and answers preflight requests directly.
func CORS(next HandlerFunc) HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, req)
	}
}

// --- Logging response writer to capture status codes ---
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// --- Color helpers ---
func statusColor(code int) string {
	switch {
	case code >= 200 && code < 300:
		return colorGreen
	case code >= 300 && code < 400:
		return colorCyan
	case code >= 400 && code < 500:
		return colorYellow
	default:
		return colorRed
	}
}

func methodColor(method string) string {
	switch method {
	case http.MethodGet:
		return colorGreen
	case http.MethodPost:
		return colorBlue
	case http.MethodPut:
		return colorYellow
	case http.MethodPatch:
		return colorYellow
	case http.MethodDelete:
		return colorRed
	default:
		return colorCyan
	}
}
