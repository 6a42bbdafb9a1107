package api

import (
	"net/http"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger"

	"dashboard-pipeline/internal/api/handler"
	"dashboard-pipeline/pkg/router"

	_ "dashboard-pipeline/docs"
)

// Route is one endpoint. Path uses "*" for a single id segment.
type Route struct {
	Method  string
	Path    string
	Handler router.HandlerFunc
	Public  bool
}

// Routes lists every endpoint served by h. More specific paths come first.
func Routes(h *handler.Handler) []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/health", Handler: h.Health, Public: true},

		{Method: http.MethodPost, Path: "/fetch-data", Handler: h.FetchData},
		{Method: http.MethodPost, Path: "/transform-data", Handler: h.TransformData},
		{Method: http.MethodPost, Path: "/validate-source", Handler: h.ValidateSource},
		{Method: http.MethodPost, Path: "/preview-data", Handler: h.PreviewData},

		{Method: http.MethodPost, Path: "/api/v1/sources", Handler: h.CreateSource},
		{Method: http.MethodGet, Path: "/api/v1/sources", Handler: h.ListSources},
		{Method: http.MethodGet, Path: "/api/v1/sources/*/export", Handler: h.ExportSource},
		{Method: http.MethodGet, Path: "/api/v1/sources/*", Handler: h.GetSource},
		{Method: http.MethodPut, Path: "/api/v1/sources/*", Handler: h.UpdateSource},
		{Method: http.MethodDelete, Path: "/api/v1/sources/*", Handler: h.DeleteSource},

		{Method: http.MethodPost, Path: "/api/v1/dashboards", Handler: h.CreateDashboard},
		{Method: http.MethodGet, Path: "/api/v1/dashboards", Handler: h.ListDashboards},
		{Method: http.MethodGet, Path: "/api/v1/dashboards/*/data", Handler: h.DashboardData},
		{Method: http.MethodGet, Path: "/api/v1/dashboards/*", Handler: h.GetDashboard},
		{Method: http.MethodPut, Path: "/api/v1/dashboards/*", Handler: h.UpdateDashboard},
		{Method: http.MethodDelete, Path: "/api/v1/dashboards/*", Handler: h.DeleteDashboard},

		{Method: http.MethodPost, Path: "/api/v1/widgets", Handler: h.CreateWidget},
		{Method: http.MethodGet, Path: "/api/v1/widgets/*", Handler: h.GetWidget},
		{Method: http.MethodPut, Path: "/api/v1/widgets/*", Handler: h.UpdateWidget},
		{Method: http.MethodDelete, Path: "/api/v1/widgets/*", Handler: h.DeleteWidget},

		{Method: http.MethodPost, Path: "/api/v1/uploads", Handler: h.UploadCSV},
	}
}

// RegisterRoutes wires every route into r behind CORS, with authentication on
// all but the public ones. metrics may be nil.
func RegisterRoutes(r *router.Router, h *handler.Handler, metrics http.Handler) {
	r.Use(router.CORS)

	for _, rt := range Routes(h) {
		var mw []router.Middleware
		if !rt.Public {
			mw = append(mw, h.Authenticate)
		}
		switch rt.Method {
		case http.MethodGet:
			r.GET(rt.Path, rt.Handler, mw...)
		case http.MethodPost:
			r.POST(rt.Path, rt.Handler, mw...)
		case http.MethodPut:
			r.PUT(rt.Path, rt.Handler, mw...)
		case http.MethodPatch:
			r.PATCH(rt.Path, rt.Handler, mw...)
		case http.MethodDelete:
			r.DELETE(rt.Path, rt.Handler, mw...)
		}
	}

	r.Mount("/swagger/", httpSwagger.WrapHandler)
	if metrics != nil {
		r.Mount("/metrics", metrics)
	}
}

// ginPath turns "/a/*/b" into "/a/:id/b".
func ginPath(p string) string {
	return strings.ReplaceAll(p, "*", ":id")
}
