package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"dashboard-pipeline/internal/model"
	"dashboard-pipeline/internal/pipeline"
)

// pathSegment returns the i-th segment of the request path, so for
// /api/v1/sources/abc segment 3 is "abc".
func pathSegment(r *http.Request, i int) string {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if i >= len(parts) {
		return ""
	}
	return parts[i]
}

func isTrue(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// ------------------- data sources -------------------

type SourceInput struct {
	Name   string             `json:"name"`
	Config model.SourceConfig `json:"config"`
}

func (in SourceInput) check() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalidInput("name is required")
	}
	if strings.TrimSpace(string(in.Config.Kind)) == "" {
		return invalidInput("config.type is required")
	}
	return nil
}

// CreateSource saves a data source
// @Summary Create a data source
// @Tags sources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param source body SourceInput true "Data source"
// @Success 201 {object} model.DataSource "Created data source"
// @Failure 400 {object} ErrorResponse "Invalid request payload"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Router /api/v1/sources [post]
func (h *Handler) CreateSource(w http.ResponseWriter, r *http.Request) {
	var in SourceInput
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, "Failed to create data source", err)
		return
	}
	if err := in.check(); err != nil {
		writeError(w, "Failed to create data source", err)
		return
	}

	ds := &model.DataSource{OwnerID: owner(r), Name: in.Name, Config: in.Config.Normalize()}
	if err := h.Store.CreateSource(r.Context(), ds); err != nil {
		writeError(w, "Failed to create data source", err)
		return
	}
	writeJSON(w, http.StatusCreated, ds)
}

// ListSources lists the caller's data sources
// @Summary List data sources
// @Tags sources
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.DataSource "Data sources"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Router /api/v1/sources [get]
func (h *Handler) ListSources(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.ListSources(r.Context(), owner(r))
	if err != nil {
		writeError(w, "Failed to list data sources", err)
		return
	}
	if list == nil {
		list = []model.DataSource{}
	}
	writeJSON(w, http.StatusOK, list)
}

// GetSource returns one data source
// @Summary Get a data source
// @Tags sources
// @Produce json
// @Security BearerAuth
// @Param id path string true "Data source ID"
// @Success 200 {object} model.DataSource "Data source"
// @Failure 404 {object} ErrorResponse "Data source not found"
// @Router /api/v1/sources/{id} [get]
func (h *Handler) GetSource(w http.ResponseWriter, r *http.Request) {
	ds, err := h.Store.GetSource(r.Context(), owner(r), pathSegment(r, 3))
	if err != nil {
		writeError(w, "Failed to get data source", err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

// UpdateSource replaces a data source's name and config
// @Summary Update a data source
// @Tags sources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Data source ID"
// @Param source body SourceInput true "Data source"
// @Success 200 {object} model.DataSource "Updated data source"
// @Failure 400 {object} ErrorResponse "Invalid request payload"
// @Failure 404 {object} ErrorResponse "Data source not found"
// @Router /api/v1/sources/{id} [put]
func (h *Handler) UpdateSource(w http.ResponseWriter, r *http.Request) {
	var in SourceInput
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, "Failed to update data source", err)
		return
	}
	if err := in.check(); err != nil {
		writeError(w, "Failed to update data source", err)
		return
	}

	prev, err := h.Store.GetSource(r.Context(), owner(r), pathSegment(r, 3))
	if err != nil {
		writeError(w, "Failed to update data source", err)
		return
	}
	ds := &model.DataSource{ID: prev.ID, OwnerID: owner(r), Name: in.Name, Config: in.Config.Normalize()}
	if err := h.Store.UpdateSource(r.Context(), ds); err != nil {
		writeError(w, "Failed to update data source", err)
		return
	}
	h.Service.Forget(owner(r), prev.ID, prev.Config)
	writeJSON(w, http.StatusOK, ds)
}

// DeleteSource removes a data source
// @Summary Delete a data source
// @Tags sources
// @Security BearerAuth
// @Param id path string true "Data source ID"
// @Success 204 "Deleted"
// @Failure 404 {object} ErrorResponse "Data source not found"
// @Router /api/v1/sources/{id} [delete]
func (h *Handler) DeleteSource(w http.ResponseWriter, r *http.Request) {
	prev, err := h.Store.GetSource(r.Context(), owner(r), pathSegment(r, 3))
	if err != nil {
		writeError(w, "Failed to delete data source", err)
		return
	}
	if err := h.Store.DeleteSource(r.Context(), owner(r), prev.ID); err != nil {
		writeError(w, "Failed to delete data source", err)
		return
	}
	h.Service.Forget(owner(r), prev.ID, prev.Config)
	w.WriteHeader(http.StatusNoContent)
}

// ExportSource downloads a source's rows as CSV or JSON
// @Summary Export a data source
// @Description Fetch the source (through the cache unless refresh is set) and stream it as a file
// @Tags sources
// @Produce text/csv
// @Produce json
// @Security BearerAuth
// @Param id path string true "Data source ID"
// @Param format query string false "csv (default) or json"
// @Param refresh query bool false "Bypass the cache"
// @Success 200 {file} file "Exported rows"
// @Failure 400 {object} ErrorResponse "Unsupported format or fetch failure"
// @Failure 404 {object} ErrorResponse "Data source not found"
// @Router /api/v1/sources/{id}/export [get]
func (h *Handler) ExportSource(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = pipeline.ExportCSV
	}
	if format != pipeline.ExportCSV && format != pipeline.ExportJSON {
		writeError(w, "Failed to export data source", invalidInput(fmt.Sprintf("unsupported export format: %s", format)))
		return
	}

	id := pathSegment(r, 3)
	ds, err := h.Store.GetSource(r.Context(), owner(r), id)
	if err != nil {
		writeError(w, "Failed to export data source", err)
		return
	}
	res, err := h.Service.Fetch(r.Context(), pipeline.FetchRequest{
		Owner:        owner(r),
		DataSourceID: id,
		Config:       ds.Config,
		Refresh:      isTrue(r.URL.Query().Get("refresh")),
	})
	if err != nil {
		writeError(w, "Failed to export data source", err)
		return
	}

	contentType := "text/csv; charset=utf-8"
	if format == pipeline.ExportJSON {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+"."+format))
	if _, err := pipeline.Export(w, format, res.Dataset.Columns, res.Dataset.Rows); err != nil {
		// Headers are gone; the client sees a truncated file.
		log.Printf("❌ Export of %s failed: %v", id, err)
	}
}

// ------------------- dashboards -------------------

type DashboardInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Layout      json.RawMessage `json:"layout,omitempty"`
}

func (in DashboardInput) check() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalidInput("name is required")
	}
	return nil
}

// CreateDashboard saves a dashboard
// @Summary Create a dashboard
// @Tags dashboards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param dashboard body DashboardInput true "Dashboard"
// @Success 201 {object} model.Dashboard "Created dashboard"
// @Failure 400 {object} ErrorResponse "Invalid request payload"
// @Router /api/v1/dashboards [post]
func (h *Handler) CreateDashboard(w http.ResponseWriter, r *http.Request) {
	var in DashboardInput
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, "Failed to create dashboard", err)
		return
	}
	if err := in.check(); err != nil {
		writeError(w, "Failed to create dashboard", err)
		return
	}

	d := &model.Dashboard{OwnerID: owner(r), Name: in.Name, Description: in.Description, Layout: in.Layout}
	if err := h.Store.CreateDashboard(r.Context(), d); err != nil {
		writeError(w, "Failed to create dashboard", err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// ListDashboards lists the caller's dashboards
// @Summary List dashboards
// @Tags dashboards
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Dashboard "Dashboards"
// @Router /api/v1/dashboards [get]
func (h *Handler) ListDashboards(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.ListDashboards(r.Context(), owner(r))
	if err != nil {
		writeError(w, "Failed to list dashboards", err)
		return
	}
	if list == nil {
		list = []model.Dashboard{}
	}
	writeJSON(w, http.StatusOK, list)
}

// GetDashboard returns a dashboard with its widgets
// @Summary Get a dashboard
// @Tags dashboards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Dashboard ID"
// @Success 200 {object} map[string]interface{} "Dashboard and widgets"
// @Failure 404 {object} ErrorResponse "Dashboard not found"
// @Router /api/v1/dashboards/{id} [get]
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Store.GetDashboard(r.Context(), owner(r), pathSegment(r, 3))
	if err != nil {
		writeError(w, "Failed to get dashboard", err)
		return
	}
	widgets, err := h.Store.ListWidgets(r.Context(), owner(r), d.ID)
	if err != nil {
		writeError(w, "Failed to get dashboard", err)
		return
	}
	if widgets == nil {
		widgets = []model.Widget{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dashboard": d,
		"widgets":   widgets,
	})
}

// UpdateDashboard replaces a dashboard's name, description and layout
// @Summary Update a dashboard
// @Tags dashboards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Dashboard ID"
// @Param dashboard body DashboardInput true "Dashboard"
// @Success 200 {object} model.Dashboard "Updated dashboard"
// @Failure 404 {object} ErrorResponse "Dashboard not found"
// @Router /api/v1/dashboards/{id} [put]
func (h *Handler) UpdateDashboard(w http.ResponseWriter, r *http.Request) {
	var in DashboardInput
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, "Failed to update dashboard", err)
		return
	}
	if err := in.check(); err != nil {
		writeError(w, "Failed to update dashboard", err)
		return
	}

	d := &model.Dashboard{ID: pathSegment(r, 3), OwnerID: owner(r), Name: in.Name, Description: in.Description, Layout: in.Layout}
	if err := h.Store.UpdateDashboard(r.Context(), d); err != nil {
		writeError(w, "Failed to update dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// DeleteDashboard removes a dashboard and its widgets
// @Summary Delete a dashboard
// @Tags dashboards
// @Security BearerAuth
// @Param id path string true "Dashboard ID"
// @Success 204 "Deleted"
// @Failure 404 {object} ErrorResponse "Dashboard not found"
// @Router /api/v1/dashboards/{id} [delete]
func (h *Handler) DeleteDashboard(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteDashboard(r.Context(), owner(r), pathSegment(r, 3)); err != nil {
		writeError(w, "Failed to delete dashboard", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DashboardData fetches and transforms the data of every widget
// @Summary Dashboard data
// @Description Refresh all widgets concurrently. A widget whose source fails carries an error; the others still return data.
// @Tags dashboards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Dashboard ID"
// @Param refresh query bool false "Bypass the cache"
// @Success 200 {object} map[string]interface{} "Per-widget data keyed by widget ID"
// @Failure 404 {object} ErrorResponse "Dashboard not found"
// @Router /api/v1/dashboards/{id}/data [get]
func (h *Handler) DashboardData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, err := h.Store.GetDashboard(ctx, owner(r), pathSegment(r, 3))
	if err != nil {
		writeError(w, "Failed to load dashboard data", err)
		return
	}
	widgets, err := h.Store.ListWidgets(ctx, owner(r), d.ID)
	if err != nil {
		writeError(w, "Failed to load dashboard data", err)
		return
	}

	results := make(map[string]pipeline.WidgetResult, len(widgets))
	queries := make([]pipeline.WidgetQuery, 0, len(widgets))
	sources := map[string]model.DataSource{}
	for _, wd := range widgets {
		src, ok := sources[wd.DataSourceID]
		if !ok {
			src, err = h.Store.GetSource(ctx, owner(r), wd.DataSourceID)
			if err != nil {
				results[wd.ID] = pipeline.WidgetResult{Error: fmt.Sprintf("data source %s: %v", wd.DataSourceID, err)}
				continue
			}
			sources[wd.DataSourceID] = src
		}
		queries = append(queries, pipeline.WidgetQuery{
			WidgetID:     wd.ID,
			DataSourceID: src.ID,
			Config:       src.Config,
			Transform:    wd.Transform,
		})
	}

	for id, res := range h.Service.RefreshWidgets(ctx, owner(r), queries, isTrue(r.URL.Query().Get("refresh"))) {
		results[id] = res
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dashboardId": d.ID,
		"widgets":     results,
	})
}

// ------------------- widgets -------------------

type WidgetInput struct {
	DashboardID  string                `json:"dashboardId"`
	DataSourceID string                `json:"dataSourceId"`
	Kind         string                `json:"type"`
	Title        string                `json:"title"`
	Transform    model.TransformConfig `json:"transform"`
	Layout       json.RawMessage       `json:"layout,omitempty"`
}

func (in WidgetInput) check(creating bool) error {
	if creating && in.DashboardID == "" {
		return invalidInput("dashboardId is required")
	}
	if in.DataSourceID == "" {
		return invalidInput("dataSourceId is required")
	}
	if !model.ValidWidgetKind(in.Kind) {
		return invalidInput(fmt.Sprintf("type must be one of chart, table, metric; got %q", in.Kind))
	}
	return nil
}

func (in WidgetInput) widget(id, ownerID string) *model.Widget {
	return &model.Widget{
		ID:           id,
		OwnerID:      ownerID,
		DashboardID:  in.DashboardID,
		DataSourceID: in.DataSourceID,
		Kind:         in.Kind,
		Title:        in.Title,
		Transform:    in.Transform,
		Layout:       in.Layout,
	}
}

// CreateWidget adds a widget to one of the caller's dashboards
// @Summary Create a widget
// @Tags widgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param widget body WidgetInput true "Widget"
// @Success 201 {object} model.Widget "Created widget"
// @Failure 400 {object} ErrorResponse "Invalid request payload"
// @Failure 404 {object} ErrorResponse "Dashboard or data source not found"
// @Router /api/v1/widgets [post]
func (h *Handler) CreateWidget(w http.ResponseWriter, r *http.Request) {
	var in WidgetInput
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, "Failed to create widget", err)
		return
	}
	if err := in.check(true); err != nil {
		writeError(w, "Failed to create widget", err)
		return
	}
	if _, err := h.Store.GetSource(r.Context(), owner(r), in.DataSourceID); err != nil {
		writeError(w, "Failed to create widget", err)
		return
	}

	wd := in.widget("", owner(r))
	if err := h.Store.CreateWidget(r.Context(), wd); err != nil {
		writeError(w, "Failed to create widget", err)
		return
	}
	writeJSON(w, http.StatusCreated, wd)
}

// GetWidget returns one widget
// @Summary Get a widget
// @Tags widgets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Widget ID"
// @Success 200 {object} model.Widget "Widget"
// @Failure 404 {object} ErrorResponse "Widget not found"
// @Router /api/v1/widgets/{id} [get]
func (h *Handler) GetWidget(w http.ResponseWriter, r *http.Request) {
	wd, err := h.Store.GetWidget(r.Context(), owner(r), pathSegment(r, 3))
	if err != nil {
		writeError(w, "Failed to get widget", err)
		return
	}
	writeJSON(w, http.StatusOK, wd)
}

// UpdateWidget replaces a widget's source, type, title, transform and layout.
// Widgets stay on the dashboard they were created on.
// @Summary Update a widget
// @Tags widgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Widget ID"
// @Param widget body WidgetInput true "Widget"
// @Success 200 {object} model.Widget "Updated widget"
// @Failure 400 {object} ErrorResponse "Invalid request payload"
// @Failure 404 {object} ErrorResponse "Widget or data source not found"
// @Router /api/v1/widgets/{id} [put]
func (h *Handler) UpdateWidget(w http.ResponseWriter, r *http.Request) {
	var in WidgetInput
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, "Failed to update widget", err)
		return
	}
	if err := in.check(false); err != nil {
		writeError(w, "Failed to update widget", err)
		return
	}
	if _, err := h.Store.GetSource(r.Context(), owner(r), in.DataSourceID); err != nil {
		writeError(w, "Failed to update widget", err)
		return
	}

	wd := in.widget(pathSegment(r, 3), owner(r))
	if err := h.Store.UpdateWidget(r.Context(), wd); err != nil {
		writeError(w, "Failed to update widget", err)
		return
	}
	writeJSON(w, http.StatusOK, wd)
}

// DeleteWidget removes a widget
// @Summary Delete a widget
// @Tags widgets
// @Security BearerAuth
// @Param id path string true "Widget ID"
// @Success 204 "Deleted"
// @Failure 404 {object} ErrorResponse "Widget not found"
// @Router /api/v1/widgets/{id} [delete]
func (h *Handler) DeleteWidget(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteWidget(r.Context(), owner(r), pathSegment(r, 3)); err != nil {
		writeError(w, "Failed to delete widget", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ------------------- uploads -------------------

// UploadCSV stores a CSV file for use as a csv source
// @Summary Upload a CSV file
// @Description Store the raw request body and return an upload:// URL to use as a csv source's url
// @Tags uploads
// @Accept text/csv
// @Produce json
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Stored file locator"
// @Failure 413 {object} ErrorResponse "File too large"
// @Router /api/v1/uploads [post]
func (h *Handler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	if h.Uploads == nil {
		writeError(w, "Failed to store upload", errors.New("uploads are not configured"))
		return
	}
	body := http.MaxBytesReader(w, r.Body, h.Uploads.MaxBytes)
	loc, n, err := h.Uploads.Save(owner(r), body)
	if err != nil {
		writeError(w, "Failed to store upload", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"url":  loc,
		"size": n,
	})
}
