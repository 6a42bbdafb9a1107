package handler

import (
	"net/http"
	"time"

	"dashboard-pipeline/internal/model"
	"dashboard-pipeline/internal/pipeline"
)

// FetchDataRequest selects a source by stored id, by inline config, or both
// (the inline config wins and the id only keys the cache).
type FetchDataRequest struct {
	DataSourceID string              `json:"dataSourceId"`
	Config       *model.SourceConfig `json:"config"`
	Refresh      bool                `json:"refresh"`
}

type FetchMetadata struct {
	RowCount    int       `json:"rowCount"`
	Columns     []string  `json:"columns"`
	LastUpdated time.Time `json:"lastUpdated"`
	Cached      bool      `json:"cached"`
}

type FetchDataResponse struct {
	Data     interface{}   `json:"data"`
	Metadata FetchMetadata `json:"metadata"`
}

// FetchData fetches the full dataset of a data source
// @Summary Fetch data from a source
// @Description Fetch every row of a stored or inline data source. Results are cached per owner; set refresh to bypass the cache.
// @Tags data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body FetchDataRequest true "Source to fetch"
// @Success 200 {object} FetchDataResponse "Fetched rows"
// @Failure 400 {object} ErrorResponse "Invalid config or fetch failure"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 404 {object} ErrorResponse "Data source not found"
// @Router /fetch-data [post]
func (h *Handler) FetchData(w http.ResponseWriter, r *http.Request) {
	var req FetchDataRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, "Failed to fetch data", err)
		return
	}

	var cfg model.SourceConfig
	switch {
	case req.Config != nil:
		cfg = *req.Config
	case req.DataSourceID != "":
		ds, err := h.Store.GetSource(r.Context(), owner(r), req.DataSourceID)
		if err != nil {
			writeError(w, "Failed to fetch data", err)
			return
		}
		cfg = ds.Config
	default:
		writeError(w, "Failed to fetch data", invalidInput("dataSourceId or config is required"))
		return
	}

	res, err := h.Service.Fetch(r.Context(), pipeline.FetchRequest{
		Owner:        owner(r),
		DataSourceID: req.DataSourceID,
		Config:       cfg,
		Refresh:      req.Refresh,
	})
	if err != nil {
		writeError(w, "Failed to fetch data", err)
		return
	}

	writeJSON(w, http.StatusOK, FetchDataResponse{
		Data: res.Dataset.Data(),
		Metadata: FetchMetadata{
			RowCount:    res.Dataset.Len(),
			Columns:     columns(res.Dataset),
			LastUpdated: res.FetchedAt,
			Cached:      res.Cached,
		},
	})
}

type TransformDataRequest struct {
	Data            []model.Row           `json:"data"`
	TransformConfig model.TransformConfig `json:"transformConfig"`
}

type TransformMetadata struct {
	OriginalRowCount    int      `json:"originalRowCount"`
	TransformedRowCount int      `json:"transformedRowCount"`
	Transformations     []string `json:"transformations"`
}

type TransformDataResponse struct {
	Data     []model.Row       `json:"data"`
	Metadata TransformMetadata `json:"metadata"`
}

// TransformData runs rows through the transform stages
// @Summary Transform rows
// @Description Apply filters, sort, aggregations, groupBy and pagination, always in that order
// @Tags data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransformDataRequest true "Rows and transform config"
// @Success 200 {object} TransformDataResponse "Transformed rows"
// @Failure 400 {object} ErrorResponse "Malformed transform config"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Router /transform-data [post]
func (h *Handler) TransformData(w http.ResponseWriter, r *http.Request) {
	var req TransformDataRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, "Failed to transform data", err)
		return
	}

	out, err := h.Service.Transform(req.Data, req.TransformConfig)
	if err != nil {
		writeError(w, "Failed to transform data", err)
		return
	}
	if out == nil {
		out = []model.Row{}
	}

	writeJSON(w, http.StatusOK, TransformDataResponse{
		Data: out,
		Metadata: TransformMetadata{
			OriginalRowCount:    len(req.Data),
			TransformedRowCount: len(out),
			Transformations:     req.TransformConfig.Stages(),
		},
	})
}

type SourceRequest struct {
	Config model.SourceConfig `json:"config"`
}

// ValidateSource checks that a source can be read and infers its schema
// @Summary Validate a data source
// @Description Fetch a small sample and infer the column schema. An unreadable source is reported with isValid=false, not as an error.
// @Tags data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SourceRequest true "Source config"
// @Success 200 {object} pipeline.ValidationResult "Validation result"
// @Failure 400 {object} ErrorResponse "Invalid JSON payload"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Router /validate-source [post]
func (h *Handler) ValidateSource(w http.ResponseWriter, r *http.Request) {
	var req SourceRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, "Failed to validate source", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Service.Validate(r.Context(), owner(r), req.Config))
}

type PreviewDataRequest struct {
	Config model.SourceConfig `json:"config"`
	Limit  int                `json:"limit"`
}

type PreviewMetadata struct {
	RowCount  int      `json:"rowCount"`
	Columns   []string `json:"columns"`
	IsPreview bool     `json:"isPreview"`
	Limit     int      `json:"limit"`
}

type PreviewDataResponse struct {
	Data     interface{}     `json:"data"`
	Metadata PreviewMetadata `json:"metadata"`
}

// PreviewData returns the first rows of a source
// @Summary Preview a data source
// @Description Fetch at most limit rows (default 10) without touching the cache
// @Tags data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PreviewDataRequest true "Source config and row limit"
// @Success 200 {object} PreviewDataResponse "Preview rows"
// @Failure 400 {object} ErrorResponse "Invalid config or fetch failure"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Router /preview-data [post]
func (h *Handler) PreviewData(w http.ResponseWriter, r *http.Request) {
	var req PreviewDataRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, "Failed to preview data", err)
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = pipeline.DefaultPreviewLimit
	}

	ds, err := h.Service.Preview(r.Context(), owner(r), req.Config, limit)
	if err != nil {
		writeError(w, "Failed to preview data", err)
		return
	}

	writeJSON(w, http.StatusOK, PreviewDataResponse{
		Data: ds.Data(),
		Metadata: PreviewMetadata{
			RowCount:  ds.Len(),
			Columns:   columns(ds),
			IsPreview: true,
			Limit:     limit,
		},
	})
}

// columns never returns nil so the JSON carries [] for empty datasets.
func columns(ds model.Dataset) []string {
	cols := model.ColumnsOf(ds)
	if cols == nil {
		return []string{}
	}
	return cols
}
