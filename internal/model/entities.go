package model

import (
	"encoding/json"
	"time"
)

// DataSource is a saved source configuration owned by one user.
type DataSource struct {
	ID        string       `json:"id"`
	OwnerID   string       `json:"ownerId"`
	Name      string       `json:"name"`
	Config    SourceConfig `json:"config"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Dashboard groups widgets. Layout is opaque to the backend.
type Dashboard struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"ownerId"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Layout      json.RawMessage `json:"layout,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Widget kinds.
const (
	WidgetChart  = "chart"
	WidgetTable  = "table"
	WidgetMetric = "metric"
)

// Widget renders one data source's (optionally transformed) rows on a dashboard.
type Widget struct {
	ID           string          `json:"id"`
	OwnerID      string          `json:"ownerId"`
	DashboardID  string          `json:"dashboardId"`
	DataSourceID string          `json:"dataSourceId"`
	Kind         string          `json:"type"`
	Title        string          `json:"title"`
	Transform    TransformConfig `json:"transform"`
	Layout       json.RawMessage `json:"layout,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ValidWidgetKind reports whether k is one of the supported widget kinds.
func ValidWidgetKind(k string) bool {
	switch k {
	case WidgetChart, WidgetTable, WidgetMetric:
		return true
	}
	return false
}
