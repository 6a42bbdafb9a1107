// Package store persists data sources, dashboards and widgets. Every
// operation is scoped by owner: a row that belongs to someone else is
// indistinguishable from one that does not exist.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"dashboard-pipeline/internal/model"
)

// ErrNotFound is returned when the row does not exist for this owner.
var ErrNotFound = errors.New("not found")

// Store is the persistence capability the API layer depends on.
type Store interface {
	CreateSource(ctx context.Context, ds *model.DataSource) error
	GetSource(ctx context.Context, owner, id string) (model.DataSource, error)
	ListSources(ctx context.Context, owner string) ([]model.DataSource, error)
	UpdateSource(ctx context.Context, ds *model.DataSource) error
	DeleteSource(ctx context.Context, owner, id string) error

	CreateDashboard(ctx context.Context, d *model.Dashboard) error
	GetDashboard(ctx context.Context, owner, id string) (model.Dashboard, error)
	ListDashboards(ctx context.Context, owner string) ([]model.Dashboard, error)
	UpdateDashboard(ctx context.Context, d *model.Dashboard) error
	// DeleteDashboard also removes the dashboard's widgets.
	DeleteDashboard(ctx context.Context, owner, id string) error

	CreateWidget(ctx context.Context, w *model.Widget) error
	GetWidget(ctx context.Context, owner, id string) (model.Widget, error)
	ListWidgets(ctx context.Context, owner, dashboardID string) ([]model.Widget, error)
	UpdateWidget(ctx context.Context, w *model.Widget) error
	DeleteWidget(ctx context.Context, owner, id string) error

	Close() error
}

// stamp fills in the id and timestamps of a new entity.
func stamp(id *string, created, updated *time.Time, now time.Time) {
	if strings.TrimSpace(*id) == "" {
		*id = uuid.New().String()
	}
	*created = now
	*updated = now
}

func nowUTC() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
