package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"dashboard-pipeline/internal/model"
)

type key struct{ owner, id string }

// Memory is an in-process Store for tests. It is not durable.
type Memory struct {
	mu         sync.RWMutex
	sources    map[key]model.DataSource
	dashboards map[key]model.Dashboard
	widgets    map[key]model.Widget
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		sources:    map[key]model.DataSource{},
		dashboards: map[key]model.Dashboard{},
		widgets:    map[key]model.Widget{},
	}
}

func (m *Memory) Close() error { return nil }

// ------------------- data sources -------------------

func (m *Memory) CreateSource(_ context.Context, ds *model.DataSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stamp(&ds.ID, &ds.CreatedAt, &ds.UpdatedAt, nowUTC())
	k := key{ds.OwnerID, ds.ID}
	if _, ok := m.sources[k]; ok {
		return fmt.Errorf("data source %s already exists", ds.ID)
	}
	m.sources[k] = *ds
	return nil
}

func (m *Memory) GetSource(_ context.Context, owner, id string) (model.DataSource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ds, ok := m.sources[key{owner, id}]
	if !ok {
		return model.DataSource{}, ErrNotFound
	}
	return ds, nil
}

func (m *Memory) ListSources(_ context.Context, owner string) ([]model.DataSource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.DataSource, 0)
	for k, ds := range m.sources {
		if k.owner == owner {
			out = append(out, ds)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) || (out[i].CreatedAt.Equal(out[j].CreatedAt) && out[i].ID < out[j].ID) })
	return out, nil
}

func (m *Memory) UpdateSource(_ context.Context, ds *model.DataSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key{ds.OwnerID, ds.ID}
	old, ok := m.sources[k]
	if !ok {
		return ErrNotFound
	}
	ds.CreatedAt, ds.UpdatedAt = old.CreatedAt, nowUTC()
	m.sources[k] = *ds
	return nil
}

func (m *Memory) DeleteSource(_ context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key{owner, id}
	if _, ok := m.sources[k]; !ok {
		return ErrNotFound
	}
	delete(m.sources, k)
	return nil
}

// ------------------- dashboards -------------------

func (m *Memory) CreateDashboard(_ context.Context, d *model.Dashboard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stamp(&d.ID, &d.CreatedAt, &d.UpdatedAt, nowUTC())
	k := key{d.OwnerID, d.ID}
	if _, ok := m.dashboards[k]; ok {
		return fmt.Errorf("dashboard %s already exists", d.ID)
	}
	m.dashboards[k] = *d
	return nil
}

func (m *Memory) GetDashboard(_ context.Context, owner, id string) (model.Dashboard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.dashboards[key{owner, id}]
	if !ok {
		return model.Dashboard{}, ErrNotFound
	}
	return d, nil
}

func (m *Memory) ListDashboards(_ context.Context, owner string) ([]model.Dashboard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Dashboard, 0)
	for k, d := range m.dashboards {
		if k.owner == owner {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) || (out[i].CreatedAt.Equal(out[j].CreatedAt) && out[i].ID < out[j].ID) })
	return out, nil
}

func (m *Memory) UpdateDashboard(_ context.Context, d *model.Dashboard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key{d.OwnerID, d.ID}
	old, ok := m.dashboards[k]
	if !ok {
		return ErrNotFound
	}
	d.CreatedAt, d.UpdatedAt = old.CreatedAt, nowUTC()
	m.dashboards[k] = *d
	return nil
}

func (m *Memory) DeleteDashboard(_ context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key{owner, id}
	if _, ok := m.dashboards[k]; !ok {
		return ErrNotFound
	}
	delete(m.dashboards, k)
	for wk, w := range m.widgets {
		if wk.owner == owner && w.DashboardID == id {
			delete(m.widgets, wk)
		}
	}
	return nil
}

// ------------------- widgets -------------------

func (m *Memory) CreateWidget(_ context.Context, w *model.Widget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.dashboards[key{w.OwnerID, w.DashboardID}]; !ok {
		return ErrNotFound
	}
	stamp(&w.ID, &w.CreatedAt, &w.UpdatedAt, nowUTC())
	k := key{w.OwnerID, w.ID}
	if _, ok := m.widgets[k]; ok {
		return fmt.Errorf("widget %s already exists", w.ID)
	}
	m.widgets[k] = *w
	return nil
}

func (m *Memory) GetWidget(_ context.Context, owner, id string) (model.Widget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.widgets[key{owner, id}]
	if !ok {
		return model.Widget{}, ErrNotFound
	}
	return w, nil
}

func (m *Memory) ListWidgets(_ context.Context, owner, dashboardID string) ([]model.Widget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Widget, 0)
	for k, w := range m.widgets {
		if k.owner == owner && w.DashboardID == dashboardID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) || (out[i].CreatedAt.Equal(out[j].CreatedAt) && out[i].ID < out[j].ID) })
	return out, nil
}

func (m *Memory) UpdateWidget(_ context.Context, w *model.Widget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key{w.OwnerID, w.ID}
	old, ok := m.widgets[k]
	if !ok {
		return ErrNotFound
	}
	w.DashboardID = old.DashboardID
	w.CreatedAt, w.UpdatedAt = old.CreatedAt, nowUTC()
	m.widgets[k] = *w
	return nil
}

func (m *Memory) DeleteWidget(_ context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key{owner, id}
	if _, ok := m.widgets[k]; !ok {
		return ErrNotFound
	}
	delete(m.widgets, k)
	return nil
}
