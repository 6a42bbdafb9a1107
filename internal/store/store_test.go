package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"dashboard-pipeline/internal/model"
)

func newSQLStore(tb testing.TB) *SQL {
	tb.Helper()
	s, err := Open(context.Background(), "sqlite", ":memory:")
	if err != nil {
		tb.Fatalf("open sqlite :memory:: %v", err)
	}
	tb.Cleanup(func() { _ = s.Close() })
	return s
}

// forEachStore runs fn against every Store implementation.
func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) {
		t.Parallel()
		fn(t, NewMemory())
	})
	t.Run("sql", func(t *testing.T) {
		t.Parallel()
		fn(t, newSQLStore(t))
	})
}

func TestSources_CRUDScopedByOwner(t *testing.T) {
	t.Parallel()

	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		ds := &model.DataSource{
			OwnerID: "alice",
			Name:    "sales api",
			Config: model.SourceConfig{
				Kind:    model.KindAPI,
				URL:     "https://example.com/sales",
				Headers: map[string]model.HeaderValue{"Authorization": model.SecretRef("SALES_TOKEN")},
			},
		}
		if err := s.CreateSource(ctx, ds); err != nil {
			t.Fatalf("CreateSource: %v", err)
		}
		if ds.ID == "" || ds.CreatedAt.IsZero() {
			t.Fatalf("id/timestamps not set: %+v", ds)
		}

		got, err := s.GetSource(ctx, "alice", ds.ID)
		if err != nil {
			t.Fatalf("GetSource: %v", err)
		}
		if got.Name != "sales api" || got.Config.Headers["Authorization"].Secret != "SALES_TOKEN" {
			t.Fatalf("got %+v", got)
		}
		if !got.CreatedAt.Equal(ds.CreatedAt) {
			t.Fatalf("created_at: got %v, want %v", got.CreatedAt, ds.CreatedAt)
		}

		if _, err := s.GetSource(ctx, "mallory", ds.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("foreign get: got %v, want ErrNotFound", err)
		}
		if err := s.DeleteSource(ctx, "mallory", ds.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("foreign delete: got %v, want ErrNotFound", err)
		}
		if list, _ := s.ListSources(ctx, "mallory"); len(list) != 0 {
			t.Fatalf("foreign list: got %d", len(list))
		}

		upd := &model.DataSource{ID: ds.ID, OwnerID: "alice", Name: "renamed", Config: model.SourceConfig{Kind: model.KindStatic, DataType: "users"}}
		if err := s.UpdateSource(ctx, upd); err != nil {
			t.Fatalf("UpdateSource: %v", err)
		}
		if !upd.CreatedAt.Equal(ds.CreatedAt) || upd.Name != "renamed" {
			t.Fatalf("update: got %+v", upd)
		}
		if err := s.UpdateSource(ctx, &model.DataSource{ID: ds.ID, OwnerID: "mallory"}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("foreign update: got %v, want ErrNotFound", err)
		}

		list, err := s.ListSources(ctx, "alice")
		if err != nil || len(list) != 1 || list[0].Config.DataType != "users" {
			t.Fatalf("list: got %+v, %v", list, err)
		}

		if err := s.DeleteSource(ctx, "alice", ds.ID); err != nil {
			t.Fatalf("DeleteSource: %v", err)
		}
		if _, err := s.GetSource(ctx, "alice", ds.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("after delete: got %v, want ErrNotFound", err)
		}
	})
}

func TestDashboardsAndWidgets(t *testing.T) {
	t.Parallel()

	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		d := &model.Dashboard{OwnerID: "alice", Name: "Ops", Layout: json.RawMessage(`{"cols":12}`)}
		if err := s.CreateDashboard(ctx, d); err != nil {
			t.Fatalf("CreateDashboard: %v", err)
		}

		w := &model.Widget{
			OwnerID:      "alice",
			DashboardID:  d.ID,
			DataSourceID: "src-1",
			Kind:         model.WidgetChart,
			Title:        "Revenue",
			Transform: model.TransformConfig{
				Filters: []model.Filter{{Column: "region", Operator: model.OpEquals, Value: "North"}},
				GroupBy: "product",
			},
		}
		if err := s.CreateWidget(ctx, w); err != nil {
			t.Fatalf("CreateWidget: %v", err)
		}
		other := &model.Widget{OwnerID: "alice", DashboardID: d.ID, DataSourceID: "src-2", Kind: model.WidgetTable, Title: "Raw"}
		if err := s.CreateWidget(ctx, other); err != nil {
			t.Fatalf("CreateWidget: %v", err)
		}

		if err := s.CreateWidget(ctx, &model.Widget{OwnerID: "mallory", DashboardID: d.ID, Kind: model.WidgetTable}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("widget on foreign dashboard: got %v, want ErrNotFound", err)
		}

		gotD, err := s.GetDashboard(ctx, "alice", d.ID)
		if err != nil || string(gotD.Layout) != `{"cols":12}` {
			t.Fatalf("GetDashboard: %+v, %v", gotD, err)
		}

		ws, err := s.ListWidgets(ctx, "alice", d.ID)
		if err != nil || len(ws) != 2 {
			t.Fatalf("ListWidgets: got %d, %v", len(ws), err)
		}
		gotW, err := s.GetWidget(ctx, "alice", w.ID)
		if err != nil {
			t.Fatalf("GetWidget: %v", err)
		}
		if gotW.Transform.GroupBy != "product" || len(gotW.Transform.Filters) != 1 || gotW.Transform.Filters[0].Value != "North" {
			t.Fatalf("transform not preserved: %+v", gotW.Transform)
		}

		gotW.Title = "Revenue by product"
		if err := s.UpdateWidget(ctx, &gotW); err != nil || gotW.Title != "Revenue by product" {
			t.Fatalf("UpdateWidget: %+v, %v", gotW, err)
		}

		d.Name = "Operations"
		if err := s.UpdateDashboard(ctx, d); err != nil || d.Name != "Operations" {
			t.Fatalf("UpdateDashboard: %+v, %v", d, err)
		}
		if ds, _ := s.ListDashboards(ctx, "alice"); len(ds) != 1 {
			t.Fatalf("ListDashboards: got %d, want 1", len(ds))
		}

		if err := s.DeleteWidget(ctx, "alice", other.ID); err != nil {
			t.Fatalf("DeleteWidget: %v", err)
		}
		if err := s.DeleteDashboard(ctx, "alice", d.ID); err != nil {
			t.Fatalf("DeleteDashboard: %v", err)
		}
		if _, err := s.GetWidget(ctx, "alice", w.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("widget should go with its dashboard: %v", err)
		}
		if err := s.DeleteDashboard(ctx, "alice", d.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("second delete: got %v, want ErrNotFound", err)
		}
	})
}

func TestSQL_Rebind(t *testing.T) {
	t.Parallel()

	pg := &SQL{driver: "pgx"}
	if got := pg.rebind("a = ? AND b = ?"); got != "a = $1 AND b = $2" {
		t.Fatalf("pgx: got %q", got)
	}
	lite := &SQL{driver: "sqlite"}
	if got := lite.rebind("a = ?"); got != "a = ?" {
		t.Fatalf("sqlite: got %q", got)
	}
}

func TestOpen_ReopenIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newSQLStore(t)
	if err := s.migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}
