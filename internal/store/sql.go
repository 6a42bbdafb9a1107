package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"dashboard-pipeline/internal/model"
)

// migrations run in order on every Open. Types are chosen to work unchanged
// on SQLite, Postgres and MySQL; times are stored as UTC text.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS data_sources (
		owner_id   VARCHAR(128) NOT NULL,
		id         VARCHAR(64)  NOT NULL,
		name       TEXT         NOT NULL,
		config     TEXT         NOT NULL,
		created_at VARCHAR(40)  NOT NULL,
		updated_at VARCHAR(40)  NOT NULL,
		PRIMARY KEY (owner_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS dashboards (
		owner_id    VARCHAR(128) NOT NULL,
		id          VARCHAR(64)  NOT NULL,
		name        TEXT         NOT NULL,
		description TEXT         NOT NULL,
		layout      TEXT         NOT NULL,
		created_at  VARCHAR(40)  NOT NULL,
		updated_at  VARCHAR(40)  NOT NULL,
		PRIMARY KEY (owner_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS widgets (
		owner_id       VARCHAR(128) NOT NULL,
		id             VARCHAR(64)  NOT NULL,
		dashboard_id   VARCHAR(64)  NOT NULL,
		data_source_id VARCHAR(64)  NOT NULL,
		kind           VARCHAR(32)  NOT NULL,
		title          TEXT         NOT NULL,
		transform      TEXT         NOT NULL,
		layout         TEXT         NOT NULL,
		created_at     VARCHAR(40)  NOT NULL,
		updated_at     VARCHAR(40)  NOT NULL,
		PRIMARY KEY (owner_id, id)
	)`,
}

// SQL is a Store over database/sql.
type SQL struct {
	db     *sql.DB
	driver string
}

var _ Store = (*SQL)(nil)

// Open connects with driver ("sqlite3", "sqlite", "pgx" or "mysql"), pings
// the database and applies migrations.
func Open(ctx context.Context, driver, dsn string) (*SQL, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", driver, err)
	}
	if strings.Contains(dsn, ":memory:") {
		// Each connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", driver, err)
	}

	s := &SQL{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQL) Close() error { return s.db.Close() }

func (s *SQL) migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: migration %d: %w", i+1, err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders as $1, $2, ... for Postgres.
func (s *SQL) rebind(q string) string {
	if s.driver != "pgx" {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQL) exec(ctx context.Context, q string, args ...interface{}) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.rebind(q), args...)
}

// execOne runs a statement that must touch exactly one row.
func (s *SQL) execOne(ctx context.Context, q string, args ...interface{}) error {
	res, err := s.exec(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// tsLayout is fixed width so text order matches time order.
const tsLayout = "2006-01-02T15:04:05.000000Z07:00"

func fmtTime(t time.Time) string { return t.UTC().Format(tsLayout) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(tsLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("store: bad timestamp %q: %w", s, err)
	}
	return t, nil
}

func rawText(r json.RawMessage) string {
	if len(r) == 0 {
		return ""
	}
	return string(r)
}

func textRaw(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// ------------------- data sources -------------------

const sourceCols = `owner_id, id, name, config, created_at, updated_at`

func (s *SQL) CreateSource(ctx context.Context, ds *model.DataSource) error {
	stamp(&ds.ID, &ds.CreatedAt, &ds.UpdatedAt, nowUTC())
	cfg, err := json.Marshal(ds.Config)
	if err != nil {
		return fmt.Errorf("store: encode source config: %w", err)
	}
	_, err = s.exec(ctx, `INSERT INTO data_sources (`+sourceCols+`) VALUES (?, ?, ?, ?, ?, ?)`,
		ds.OwnerID, ds.ID, ds.Name, string(cfg), fmtTime(ds.CreatedAt), fmtTime(ds.UpdatedAt))
	if err != nil {
		return fmt.Errorf("store: insert data source: %w", err)
	}
	return nil
}

type scanner interface{ Scan(dest ...interface{}) error }

func scanSource(sc scanner) (model.DataSource, error) {
	var ds model.DataSource
	var cfg, created, updated string
	if err := sc.Scan(&ds.OwnerID, &ds.ID, &ds.Name, &cfg, &created, &updated); err != nil {
		return model.DataSource{}, err
	}
	if err := json.Unmarshal([]byte(cfg), &ds.Config); err != nil {
		return model.DataSource{}, fmt.Errorf("store: decode source config %s: %w", ds.ID, err)
	}
	var err error
	if ds.CreatedAt, err = parseTime(created); err != nil {
		return model.DataSource{}, err
	}
	if ds.UpdatedAt, err = parseTime(updated); err != nil {
		return model.DataSource{}, err
	}
	return ds, nil
}

func (s *SQL) GetSource(ctx context.Context, owner, id string) (model.DataSource, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+sourceCols+` FROM data_sources WHERE owner_id = ? AND id = ?`), owner, id)
	ds, err := scanSource(row)
	if err != nil {
		return model.DataSource{}, notFound(err)
	}
	return ds, nil
}

func (s *SQL) ListSources(ctx context.Context, owner string) ([]model.DataSource, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT `+sourceCols+` FROM data_sources WHERE owner_id = ? ORDER BY created_at, id`), owner)
	if err != nil {
		return nil, fmt.Errorf("store: list data sources: %w", err)
	}
	defer rows.Close()

	out := make([]model.DataSource, 0)
	for rows.Next() {
		ds, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}

func (s *SQL) UpdateSource(ctx context.Context, ds *model.DataSource) error {
	cfg, err := json.Marshal(ds.Config)
	if err != nil {
		return fmt.Errorf("store: encode source config: %w", err)
	}
	ds.UpdatedAt = nowUTC()
	if err := s.execOne(ctx, `UPDATE data_sources SET name = ?, config = ?, updated_at = ? WHERE owner_id = ? AND id = ?`,
		ds.Name, string(cfg), fmtTime(ds.UpdatedAt), ds.OwnerID, ds.ID); err != nil {
		return err
	}
	fresh, err := s.GetSource(ctx, ds.OwnerID, ds.ID)
	if err != nil {
		return err
	}
	*ds = fresh
	return nil
}

func (s *SQL) DeleteSource(ctx context.Context, owner, id string) error {
	return s.execOne(ctx, `DELETE FROM data_sources WHERE owner_id = ? AND id = ?`, owner, id)
}

// ------------------- dashboards -------------------

const dashboardCols = `owner_id, id, name, description, layout, created_at, updated_at`

func (s *SQL) CreateDashboard(ctx context.Context, d *model.Dashboard) error {
	stamp(&d.ID, &d.CreatedAt, &d.UpdatedAt, nowUTC())
	_, err := s.exec(ctx, `INSERT INTO dashboards (`+dashboardCols+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.OwnerID, d.ID, d.Name, d.Description, rawText(d.Layout), fmtTime(d.CreatedAt), fmtTime(d.UpdatedAt))
	if err != nil {
		return fmt.Errorf("store: insert dashboard: %w", err)
	}
	return nil
}

func scanDashboard(sc scanner) (model.Dashboard, error) {
	var d model.Dashboard
	var layout, created, updated string
	if err := sc.Scan(&d.OwnerID, &d.ID, &d.Name, &d.Description, &layout, &created, &updated); err != nil {
		return model.Dashboard{}, err
	}
	d.Layout = textRaw(layout)
	var err error
	if d.CreatedAt, err = parseTime(created); err != nil {
		return model.Dashboard{}, err
	}
	if d.UpdatedAt, err = parseTime(updated); err != nil {
		return model.Dashboard{}, err
	}
	return d, nil
}

func (s *SQL) GetDashboard(ctx context.Context, owner, id string) (model.Dashboard, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+dashboardCols+` FROM dashboards WHERE owner_id = ? AND id = ?`), owner, id)
	d, err := scanDashboard(row)
	if err != nil {
		return model.Dashboard{}, notFound(err)
	}
	return d, nil
}

func (s *SQL) ListDashboards(ctx context.Context, owner string) ([]model.Dashboard, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT `+dashboardCols+` FROM dashboards WHERE owner_id = ? ORDER BY created_at, id`), owner)
	if err != nil {
		return nil, fmt.Errorf("store: list dashboards: %w", err)
	}
	defer rows.Close()

	out := make([]model.Dashboard, 0)
	for rows.Next() {
		d, err := scanDashboard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQL) UpdateDashboard(ctx context.Context, d *model.Dashboard) error {
	d.UpdatedAt = nowUTC()
	if err := s.execOne(ctx, `UPDATE dashboards SET name = ?, description = ?, layout = ?, updated_at = ? WHERE owner_id = ? AND id = ?`,
		d.Name, d.Description, rawText(d.Layout), fmtTime(d.UpdatedAt), d.OwnerID, d.ID); err != nil {
		return err
	}
	fresh, err := s.GetDashboard(ctx, d.OwnerID, d.ID)
	if err != nil {
		return err
	}
	*d = fresh
	return nil
}

func (s *SQL) DeleteDashboard(ctx context.Context, owner, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM widgets WHERE owner_id = ? AND dashboard_id = ?`), owner, id); err != nil {
		return fmt.Errorf("store: delete widgets: %w", err)
	}
	res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM dashboards WHERE owner_id = ? AND id = ?`), owner, id)
	if err != nil {
		return fmt.Errorf("store: delete dashboard: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// ------------------- widgets -------------------

const widgetCols = `owner_id, id, dashboard_id, data_source_id, kind, title, transform, layout, created_at, updated_at`

func (s *SQL) CreateWidget(ctx context.Context, w *model.Widget) error {
	if _, err := s.GetDashboard(ctx, w.OwnerID, w.DashboardID); err != nil {
		return err
	}
	stamp(&w.ID, &w.CreatedAt, &w.UpdatedAt, nowUTC())
	tr, err := json.Marshal(w.Transform)
	if err != nil {
		return fmt.Errorf("store: encode transform: %w", err)
	}
	_, err = s.exec(ctx, `INSERT INTO widgets (`+widgetCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.OwnerID, w.ID, w.DashboardID, w.DataSourceID, w.Kind, w.Title, string(tr), rawText(w.Layout),
		fmtTime(w.CreatedAt), fmtTime(w.UpdatedAt))
	if err != nil {
		return fmt.Errorf("store: insert widget: %w", err)
	}
	return nil
}

func scanWidget(sc scanner) (model.Widget, error) {
	var w model.Widget
	var tr, layout, created, updated string
	if err := sc.Scan(&w.OwnerID, &w.ID, &w.DashboardID, &w.DataSourceID, &w.Kind, &w.Title, &tr, &layout, &created, &updated); err != nil {
		return model.Widget{}, err
	}
	if err := json.Unmarshal([]byte(tr), &w.Transform); err != nil {
		return model.Widget{}, fmt.Errorf("store: decode transform %s: %w", w.ID, err)
	}
	w.Layout = textRaw(layout)
	var err error
	if w.CreatedAt, err = parseTime(created); err != nil {
		return model.Widget{}, err
	}
	if w.UpdatedAt, err = parseTime(updated); err != nil {
		return model.Widget{}, err
	}
	return w, nil
}

func (s *SQL) GetWidget(ctx context.Context, owner, id string) (model.Widget, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+widgetCols+` FROM widgets WHERE owner_id = ? AND id = ?`), owner, id)
	w, err := scanWidget(row)
	if err != nil {
		return model.Widget{}, notFound(err)
	}
	return w, nil
}

func (s *SQL) ListWidgets(ctx context.Context, owner, dashboardID string) ([]model.Widget, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT `+widgetCols+` FROM widgets WHERE owner_id = ? AND dashboard_id = ? ORDER BY created_at, id`), owner, dashboardID)
	if err != nil {
		return nil, fmt.Errorf("store: list widgets: %w", err)
	}
	defer rows.Close()

	out := make([]model.Widget, 0)
	for rows.Next() {
		w, err := scanWidget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *SQL) UpdateWidget(ctx context.Context, w *model.Widget) error {
	tr, err := json.Marshal(w.Transform)
	if err != nil {
		return fmt.Errorf("store: encode transform: %w", err)
	}
	w.UpdatedAt = nowUTC()
	if err := s.execOne(ctx, `UPDATE widgets SET data_source_id = ?, kind = ?, title = ?, transform = ?, layout = ?, updated_at = ? WHERE owner_id = ? AND id = ?`,
		w.DataSourceID, w.Kind, w.Title, string(tr), rawText(w.Layout), fmtTime(w.UpdatedAt), w.OwnerID, w.ID); err != nil {
		return err
	}
	fresh, err := s.GetWidget(ctx, w.OwnerID, w.ID)
	if err != nil {
		return err
	}
	*w = fresh
	return nil
}

func (s *SQL) DeleteWidget(ctx context.Context, owner, id string) error {
	return s.execOne(ctx, `DELETE FROM widgets WHERE owner_id = ? AND id = ?`, owner, id)
}
