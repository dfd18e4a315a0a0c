package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/dealer-scorecard/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS attributions (
	dealer_name      TEXT PRIMARY KEY,
	city             TEXT NOT NULL,
	business_manager TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS report_csv (
	id          TEXT PRIMARY KEY,
	manager     TEXT NOT NULL,
	report_type TEXT NOT NULL,
	csv         TEXT NOT NULL,
	uploaded_at DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (manager, report_type)
);

CREATE TABLE IF NOT EXISTS report_snapshots (
	manager     TEXT NOT NULL,
	report_type TEXT NOT NULL,
	report      TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (manager, report_type)
);

CREATE INDEX IF NOT EXISTS idx_attributions_manager ON attributions(business_manager);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ReplaceAttribution swaps the whole attribution table in one transaction.
func (s *SQLiteStore) ReplaceAttribution(ctx context.Context, m model.AttributionMap) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM attributions`); err != nil {
		return eris.Wrap(err, "sqlite: clear attributions")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO attributions (dealer_name, city, business_manager) VALUES (?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare attribution insert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, row := range attributionRows(m) {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return eris.Wrapf(err, "sqlite: insert attribution %v", row[0])
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit attributions")
}

func (s *SQLiteStore) LoadAttribution(ctx context.Context) (model.AttributionMap, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT dealer_name, city, business_manager FROM attributions`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load attributions")
	}
	defer rows.Close() //nolint:errcheck

	m := make(model.AttributionMap)
	for rows.Next() {
		a, err := scanAttribution(rows)
		if err != nil {
			return nil, err
		}
		m[a.DealerName] = a
	}
	return m, eris.Wrap(rows.Err(), "sqlite: iterate attributions")
}

func (s *SQLiteStore) SaveReportCSV(ctx context.Context, manager string, rt model.ReportType, csv string) (*model.ReportUpload, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO report_csv (id, manager, report_type, csv, uploaded_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (manager, report_type) DO UPDATE SET id = excluded.id, csv = excluded.csv, uploaded_at = excluded.uploaded_at`,
		id, manager, string(rt), csv, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: save %s csv for %s", rt, manager)
	}

	return &model.ReportUpload{
		ID:         id,
		Manager:    manager,
		ReportType: rt,
		CSV:        csv,
		UploadedAt: now,
	}, nil
}

func (s *SQLiteStore) GetReportCSV(ctx context.Context, manager string, rt model.ReportType) (*model.ReportUpload, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, manager, report_type, csv, uploaded_at FROM report_csv WHERE manager = ? AND report_type = ?`,
		manager, string(rt),
	)
	u, err := scanUpload(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get report csv")
	}
	return u, nil
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap *model.Snapshot) error {
	data, err := json.Marshal(snap.Report)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal snapshot")
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO report_snapshots (manager, report_type, report, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (manager, report_type) DO UPDATE SET report = excluded.report, created_at = excluded.created_at`,
		snap.Manager, string(snap.ReportType), string(data), snap.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: save snapshot for %s", snap.Manager)
}

func (s *SQLiteStore) GetSnapshot(ctx context.Context, manager string, rt model.ReportType) (*model.Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT manager, report_type, report, created_at FROM report_snapshots WHERE manager = ? AND report_type = ?`,
		manager, string(rt),
	)
	snap, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get snapshot")
	}
	return snap, nil
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanAttribution(row scannable) (model.DealerAttribution, error) {
	var a model.DealerAttribution
	if err := row.Scan(&a.DealerName, &a.City, &a.BusinessManager); err != nil {
		return a, eris.Wrap(err, "scan attribution")
	}
	return a, nil
}

func scanUpload(row scannable) (*model.ReportUpload, error) {
	var u model.ReportUpload
	var rt string
	if err := row.Scan(&u.ID, &u.Manager, &rt, &u.CSV, &u.UploadedAt); err != nil {
		return nil, err
	}
	u.ReportType = model.ReportType(rt)
	return &u, nil
}

func scanSnapshot(row scannable) (*model.Snapshot, error) {
	var snap model.Snapshot
	var rt, data string
	if err := row.Scan(&snap.Manager, &rt, &data, &snap.CreatedAt); err != nil {
		return nil, err
	}
	snap.ReportType = model.ReportType(rt)
	snap.Report = model.NewCityReport()
	if err := json.Unmarshal([]byte(data), snap.Report); err != nil {
		return nil, eris.Wrap(err, "unmarshal snapshot report")
	}
	return &snap, nil
}
