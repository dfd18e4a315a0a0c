package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/dealer-scorecard/internal/db"
	"github.com/sells-group/dealer-scorecard/internal/model"
	"github.com/sells-group/dealer-scorecard/internal/resilience"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	// A configured server that does not answer yet is worth retrying.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, resilience.NewTransientError(eris.Wrap(err, "postgres: ping"))
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS attributions (
	dealer_name      TEXT PRIMARY KEY,
	city             TEXT NOT NULL,
	business_manager TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS report_csv (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	manager     TEXT NOT NULL,
	report_type TEXT NOT NULL,
	csv         TEXT NOT NULL,
	uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (manager, report_type)
);

CREATE TABLE IF NOT EXISTS report_snapshots (
	manager     TEXT NOT NULL,
	report_type TEXT NOT NULL,
	report      JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (manager, report_type)
);

CREATE INDEX IF NOT EXISTS idx_attributions_manager ON attributions(business_manager);
`

var attributionColumns = []string{"dealer_name", "city", "business_manager"}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// ReplaceAttribution swaps the whole attribution table in one transaction.
func (s *PostgresStore) ReplaceAttribution(ctx context.Context, m model.AttributionMap) error {
	_, err := db.ReplaceTable(ctx, s.pool, "attributions", attributionColumns, attributionRows(m))
	return eris.Wrap(err, "postgres: replace attributions")
}

func (s *PostgresStore) LoadAttribution(ctx context.Context) (model.AttributionMap, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT dealer_name, city, business_manager FROM attributions`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load attributions")
	}
	defer rows.Close()

	m := make(model.AttributionMap)
	for rows.Next() {
		a, err := scanAttribution(rows)
		if err != nil {
			return nil, err
		}
		m[a.DealerName] = a
	}
	return m, eris.Wrap(rows.Err(), "postgres: iterate attributions")
}

func (s *PostgresStore) SaveReportCSV(ctx context.Context, manager string, rt model.ReportType, csv string) (*model.ReportUpload, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO report_csv (id, manager, report_type, csv, uploaded_at) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (manager, report_type) DO UPDATE SET id = EXCLUDED.id, csv = EXCLUDED.csv, uploaded_at = EXCLUDED.uploaded_at`,
		id, manager, string(rt), csv, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: save %s csv for %s", rt, manager)
	}

	return &model.ReportUpload{
		ID:         id,
		Manager:    manager,
		ReportType: rt,
		CSV:        csv,
		UploadedAt: now,
	}, nil
}

func (s *PostgresStore) GetReportCSV(ctx context.Context, manager string, rt model.ReportType) (*model.ReportUpload, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, manager, report_type, csv, uploaded_at FROM report_csv WHERE manager = $1 AND report_type = $2`,
		manager, string(rt),
	)
	u, err := scanUpload(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get report csv")
	}
	return u, nil
}

func (s *PostgresStore) SaveSnapshot(ctx context.Context, snap *model.Snapshot) error {
	data, err := json.Marshal(snap.Report)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal snapshot")
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO report_snapshots (manager, report_type, report, created_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (manager, report_type) DO UPDATE SET report = EXCLUDED.report, created_at = EXCLUDED.created_at`,
		snap.Manager, string(snap.ReportType), data, snap.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: save snapshot for %s", snap.Manager)
}

func (s *PostgresStore) GetSnapshot(ctx context.Context, manager string, rt model.ReportType) (*model.Snapshot, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT manager, report_type, report::text, created_at FROM report_snapshots WHERE manager = $1 AND report_type = $2`,
		manager, string(rt),
	)
	snap, err := scanSnapshot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get snapshot")
	}
	return snap, nil
}
