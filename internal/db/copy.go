package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// CopyFrom bulk-inserts rows into a table using PostgreSQL COPY protocol.
func CopyFrom(ctx context.Context, c Copier, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	n, err := c.CopyFrom(ctx, identifier(table), columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, eris.Wrapf(err, "db: COPY INTO %s", table)
	}

	return n, nil
}

// ReplaceTable swaps the full contents of table for rows in one transaction:
// DELETE every existing row, then COPY the new ones. An empty rows slice
// leaves the table empty.
func ReplaceTable(ctx context.Context, pool Pool, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, eris.New("db: replace: no columns specified")
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: replace: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, "DELETE FROM "+identifier(table).Sanitize()); err != nil {
		return 0, eris.Wrapf(err, "db: replace: clear %s", table)
	}

	n, err := CopyFrom(ctx, tx, table, columns, rows)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: replace: commit tx")
	}
	return n, nil
}

// identifier handles schema-qualified table names like "scorecard.attributions".
func identifier(table string) pgx.Identifier {
	parts := strings.SplitN(table, ".", 2)
	return pgx.Identifier(parts)
}
