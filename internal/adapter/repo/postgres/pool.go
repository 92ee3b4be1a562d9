// Package postgres provides PostgreSQL database adapters for the matching
// core's read-only entity and sentence stores.
//
// Nothing in the scoring path writes; all repositories here are readers
// over rows populated by external ingestion and the sentence-backfill job
// (see internal/domain's Lifecycle note).
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is a minimal subset of pgxpool used by the repos for easy testing.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}
