// Package store implements Postgres data access for users, messages,
// message analyses, and mood alerts. Stores speak in model types; the SQL
// stays inside this package.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the querying surface stores run on. Both *pgxpool.Pool and pgx.Tx
// satisfy it, so the same store code works inside and outside transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
