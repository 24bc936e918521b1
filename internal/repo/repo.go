// Package repo is the Postgres layer: one interface plus pgx implementation
// per table, holding SQL and row mapping only.
package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is what the repos need from pgx. *pgxpool.Pool and pgx.Tx both satisfy
// it; tests hand in a transaction that testutil rolls back.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner lets one scan function serve pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres unique constraint failure,
// such as a second signup with the same email.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
