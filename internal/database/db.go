package database

import (
	"context"
	"database/sql"
)

// Querier is what the posting, profile and user repositories run their SQL
// through. Both the pool and an open transaction satisfy it.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
}

// DB is the pgx pool handed out by the container. SQLDB exposes the same pool
// through database/sql for the migration runner.
type DB interface {
	Querier

	Ping(ctx context.Context) error
	Close() error
	Begin(ctx context.Context) (Tx, error)
	SQLDB() *sql.DB
}

// Tx is used by the seeders so a demo data group lands all at once.
type Tx interface {
	Querier

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Rows interface {
	Row
	Close()
	Next() bool
	Err() error
}

type Row interface {
	Scan(dest ...any) error
}
