package seeder

import (
	"context"
	"errors"
	"fmt"

	"creatorhub/internal/database"
)

var ErrSchemaMismatch = errors.New("schema mismatch, run migrations first")

// seededColumns lists what the demo inserts write, per table.
var seededColumns = map[string][]string{
	"users":        {"id", "email", "password_hash"},
	"profiles":     {"user_id", "username", "account_kind", "country"},
	"job_postings": {"id", "slug", "title", "description", "has_deadline", "deadline_date", "deadline_time", "profile_id"},
}

// RequireTables checks that each table exists with the columns the seeders
// write, so a stale database fails before any row is inserted.
func RequireTables(ctx context.Context, db database.Querier, tables ...string) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	for _, table := range tables {
		want, ok := seededColumns[table]
		if !ok {
			return fmt.Errorf("seeder: unknown table %q", table)
		}
		have, err := tableColumns(ctx, db, table)
		if err != nil {
			return fmt.Errorf("read %s columns: %w", table, err)
		}
		for _, col := range want {
			if _, ok := have[col]; !ok {
				return fmt.Errorf("%w: %s.%s is missing", ErrSchemaMismatch, table, col)
			}
		}
	}
	return nil
}

func tableColumns(ctx context.Context, db database.Querier, table string) (map[string]struct{}, error) {
	rows, err := db.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema = 'public' AND table_name = $1`,
		table,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]struct{}{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out[c] = struct{}{}
	}
	return out, rows.Err()
}
