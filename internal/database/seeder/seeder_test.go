package seeder

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"creatorhub/internal/database"
)

type execCall struct {
	query string
	args  []any
}

// fakeDB answers the information_schema lookup with columns and records every
// Exec made inside a transaction.
type fakeDB struct {
	columns   []string
	execs     []execCall
	committed bool
	execErr   error
}

func (f *fakeDB) Ping(context.Context) error { return nil }
func (f *fakeDB) Close() error               { return nil }
func (f *fakeDB) SQLDB() *sql.DB             { return nil }

func (f *fakeDB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if f.execErr != nil {
		return 0, f.execErr
	}
	f.execs = append(f.execs, execCall{query: query, args: args})
	return 1, nil
}

func (f *fakeDB) Query(context.Context, string, ...any) (database.Rows, error) {
	return &fakeRows{values: f.columns, i: -1}, nil
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) database.Row { return nil }

func (f *fakeDB) Begin(context.Context) (database.Tx, error) { return fakeTx{f}, nil }

type fakeTx struct{ db *fakeDB }

func (t fakeTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return t.db.Exec(ctx, query, args...)
}
func (t fakeTx) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return t.db.Query(ctx, query, args...)
}
func (t fakeTx) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return t.db.QueryRow(ctx, query, args...)
}
func (t fakeTx) Commit(context.Context) error   { t.db.committed = true; return nil }
func (t fakeTx) Rollback(context.Context) error { return nil }

type fakeRows struct {
	values []string
	i      int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Next() bool {
	r.i++
	return r.i < len(r.values)
}
func (r *fakeRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.values[r.i]
	return nil
}

var allColumns = []string{
	"id", "email", "password_hash", "user_id", "username", "account_kind", "country",
	"slug", "title", "description", "has_deadline", "deadline_date", "deadline_time", "profile_id",
}

type namedSeeder struct {
	name string
	err  error
	ran  *[]string
}

func (s namedSeeder) Name() string { return s.name }
func (s namedSeeder) Run(context.Context, database.DB) error {
	*s.ran = append(*s.ran, s.name)
	return s.err
}

func TestRunner_OrderAndErrors(t *testing.T) {
	var ran []string
	boom := errors.New("boom")
	r := Runner{Seeders: []Seeder{
		namedSeeder{name: "a", ran: &ran},
		nil,
		namedSeeder{name: "b", err: boom, ran: &ran},
		namedSeeder{name: "c", ran: &ran},
	}}

	err := r.Run(context.Background(), &fakeDB{})
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "seed b") {
		t.Fatalf("expected wrapped error from b, got %v", err)
	}
	if strings.Join(ran, ",") != "a,b" {
		t.Fatalf("seeders after a failure must not run, ran %v", ran)
	}

	if err := r.Run(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil db")
	}
}

func TestRequireTables(t *testing.T) {
	db := &fakeDB{columns: []string{"id", "email"}}
	err := RequireTables(context.Background(), db, "users")
	if !errors.Is(err, ErrSchemaMismatch) || !strings.Contains(err.Error(), "users.password_hash") {
		t.Fatalf("expected missing column error, got %v", err)
	}

	if err := RequireTables(context.Background(), &fakeDB{columns: allColumns}, "users", "profiles", "job_postings"); err != nil {
		t.Fatalf("expected full schema to pass, got %v", err)
	}
	if err := RequireTables(context.Background(), &fakeDB{columns: allColumns}, "skills"); err == nil {
		t.Fatal("expected unknown table to be rejected")
	}

	if err := (AccountsSeeder{Password: "demo-password"}).Run(context.Background(), db); !errors.Is(err, ErrSchemaMismatch) || len(db.execs) != 0 {
		t.Fatalf("seeder must stop before inserting on a stale schema, got %v", err)
	}
}

func TestAccountsSeeder(t *testing.T) {
	if err := (AccountsSeeder{Password: "short"}).Run(context.Background(), &fakeDB{columns: allColumns}); err == nil {
		t.Fatal("expected short password to be rejected")
	}

	db := &fakeDB{columns: allColumns}
	if err := (AccountsSeeder{Password: "demo-password"}).Run(context.Background(), db); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(db.execs) != 2*len(demoAccounts) || !db.committed {
		t.Fatalf("expected a user and a profile insert per account, got %d", len(db.execs))
	}
	hash, _ := db.execs[0].args[1].(string)
	if hash == "" || hash == "demo-password" {
		t.Fatal("password must be stored hashed")
	}
}

func TestPostingsSeeder(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	db := &fakeDB{columns: allColumns}
	if err := (PostingsSeeder{Now: func() time.Time { return now }}).Run(context.Background(), db); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(db.execs) != len(demoPostings) || !db.committed {
		t.Fatalf("expected one insert per posting, got %d", len(db.execs))
	}

	for i, call := range db.execs {
		p := demoPostings[i]
		slug := call.args[0].(string)
		if !strings.HasPrefix(slug, listingPrefix(p.Title)) {
			t.Fatalf("slug %q does not derive from %q", slug, p.Title)
		}
		hasDeadline := call.args[3].(bool)
		if hasDeadline != (p.DeadlineIn != 0) {
			t.Fatalf("posting %q: has_deadline %v", p.Title, hasDeadline)
		}
		if !hasDeadline && call.args[4] != nil {
			t.Fatalf("posting %q: open-ended posting must have a NULL date", p.Title)
		}
	}

	expired := db.execs[1].args[4].(time.Time)
	if !expired.Equal(time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected expired date %v", expired)
	}
}

func TestPostingsSeeder_ExecError(t *testing.T) {
	db := &fakeDB{columns: allColumns, execErr: errors.New("insert failed")}
	if err := (PostingsSeeder{}).Run(context.Background(), db); err == nil || db.committed {
		t.Fatal("expected failure without commit")
	}
}

func listingPrefix(title string) string {
	return strings.ToLower(strings.Fields(title)[0]) + "-"
}
