package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"creatorhub/internal/database"
	"creatorhub/internal/domain/user"

	"github.com/google/uuid"
)

// UserRepository keeps its statements prepared on the database/sql view of
// the pool; the auth endpoints hit the same few queries on every request.
type UserRepository struct {
	stmtCreate     *sql.Stmt
	stmtGetByID    *sql.Stmt
	stmtGetByEmail *sql.Stmt
	stmtExists     *sql.Stmt
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(ctx context.Context, db database.DB) (*UserRepository, error) {
	sqlDB := db.SQLDB()
	if sqlDB == nil {
		return nil, errors.New("nil db")
	}

	r := &UserRepository{}
	prepare := func(dst **sql.Stmt, query string) error {
		s, err := sqlDB.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		*dst = s
		return nil
	}

	for _, p := range []struct {
		dst   **sql.Stmt
		query string
	}{
		{&r.stmtCreate, `INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`},
		{&r.stmtGetByID, `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = $1`},
		{&r.stmtGetByEmail, `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE lower(email) = lower($1)`},
		{&r.stmtExists, `SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`},
	} {
		if err := prepare(p.dst, p.query); err != nil {
			_ = r.Close()
			return nil, err
		}
	}

	return r, nil
}

func (r *UserRepository) Close() error {
	var firstErr error
	for _, s := range []*sql.Stmt{r.stmtCreate, r.stmtGetByID, r.stmtGetByEmail, r.stmtExists} {
		if s == nil {
			continue
		}
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *UserRepository) CreateUser(ctx context.Context, u user.User) error {
	_, err := r.stmtCreate.ExecContext(ctx, u.ID, strings.TrimSpace(u.Email), u.PasswordHash)
	if database.IsUniqueViolation(err, "") {
		return user.ErrEmailTaken
	}
	return err
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return scanUser(r.stmtGetByID.QueryRowContext(ctx, id))
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(r.stmtGetByEmail.QueryRowContext(ctx, strings.TrimSpace(email)))
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.stmtExists.QueryRowContext(ctx, strings.TrimSpace(email)).Scan(&exists)
	return exists, err
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if database.IsNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}
