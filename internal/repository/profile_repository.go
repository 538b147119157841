package repository

import (
	"context"
	"strings"

	"creatorhub/internal/database"
	"creatorhub/internal/domain/profile"

	"github.com/google/uuid"
)

const (
	defaultDirectoryLimit = 50
	maxDirectoryLimit     = 200
)

type PostgresProfileRepository struct {
	db database.DB
}

var _ profile.Repository = (*PostgresProfileRepository)(nil)

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

const profileColumns = `id, user_id, username, first_name, last_name, photo_url, city, country, bio, account_kind, created_at, updated_at`

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	return r.getOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
}

func (r *PostgresProfileRepository) GetByUsername(ctx context.Context, username string) (profile.Profile, error) {
	return r.getOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE lower(username) = lower($1)`, strings.TrimSpace(username))
}

func (r *PostgresProfileRepository) getOne(ctx context.Context, query string, arg any) (profile.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if database.IsNoRows(err) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, err
	}
	return p, nil
}

// UsernameExists ignores the profile owned by exceptUserID so a user can keep
// their own name when editing.
func (r *PostgresProfileRepository) UsernameExists(ctx context.Context, username string, exceptUserID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM profiles WHERE lower(username) = lower($1) AND user_id <> $2)`,
		strings.TrimSpace(username), exceptUserID,
	).Scan(&exists)
	return exists, err
}

// Upsert creates the profile for p.UserID or updates it. account_kind is only
// written on insert.
func (r *PostgresProfileRepository) Upsert(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	out, err := scanProfile(r.db.QueryRow(ctx,
		`INSERT INTO profiles (user_id, username, first_name, last_name, photo_url, city, country, bio, account_kind)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (user_id) DO UPDATE SET
		   username = EXCLUDED.username,
		   first_name = EXCLUDED.first_name,
		   last_name = EXCLUDED.last_name,
		   photo_url = EXCLUDED.photo_url,
		   city = EXCLUDED.city,
		   country = EXCLUDED.country,
		   bio = EXCLUDED.bio,
		   updated_at = now()
		 RETURNING `+profileColumns,
		p.UserID, p.Username, p.FirstName, p.LastName, p.PhotoURL, p.City, p.Country, p.Bio, string(p.AccountKind),
	))
	if err != nil {
		if database.IsUniqueViolation(err, "profiles_username_key") {
			return profile.Profile{}, profile.ErrUsernameTaken
		}
		return profile.Profile{}, err
	}
	return out, nil
}

// ListCreators pages through content creator profiles, newest first.
func (r *PostgresProfileRepository) ListCreators(ctx context.Context, f profile.DirectoryFilter) ([]profile.Profile, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultDirectoryLimit
	}
	if limit > maxDirectoryLimit {
		limit = maxDirectoryLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	country := strings.TrimSpace(f.Country)
	if strings.EqualFold(country, "all") {
		country = ""
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles
		 WHERE account_kind = $1
		   AND ($2 = '' OR country = $2)
		   AND ($3 = '' OR strpos(lower(username || ' ' || first_name || ' ' || last_name || ' ' || city || ' ' || bio), lower($3)) > 0)
		 ORDER BY created_at DESC, id ASC
		 LIMIT $4 OFFSET $5`,
		string(profile.KindContentCreator), country, strings.TrimSpace(f.Query), limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanProfile(row database.Row) (profile.Profile, error) {
	var (
		p    profile.Profile
		kind string
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Username, &p.FirstName, &p.LastName, &p.PhotoURL,
		&p.City, &p.Country, &p.Bio, &kind, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return profile.Profile{}, err
	}
	p.AccountKind = profile.AccountKind(kind)
	return p, nil
}
