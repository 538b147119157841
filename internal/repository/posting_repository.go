package repository

import (
	"context"
	"fmt"
	"time"

	"creatorhub/internal/database"
	"creatorhub/internal/domain/profile"
	"creatorhub/internal/listing"

	"github.com/google/uuid"
)

// PostgresPostingRepository is the listing.Gateway over job_postings and its
// join tables.
type PostgresPostingRepository struct {
	db database.DB
}

var _ listing.Gateway = (*PostgresPostingRepository)(nil)

func NewPostgresPostingRepository(db database.DB) *PostgresPostingRepository {
	return &PostgresPostingRepository{db: db}
}

const postingSelect = `SELECT
	jp.id, jp.slug, jp.title, jp.description, jp.has_deadline, jp.deadline_date,
	COALESCE(to_char(jp.deadline_time, 'HH24:MI:SS'), ''),
	jp.created_at, jp.updated_at,
	p.id, p.username, p.first_name, p.last_name, p.photo_url, p.city, p.country, p.account_kind
 FROM job_postings jp
 JOIN profiles p ON p.id = jp.profile_id`

func (r *PostgresPostingRepository) ListPostings(ctx context.Context) ([]listing.PostingRow, error) {
	rows, err := r.db.Query(ctx, postingSelect+`
 ORDER BY jp.created_at DESC, jp.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list postings: %w", err)
	}
	defer rows.Close()

	out := make([]listing.PostingRow, 0)
	for rows.Next() {
		p, err := scanPosting(rows)
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

func (r *PostgresPostingRepository) GetPostingByID(ctx context.Context, id uuid.UUID) (listing.PostingRow, error) {
	return r.getOne(ctx, postingSelect+` WHERE jp.id = $1`, id)
}

func (r *PostgresPostingRepository) GetPostingBySlug(ctx context.Context, slug string) (listing.PostingRow, error) {
	return r.getOne(ctx, postingSelect+` WHERE jp.slug = $1`, slug)
}

func (r *PostgresPostingRepository) getOne(ctx context.Context, query string, arg any) (listing.PostingRow, error) {
	p, err := scanPosting(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if database.IsNoRows(err) {
			return listing.PostingRow{}, listing.ErrNotFound
		}
		return listing.PostingRow{}, err
	}
	return p, nil
}

func (r *PostgresPostingRepository) ListSavedJobIDs(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error) {
	return r.listJobIDs(ctx, `SELECT job_id FROM saved_jobs WHERE profile_id = $1`, profileID)
}

func (r *PostgresPostingRepository) ListAppliedJobIDs(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error) {
	return r.listJobIDs(ctx, `SELECT job_id FROM job_applications WHERE profile_id = $1`, profileID)
}

func (r *PostgresPostingRepository) listJobIDs(ctx context.Context, query string, profileID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertSavedJob is idempotent; saving an already saved posting is a no-op.
func (r *PostgresPostingRepository) InsertSavedJob(ctx context.Context, s listing.SavedJob) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO saved_jobs (profile_id, job_id) VALUES ($1, $2)
		 ON CONFLICT (profile_id, job_id) DO NOTHING`,
		s.ProfileID, s.JobID,
	)
	return mapWriteErr(err)
}

func (r *PostgresPostingRepository) DeleteSavedJob(ctx context.Context, s listing.SavedJob) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM saved_jobs WHERE profile_id = $1 AND job_id = $2`,
		s.ProfileID, s.JobID,
	)
	return err
}

func (r *PostgresPostingRepository) InsertApplication(ctx context.Context, a listing.Application) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO job_applications (profile_id, job_id) VALUES ($1, $2)
		 ON CONFLICT (profile_id, job_id) DO NOTHING`,
		a.ProfileID, a.JobID,
	)
	return mapWriteErr(err)
}

func (r *PostgresPostingRepository) InsertPosting(ctx context.Context, p listing.NewPosting) (listing.PostingRow, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`INSERT INTO job_postings (slug, title, description, has_deadline, deadline_date, deadline_time, profile_id)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::time, $7)
		 RETURNING id`,
		p.Slug, p.Title, p.Description, p.HasDeadline, dateArg(p.DeadlineDate), p.DeadlineTime, p.ProfileID,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err, "job_postings_slug_key") {
			return listing.PostingRow{}, fmt.Errorf("slug %q already used: %w", p.Slug, err)
		}
		return listing.PostingRow{}, mapWriteErr(err)
	}
	return r.GetPostingByID(ctx, id)
}

// UpdatePosting and DeletePosting match on owner as well as id, so a row owned
// by someone else behaves as missing.
func (r *PostgresPostingRepository) UpdatePosting(ctx context.Context, id, ownerID uuid.UUID, p listing.PostingPatch) error {
	n, err := r.db.Exec(ctx,
		`UPDATE job_postings
		 SET title = $3, description = $4, has_deadline = $5, deadline_date = $6,
		     deadline_time = NULLIF($7, '')::time, updated_at = now()
		 WHERE id = $1 AND profile_id = $2`,
		id, ownerID, p.Title, p.Description, p.HasDeadline, dateArg(p.DeadlineDate), p.DeadlineTime,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return listing.ErrNotFound
	}
	return nil
}

func (r *PostgresPostingRepository) DeletePosting(ctx context.Context, id, ownerID uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM job_postings WHERE id = $1 AND profile_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if n == 0 {
		return listing.ErrNotFound
	}
	return nil
}

func scanPosting(row database.Row) (listing.PostingRow, error) {
	var (
		p            listing.PostingRow
		deadlineDate *time.Time
		kind         string
	)
	err := row.Scan(
		&p.ID, &p.Slug, &p.Title, &p.Description, &p.HasDeadline, &deadlineDate,
		&p.DeadlineTime,
		&p.CreatedAt, &p.UpdatedAt,
		&p.Poster.ProfileID, &p.Poster.Username, &p.Poster.FirstName, &p.Poster.LastName,
		&p.Poster.PhotoURL, &p.Poster.City, &p.Poster.Country, &kind,
	)
	if err != nil {
		return listing.PostingRow{}, err
	}
	p.DeadlineDate = deadlineDate
	p.Poster.AccountKind = profile.AccountKind(kind)
	return p, nil
}

// dateArg drops the clock and zone so the date column stores the calendar day
// that was picked.
func dateArg(d *time.Time) any {
	if d == nil {
		return nil
	}
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// mapWriteErr turns a foreign key failure (posting deleted under us) into
// listing.ErrNotFound.
func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if database.IsForeignKeyViolation(err) {
		return listing.ErrNotFound
	}
	return err
}
