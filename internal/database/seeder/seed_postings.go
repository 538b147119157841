package seeder

import (
	"context"
	"fmt"
	"time"

	"creatorhub/internal/database"
	"creatorhub/internal/listing"
)

type demoPosting struct {
	Owner       string
	Title       string
	Description string
	// DeadlineIn is relative to the seed run; zero means open-ended. A
	// negative value seeds an already expired posting.
	DeadlineIn   time.Duration
	DeadlineTime string
}

var demoPostings = []demoPosting{
	{Owner: "lantern_studio", Title: "Bubble tea launch reel", Description: "Three 15s reels for our new oolong series. Vertical, subtitles in EN and ZH.", DeadlineIn: 14 * 24 * time.Hour, DeadlineTime: "18:00"},
	{Owner: "lantern_studio", Title: "Store opening vlog", Description: "Half-day shoot at our Kaohsiung opening, edited to a 3 minute vlog.", DeadlineIn: -48 * time.Hour},
	{Owner: "lantern_studio", Title: "Menu photography", Description: "Flat lays of 20 menu items for print and delivery apps."},
	{Owner: "kornblume", Title: "Need a logo refresh", Description: "Modernise our wordmark and pick a palette that works on paper bags.", DeadlineIn: 30 * 24 * time.Hour},
	{Owner: "kornblume", Title: "Podcast intro voice over", Description: "Warm 20 second intro for our baking podcast, German or English."},
}

// PostingsSeeder creates the demo postings for the demo business owners. A
// posting whose owner already has one with the same title is skipped.
type PostingsSeeder struct {
	Now func() time.Time
}

func (PostingsSeeder) Name() string { return "postings" }

func (s PostingsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := RequireTables(ctx, db, "job_postings"); err != nil {
		return err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	today := now().UTC()

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, p := range demoPostings {
		slug, err := listing.GenerateSlug(p.Title)
		if err != nil {
			return err
		}

		hasDeadline := p.DeadlineIn != 0
		var date any
		if hasDeadline {
			d := today.Add(p.DeadlineIn)
			date = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO job_postings (slug, title, description, has_deadline, deadline_date, deadline_time, profile_id)
			 SELECT $1, $2, $3, $4, $5, NULLIF($6, '')::time, p.id
			 FROM profiles p
			 WHERE lower(p.username) = lower($7)
			   AND NOT EXISTS (
			     SELECT 1 FROM job_postings jp WHERE jp.profile_id = p.id AND jp.title = $2
			   )`,
			slug, p.Title, p.Description, hasDeadline, date, p.DeadlineTime, p.Owner,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
