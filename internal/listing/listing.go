// Package listing implements the job board: loading postings with their
// poster, filtering them for a viewer, and the save/apply/edit/delete
// interactions on top.
//
// Service is stateless and backs the HTTP API. Board is the per-session
// controller for a client that keeps listings in memory between actions, such
// as a terminal or desktop front end; it embeds a session.Session and talks to
// a Service through the Interactor interface.
package listing

import (
	"strings"
	"time"

	"creatorhub/internal/domain/profile"

	"github.com/google/uuid"
)

// Poster is the profile side of a posting row as the gateway returns it.
type Poster struct {
	ProfileID   uuid.UUID           `json:"profile_id"`
	Username    string              `json:"username"`
	FirstName   string              `json:"first_name"`
	LastName    string              `json:"last_name"`
	PhotoURL    string              `json:"photo_url"`
	City        string              `json:"city"`
	Country     string              `json:"country"`
	AccountKind profile.AccountKind `json:"account_kind"`
}

// PostingRow is a job_postings row joined with its poster.
type PostingRow struct {
	ID           uuid.UUID  `json:"id"`
	Slug         string     `json:"slug"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	HasDeadline  bool       `json:"has_deadline"`
	DeadlineDate *time.Time `json:"deadline_date"`
	DeadlineTime string     `json:"deadline_time"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Poster       Poster     `json:"poster"`
}

// Listing is the flat, display-ready record. IsSaved, IsApplied and IsOwner
// are relative to the viewer that loaded it.
type Listing struct {
	ID           uuid.UUID
	Slug         string
	Title        string
	Description  string
	HasDeadline  bool
	DeadlineDate *time.Time
	DeadlineTime string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	OwnerID     uuid.UUID
	Username    string
	FirstName   string
	LastName    string
	PhotoURL    string
	City        string
	Country     string
	AccountKind profile.AccountKind

	IsSaved   bool
	IsApplied bool
	IsOwner   bool
}

func (l Listing) Expired(now time.Time) bool {
	return IsExpired(l.HasDeadline, l.DeadlineDate, l.DeadlineTime, now)
}

func (l Listing) PosterName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// toListing is the only place a joined row becomes a Listing.
func toListing(r PostingRow) Listing {
	return Listing{
		ID:           r.ID,
		Slug:         r.Slug,
		Title:        r.Title,
		Description:  r.Description,
		HasDeadline:  r.HasDeadline,
		DeadlineDate: r.DeadlineDate,
		DeadlineTime: r.DeadlineTime,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		OwnerID:      r.Poster.ProfileID,
		Username:     r.Poster.Username,
		FirstName:    r.Poster.FirstName,
		LastName:     r.Poster.LastName,
		PhotoURL:     r.Poster.PhotoURL,
		City:         r.Poster.City,
		Country:      r.Poster.Country,
		AccountKind:  r.Poster.AccountKind,
	}
}

// SavedJob and Application are presence-only join records.
type SavedJob struct {
	ProfileID uuid.UUID
	JobID     uuid.UUID
}

type Application struct {
	ProfileID uuid.UUID
	JobID     uuid.UUID
}

// PostingForm is what a business owner submits when creating or editing.
type PostingForm struct {
	Title        string
	Description  string
	HasDeadline  bool
	DeadlineDate *time.Time
	DeadlineTime string
}

// NewPosting is the insert payload; the gateway assigns id and timestamps.
type NewPosting struct {
	Slug         string
	ProfileID    uuid.UUID
	Title        string
	Description  string
	HasDeadline  bool
	DeadlineDate *time.Time
	DeadlineTime string
}

// PostingPatch carries the only fields an edit may touch.
type PostingPatch struct {
	Title        string
	Description  string
	HasDeadline  bool
	DeadlineDate *time.Time
	DeadlineTime string
}
