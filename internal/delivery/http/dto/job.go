package dto

import (
	"time"

	"creatorhub/internal/listing"
)

const DateLayout = "2006-01-02"

type PosterResponse struct {
	ProfileID   string `json:"profile_id"`
	Username    string `json:"username"`
	Name        string `json:"name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhotoURL    string `json:"photo_url"`
	City        string `json:"city"`
	Country     string `json:"country"`
	AccountKind string `json:"account_kind"`
}

type JobResponse struct {
	ID           string         `json:"id"`
	Slug         string         `json:"slug"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	HasDeadline  bool           `json:"has_deadline"`
	DeadlineDate *string        `json:"deadline_date"`
	DeadlineTime string         `json:"deadline_time,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Poster       PosterResponse `json:"poster"`

	IsSaved   bool `json:"is_saved"`
	IsApplied bool `json:"is_applied"`
	IsOwner   bool `json:"is_owner"`
	IsExpired bool `json:"is_expired"`
}

type JobListResponse struct {
	Items []JobResponse `json:"items"`
	Total int           `json:"total"`
	// Matched is the size of the unfiltered set the items were taken from.
	Matched int `json:"matched"`
}

func NewJobResponse(l listing.Listing, now time.Time) JobResponse {
	var deadline *string
	if l.DeadlineDate != nil {
		s := l.DeadlineDate.Format(DateLayout)
		deadline = &s
	}
	return JobResponse{
		ID:           l.ID.String(),
		Slug:         l.Slug,
		Title:        l.Title,
		Description:  l.Description,
		HasDeadline:  l.HasDeadline,
		DeadlineDate: deadline,
		DeadlineTime: l.DeadlineTime,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
		Poster: PosterResponse{
			ProfileID:   l.OwnerID.String(),
			Username:    l.Username,
			Name:        l.PosterName(),
			FirstName:   l.FirstName,
			LastName:    l.LastName,
			PhotoURL:    l.PhotoURL,
			City:        l.City,
			Country:     l.Country,
			AccountKind: string(l.AccountKind),
		},
		IsSaved:   l.IsSaved,
		IsApplied: l.IsApplied,
		IsOwner:   l.IsOwner,
		IsExpired: l.Expired(now),
	}
}

func NewJobListResponse(visible []listing.Listing, total int, now time.Time) JobListResponse {
	items := make([]JobResponse, 0, len(visible))
	for _, l := range visible {
		items = append(items, NewJobResponse(l, now))
	}
	return JobListResponse{Items: items, Total: len(items), Matched: total}
}

// JobRequest is the create/edit body. deadline_date is YYYY-MM-DD and
// deadline_time HH:MM or HH:MM:SS.
type JobRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	HasDeadline  bool   `json:"has_deadline"`
	DeadlineDate string `json:"deadline_date"`
	DeadlineTime string `json:"deadline_time"`
}

// Form converts the request. A malformed date is reported as
// listing.ErrInvalidInput.
func (r JobRequest) Form() (listing.PostingForm, error) {
	f := listing.PostingForm{
		Title:        r.Title,
		Description:  r.Description,
		HasDeadline:  r.HasDeadline,
		DeadlineTime: r.DeadlineTime,
	}
	if r.DeadlineDate != "" {
		d, err := time.Parse(DateLayout, r.DeadlineDate)
		if err != nil {
			return listing.PostingForm{}, listing.ErrInvalidInput
		}
		f.DeadlineDate = &d
	}
	return f, nil
}
