package listing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Gateway is the storage the board reads from and writes to. Implementations
// return ErrNotFound for missing postings. ListPostings is ordered most recent
// first.
type Gateway interface {
	ListPostings(ctx context.Context) ([]PostingRow, error)
	GetPostingByID(ctx context.Context, id uuid.UUID) (PostingRow, error)
	GetPostingBySlug(ctx context.Context, slug string) (PostingRow, error)

	ListSavedJobIDs(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error)
	ListAppliedJobIDs(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error)

	InsertSavedJob(ctx context.Context, s SavedJob) error
	DeleteSavedJob(ctx context.Context, s SavedJob) error
	InsertApplication(ctx context.Context, a Application) error

	InsertPosting(ctx context.Context, p NewPosting) (PostingRow, error)
	UpdatePosting(ctx context.Context, id, ownerID uuid.UUID, patch PostingPatch) error
	DeletePosting(ctx context.Context, id, ownerID uuid.UUID) error
}

// Cache stores the joined posting rows between loads.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const postingsCacheKey = "postings:list"

type EventType string

const (
	EventPostingCreated EventType = "posting.created"
	EventPostingUpdated EventType = "posting.updated"
	EventPostingDeleted EventType = "posting.deleted"
)

type Event struct {
	Type      EventType `json:"type"`
	JobID     uuid.UUID `json:"job_id"`
	Slug      string    `json:"slug"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier receives posting lifecycle events after the gateway confirms them.
// Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, evt Event) error
}

// Notifiers fans an event out to every notifier and returns the first error.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, evt Event) error {
	var firstErr error
	for _, n := range ns {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, evt); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
