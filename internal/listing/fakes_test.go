package listing

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"creatorhub/internal/domain/profile"
	"creatorhub/internal/session"

	"github.com/google/uuid"
)

var errGatewayDown = errors.New("gateway down")

type fakeGateway struct {
	mu sync.Mutex

	postings map[uuid.UUID]PostingRow
	saved    map[SavedJob]struct{}
	applied  map[Application]struct{}

	listErr   error
	savedErr  error
	insertErr error
	deleteErr error

	calls map[string]int
	// block, when set, is received from before a save/apply write completes.
	block chan struct{}
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		postings: map[uuid.UUID]PostingRow{},
		saved:    map[SavedJob]struct{}{},
		applied:  map[Application]struct{}{},
		calls:    map[string]int{},
	}
}

func (g *fakeGateway) called(name string) {
	g.mu.Lock()
	g.calls[name]++
	g.mu.Unlock()
}

func (g *fakeGateway) count(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[name]
}

func (g *fakeGateway) add(rows ...PostingRow) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, r := range rows {
		g.postings[r.ID] = r
	}
}

func (g *fakeGateway) ListPostings(context.Context) ([]PostingRow, error) {
	g.called("ListPostings")
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.listErr != nil {
		return nil, g.listErr
	}
	out := make([]PostingRow, 0, len(g.postings))
	for _, r := range g.postings {
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (g *fakeGateway) GetPostingByID(_ context.Context, id uuid.UUID) (PostingRow, error) {
	g.called("GetPostingByID")
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.postings[id]
	if !ok {
		return PostingRow{}, ErrNotFound
	}
	return r, nil
}

func (g *fakeGateway) GetPostingBySlug(_ context.Context, slug string) (PostingRow, error) {
	g.called("GetPostingBySlug")
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, r := range g.postings {
		if r.Slug == slug {
			return r, nil
		}
	}
	return PostingRow{}, ErrNotFound
}

func (g *fakeGateway) ListSavedJobIDs(_ context.Context, profileID uuid.UUID) ([]uuid.UUID, error) {
	g.called("ListSavedJobIDs")
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.savedErr != nil {
		return nil, g.savedErr
	}
	var out []uuid.UUID
	for s := range g.saved {
		if s.ProfileID == profileID {
			out = append(out, s.JobID)
		}
	}
	return out, nil
}

func (g *fakeGateway) ListAppliedJobIDs(_ context.Context, profileID uuid.UUID) ([]uuid.UUID, error) {
	g.called("ListAppliedJobIDs")
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []uuid.UUID
	for a := range g.applied {
		if a.ProfileID == profileID {
			out = append(out, a.JobID)
		}
	}
	return out, nil
}

func (g *fakeGateway) wait() {
	if g.block != nil {
		<-g.block
	}
}

func (g *fakeGateway) InsertSavedJob(_ context.Context, s SavedJob) error {
	g.called("InsertSavedJob")
	g.wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.insertErr != nil {
		return g.insertErr
	}
	g.saved[s] = struct{}{}
	return nil
}

func (g *fakeGateway) DeleteSavedJob(_ context.Context, s SavedJob) error {
	g.called("DeleteSavedJob")
	g.wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.deleteErr != nil {
		return g.deleteErr
	}
	delete(g.saved, s)
	return nil
}

func (g *fakeGateway) InsertApplication(_ context.Context, a Application) error {
	g.called("InsertApplication")
	g.wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.insertErr != nil {
		return g.insertErr
	}
	g.applied[a] = struct{}{}
	return nil
}

func (g *fakeGateway) InsertPosting(_ context.Context, p NewPosting) (PostingRow, error) {
	g.called("InsertPosting")
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.insertErr != nil {
		return PostingRow{}, g.insertErr
	}
	now := time.Now().UTC()
	r := PostingRow{
		ID:           uuid.New(),
		Slug:         p.Slug,
		Title:        p.Title,
		Description:  p.Description,
		HasDeadline:  p.HasDeadline,
		DeadlineDate: p.DeadlineDate,
		DeadlineTime: p.DeadlineTime,
		CreatedAt:    now,
		UpdatedAt:    now,
		Poster:       Poster{ProfileID: p.ProfileID, AccountKind: profile.KindBusinessOwner},
	}
	g.postings[r.ID] = r
	return r, nil
}

func (g *fakeGateway) UpdatePosting(_ context.Context, id, ownerID uuid.UUID, p PostingPatch) error {
	g.called("UpdatePosting")
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.postings[id]
	if !ok || r.Poster.ProfileID != ownerID {
		return ErrNotFound
	}
	r.Title = p.Title
	r.Description = p.Description
	r.HasDeadline = p.HasDeadline
	r.DeadlineDate = p.DeadlineDate
	r.DeadlineTime = p.DeadlineTime
	r.UpdatedAt = time.Now().UTC()
	g.postings[id] = r
	return nil
}

func (g *fakeGateway) DeletePosting(_ context.Context, id, ownerID uuid.UUID) error {
	g.called("DeletePosting")
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.deleteErr != nil {
		return g.deleteErr
	}
	r, ok := g.postings[id]
	if !ok || r.Poster.ProfileID != ownerID {
		return ErrNotFound
	}
	delete(g.postings, id)
	return nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]PostingRow
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]PostingRow{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	*(out.(*[]PostingRow)) = append([]PostingRow(nil), rows...)
	return true, nil
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = append([]PostingRow(nil), value.([]PostingRow)...)
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.deletes++
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, evt Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, evt)
	return n.err
}

func creator() *session.Viewer {
	return &session.Viewer{UserID: uuid.New(), ProfileID: uuid.New(), Username: "creator", Kind: profile.KindContentCreator}
}

func businessOwner() *session.Viewer {
	return &session.Viewer{UserID: uuid.New(), ProfileID: uuid.New(), Username: "owner", Kind: profile.KindBusinessOwner}
}

func postingRow(owner uuid.UUID, title string, createdAt time.Time) PostingRow {
	return PostingRow{
		ID:          uuid.New(),
		Slug:        Slugify(title) + "-abc123",
		Title:       title,
		Description: "Description of " + title,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
		Poster: Poster{
			ProfileID:   owner,
			Username:    "acme",
			FirstName:   "Ada",
			LastName:    "Lin",
			City:        "Taipei",
			Country:     "Taiwan",
			AccountKind: profile.KindBusinessOwner,
		},
	}
}

func newTestService(gw Gateway) *Service {
	return NewService(gw, nil, nil, nil, nil, 0)
}
