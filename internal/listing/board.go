package listing

import (
	"context"
	"sync"

	"creatorhub/internal/session"

	"github.com/google/uuid"
)

// Interactor is the part of Service a Board drives.
type Interactor interface {
	LoadListings(ctx context.Context, viewer *session.Viewer) ([]Listing, error)
	ToggleSave(ctx context.Context, viewer *session.Viewer, jobID uuid.UUID, currentlySaved bool) error
	Apply(ctx context.Context, viewer *session.Viewer, jobID uuid.UUID) error
	CreateOrUpdate(ctx context.Context, viewer *session.Viewer, form PostingForm, editTarget *uuid.UUID) (Listing, error)
	Delete(ctx context.Context, viewer *session.Viewer, jobID uuid.UUID) error
}

var _ Interactor = (*Service)(nil)

// Snapshot is a read-only copy of the board handed to renderers.
type Snapshot struct {
	Loaded  bool
	Filter  FilterState
	Visible []Listing
	Busy    []uuid.UUID
}

// Board owns the full listing set for one session and the filter applied to
// it. Renderers read Snapshots and report intent through the methods; they
// never mutate listings themselves.
//
// State only changes after the Interactor confirms an action. While an action
// on an item is in flight, further actions on that item fail with ErrBusy.
type Board struct {
	svc     Interactor
	session *session.Session

	mu        sync.Mutex
	all       []Listing
	visible   []Listing
	filter    FilterState
	loaded    bool
	busy      map[uuid.UUID]struct{}
	gen       uint64
	listeners map[int]func(Snapshot)
	nextID    int

	unsubscribe func()
}

func NewBoard(svc Interactor, sess *session.Session) *Board {
	b := &Board{
		svc:       svc,
		session:   sess,
		visible:   []Listing{},
		busy:      map[uuid.UUID]struct{}{},
		listeners: map[int]func(Snapshot){},
	}
	b.unsubscribe = sess.Subscribe(func(*session.Viewer) { b.reset() })
	return b
}

// Close detaches the board from its session.
func (b *Board) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
}

// Load replaces the listing set with a fresh fetch for the current viewer. On
// failure the previous set is kept. A result that arrives after the viewer
// changed is dropped.
func (b *Board) Load(ctx context.Context) error {
	b.mu.Lock()
	gen := b.gen
	b.mu.Unlock()

	items, err := b.svc.LoadListings(ctx, b.session.Viewer())
	if err != nil {
		return err
	}

	b.mu.Lock()
	if gen != b.gen {
		b.mu.Unlock()
		return nil
	}
	b.all = items
	b.loaded = true
	b.refilterLocked()
	b.mu.Unlock()

	b.emit()
	return nil
}

func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Board) Visible() []Listing {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Listing(nil), b.visible...)
}

func (b *Board) Filter() FilterState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

func (b *Board) Busy(jobID uuid.UUID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.busy[jobID]
	return ok
}

func (b *Board) SetQuery(q string) {
	b.updateFilter(func(f FilterState) FilterState { return f.WithQuery(q) })
}

func (b *Board) SetCountry(country string) {
	b.updateFilter(func(f FilterState) FilterState { return f.WithCountry(country) })
}

func (b *Board) SetSavedOnly(on bool) {
	b.updateFilter(func(f FilterState) FilterState { return f.WithSavedOnly(on) })
}

func (b *Board) SetMineOnly(on bool) {
	b.updateFilter(func(f FilterState) FilterState { return f.WithMineOnly(on) })
}

// Subscribe registers fn for every state change. The returned func removes it.
func (b *Board) Subscribe(fn func(Snapshot)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// ToggleSave flips the saved state of a listing. With SavedOnly active an
// unsaved listing leaves the visible set right away.
func (b *Board) ToggleSave(ctx context.Context, jobID uuid.UUID) error {
	target, gen, err := b.begin(jobID)
	if err != nil {
		return err
	}

	err = b.svc.ToggleSave(ctx, b.session.Viewer(), jobID, target.IsSaved)
	b.finish(jobID, gen, err, func(i int) {
		b.all[i].IsSaved = !target.IsSaved
	})
	return err
}

func (b *Board) Apply(ctx context.Context, jobID uuid.UUID) error {
	_, gen, err := b.begin(jobID)
	if err != nil {
		return err
	}

	err = b.svc.Apply(ctx, b.session.Viewer(), jobID)
	b.finish(jobID, gen, err, func(i int) {
		b.all[i].IsApplied = true
	})
	return err
}

// Submit creates a posting, or edits editTarget when non-nil. New postings go
// to the front of the set.
func (b *Board) Submit(ctx context.Context, form PostingForm, editTarget *uuid.UUID) (Listing, error) {
	if editTarget == nil {
		return b.create(ctx, form)
	}

	jobID := *editTarget
	_, gen, err := b.begin(jobID)
	if err != nil {
		return Listing{}, err
	}

	updated, err := b.svc.CreateOrUpdate(ctx, b.session.Viewer(), form, &jobID)
	b.finish(jobID, gen, err, func(i int) {
		prev := b.all[i]
		updated.IsSaved = prev.IsSaved
		updated.IsApplied = prev.IsApplied
		b.all[i] = updated
	})
	if err != nil {
		return Listing{}, err
	}
	return updated, nil
}

func (b *Board) create(ctx context.Context, form PostingForm) (Listing, error) {
	b.mu.Lock()
	gen := b.gen
	b.mu.Unlock()

	created, err := b.svc.CreateOrUpdate(ctx, b.session.Viewer(), form, nil)
	if err != nil {
		return Listing{}, err
	}

	b.mu.Lock()
	if gen == b.gen {
		b.all = append([]Listing{created}, b.all...)
		b.refilterLocked()
	}
	b.mu.Unlock()

	b.emit()
	return created, nil
}

// Delete removes a posting. The caller must have confirmed with the user.
func (b *Board) Delete(ctx context.Context, jobID uuid.UUID) error {
	_, gen, err := b.begin(jobID)
	if err != nil {
		return err
	}

	err = b.svc.Delete(ctx, b.session.Viewer(), jobID)
	b.finish(jobID, gen, err, func(i int) {
		b.all = append(b.all[:i:i], b.all[i+1:]...)
	})
	return err
}

// begin marks jobID busy and returns a copy of its listing.
func (b *Board) begin(jobID uuid.UUID) (Listing, uint64, error) {
	b.mu.Lock()
	i := b.indexLocked(jobID)
	if i < 0 {
		b.mu.Unlock()
		return Listing{}, 0, ErrNotFound
	}
	if _, ok := b.busy[jobID]; ok {
		b.mu.Unlock()
		return Listing{}, 0, ErrBusy
	}
	b.busy[jobID] = struct{}{}
	target := b.all[i]
	gen := b.gen
	b.mu.Unlock()

	b.emit()
	return target, gen, nil
}

// finish clears the busy flag and, when the action succeeded for the same
// session generation, applies mutate to the item's current index.
func (b *Board) finish(jobID uuid.UUID, gen uint64, err error, mutate func(i int)) {
	b.mu.Lock()
	if gen == b.gen {
		delete(b.busy, jobID)
		if err == nil {
			if i := b.indexLocked(jobID); i >= 0 {
				mutate(i)
			}
			b.refilterLocked()
		}
	}
	b.mu.Unlock()

	b.emit()
}

func (b *Board) reset() {
	b.mu.Lock()
	b.gen++
	b.all = nil
	b.loaded = false
	b.busy = map[uuid.UUID]struct{}{}
	b.filter = b.filter.WithSavedOnly(false).WithMineOnly(false)
	b.refilterLocked()
	b.mu.Unlock()

	b.emit()
}

func (b *Board) updateFilter(fn func(FilterState) FilterState) {
	b.mu.Lock()
	b.filter = fn(b.filter)
	b.refilterLocked()
	b.mu.Unlock()

	b.emit()
}

func (b *Board) refilterLocked() {
	b.visible = ApplyFilters(b.all, b.filter)
}

func (b *Board) indexLocked(jobID uuid.UUID) int {
	for i := range b.all {
		if b.all[i].ID == jobID {
			return i
		}
	}
	return -1
}

func (b *Board) snapshotLocked() Snapshot {
	busy := make([]uuid.UUID, 0, len(b.busy))
	for id := range b.busy {
		busy = append(busy, id)
	}
	return Snapshot{
		Loaded:  b.loaded,
		Filter:  b.filter,
		Visible: append([]Listing(nil), b.visible...),
		Busy:    busy,
	}
}

func (b *Board) emit() {
	b.mu.Lock()
	snap := b.snapshotLocked()
	listeners := make([]func(Snapshot), 0, len(b.listeners))
	for _, fn := range b.listeners {
		listeners = append(listeners, fn)
	}
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
