// Package session holds the identity of whoever is driving a board and
// notifies subscribers when it changes.
package session

import (
	"sync"

	"creatorhub/internal/domain/profile"

	"github.com/google/uuid"
)

// Viewer is an authenticated user. A viewer without a profile (ProfileID nil)
// has signed in but not finished onboarding.
type Viewer struct {
	UserID    uuid.UUID
	ProfileID uuid.UUID
	Username  string
	Kind      profile.AccountKind
}

func (v *Viewer) HasProfile() bool {
	return v != nil && v.ProfileID != uuid.Nil
}

func (v *Viewer) IsCreator() bool {
	return v.HasProfile() && v.Kind == profile.KindContentCreator
}

func (v *Viewer) IsBusinessOwner() bool {
	return v.HasProfile() && v.Kind == profile.KindBusinessOwner
}

// FromProfile builds the viewer for a user that completed onboarding.
func FromProfile(p profile.Profile) Viewer {
	return Viewer{UserID: p.UserID, ProfileID: p.ID, Username: p.Username, Kind: p.AccountKind}
}

type Listener func(v *Viewer)

// Session is passed by reference to every consumer; there is no package level
// instance.
type Session struct {
	mu        sync.RWMutex
	viewer    *Viewer
	listeners map[int]Listener
	nextID    int
}

func New() *Session {
	return &Session{listeners: map[int]Listener{}}
}

// Viewer returns a copy of the current viewer, or nil when anonymous.
func (s *Session) Viewer() *Viewer {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.viewer == nil {
		return nil
	}
	v := *s.viewer
	return &v
}

func (s *Session) SignIn(v Viewer) {
	s.set(&v)
}

func (s *Session) SignOut() {
	s.set(nil)
}

// Subscribe registers fn for every later identity change. The returned func
// removes it.
func (s *Session) Subscribe(fn Listener) func() {
	if s == nil || fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Session) set(v *Viewer) {
	s.mu.Lock()
	s.viewer = v
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	// listeners run outside the lock so they may read the session back
	for _, fn := range listeners {
		var cp *Viewer
		if v != nil {
			c := *v
			cp = &c
		}
		fn(cp)
	}
}
