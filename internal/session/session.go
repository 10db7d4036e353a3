// Package session holds the client-side credential and profile state that
// gates every mutation. The store is injected rather than read from an
// ambient global so services stay testable.
package session

import "sync"

// Profile is the cached user profile blob stored alongside the token.
type Profile struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Store is the read/write interface over the durable key-value state.
// Presence of a token is the sole gate for any mutation operation.
type Store interface {
	// Token returns the stored bearer token, or "" when signed out.
	Token() string
	// SetToken stores the bearer token.
	SetToken(token string)
	// User returns the stored profile and whether one is present.
	User() (Profile, bool)
	// SetUser stores the profile blob.
	SetUser(profile Profile)
	// Clear drops the token and profile, signing the user out.
	Clear()
	// Watch registers fn to run on every credential change, mirroring the
	// cross-tab storage-change signal. Returns a cancel function.
	Watch(fn func()) (cancel func())
}

// MemoryStore is the in-process Store implementation.
type MemoryStore struct {
	mu       sync.RWMutex
	token    string
	user     Profile
	hasUser  bool
	nextID   int
	watchers map[int]func()
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty, signed-out store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{watchers: make(map[int]func())}
}

func (s *MemoryStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryStore) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.notify()
}

func (s *MemoryStore) User() (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.hasUser
}

func (s *MemoryStore) SetUser(profile Profile) {
	s.mu.Lock()
	s.user = profile
	s.hasUser = true
	s.mu.Unlock()
	s.notify()
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	s.token = ""
	s.user = Profile{}
	s.hasUser = false
	s.mu.Unlock()
	s.notify()
}

func (s *MemoryStore) Watch(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.watchers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watchers, id)
	}
}

func (s *MemoryStore) notify() {
	s.mu.RLock()
	fns := make([]func(), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}
