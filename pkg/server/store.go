package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saurabhkr66/jsonbuilder/pkg/editor"
	"github.com/saurabhkr66/jsonbuilder/pkg/model"
)

// ErrSessionNotFound is returned for unknown or expired session identifiers.
var ErrSessionNotFound = errors.New("server: session not found")

// Store keeps one editor per page view. Entries idle longer than the TTL are
// dropped lazily; when the cap is reached the least recently used entry is
// evicted.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	ids      model.IDGenerator
	ttl      time.Duration
	max      int
	now      func() time.Time
	newID    func() string
}

type session struct {
	editor   *editor.Editor
	lastSeen time.Time
	flash    []string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithTTL sets the idle lifetime of a session. Zero disables expiry.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		if ttl >= 0 {
			s.ttl = ttl
		}
	}
}

// WithMaxSessions caps live sessions. Zero means unlimited.
func WithMaxSessions(max int) StoreOption {
	return func(s *Store) {
		if max >= 0 {
			s.max = max
		}
	}
}

// WithIDGenerator sets the field identifier source shared by every editor the
// store creates.
func WithIDGenerator(ids model.IDGenerator) StoreOption {
	return func(s *Store) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates an empty store.
func NewStore(options ...StoreOption) *Store {
	s := &Store{
		sessions: make(map[string]*session),
		ids:      model.NewCounter(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Create starts a fresh editor and returns its session id.
func (s *Store) Create(options ...editor.Option) (string, *editor.Editor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	if s.max > 0 {
		for len(s.sessions) >= s.max {
			s.evictOldestLocked()
		}
	}

	opts := append([]editor.Option{editor.WithIDGenerator(s.ids)}, options...)
	e := editor.New(opts...)
	id := s.newID()
	s.sessions[id] = &session{editor: e, lastSeen: now}
	return id, e
}

// Get returns the editor for id and marks the session as used.
func (s *Store) Get(id string) (*editor.Editor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	return entry.editor, nil
}

// Delete forgets a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Flash stores messages shown once on the next page render.
func (s *Store) Flash(id string, messages ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookupLocked(id)
	if err != nil {
		return err
	}
	entry.flash = append(entry.flash, messages...)
	return nil
}

// TakeFlash returns and clears pending messages.
func (s *Store) TakeFlash(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil
	}
	out := entry.flash
	entry.flash = nil
	return out
}

// Len reports the number of live sessions, expired ones included until the
// next sweep.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops expired sessions and reports how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

func (s *Store) lookupLocked(id string) (*session, error) {
	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := s.now()
	if s.expired(entry, now) {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	entry.lastSeen = now
	return entry, nil
}

func (s *Store) expired(entry *session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.lastSeen) > s.ttl
}

func (s *Store) sweepLocked(now time.Time) int {
	removed := 0
	for id, entry := range s.sessions {
		if s.expired(entry, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Store) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, entry := range s.sessions {
		if oldestID == "" || entry.lastSeen.Before(oldest) {
			oldestID, oldest = id, entry.lastSeen
		}
	}
	delete(s.sessions, oldestID)
}
