// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"sync"
	"time"

	"github.com/danielhkuo/connecthub/models"
)

// State is the per-browser UI state. A nil Groups slice means no groups
// have been generated.
type State struct {
	LoggedIn    bool
	Groups      []models.Group
	GeneratedAt time.Time
	Query       string
	// Pending is set while a grouping call for this session is in flight.
	Pending bool
}

// HasGroups reports whether groups are populated.
func (s State) HasGroups() bool {
	return s.Groups != nil
}

// Session holds one browser's state. All state access goes through
// Snapshot and Update so check-and-set transitions are atomic.
type Session struct {
	ID        string
	CSRFToken string

	mu       sync.Mutex
	state    State
	lastSeen time.Time
}

// New returns a logged-out session with no groups.
func New(id, csrfToken string) *Session {
	return &Session{ID: id, CSRFToken: csrfToken, lastSeen: time.Now()}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update applies fn to the state while holding the session lock.
func (s *Session) Update(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
