// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/connecthub/auth"
)

// CookieName is the session cookie name.
const CookieName = "connecthub_session"

// DefaultIdleTimeout drops sessions that have not been used for this long.
const DefaultIdleTimeout = 12 * time.Hour

// Manager keeps sessions in memory, keyed by ID. Sessions do not survive a
// restart.
type Manager struct {
	salt        string
	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(salt string, idleTimeout time.Duration) *Manager {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Manager{
		salt:        salt,
		idleTimeout: idleTimeout,
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}
}

// Load returns the session named by the request cookie, creating a new one
// (and setting the cookie) when the cookie is missing, forged or expired.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) (*Session, error) {
	now := m.now()

	if id, ok := m.readCookie(r); ok {
		m.mu.Lock()
		s, found := m.sessions[id]
		m.mu.Unlock()
		if found && s.idleSince(now) <= m.idleTimeout {
			s.touch(now)
			return s, nil
		}
	}

	s, err := m.create(now)
	if err != nil {
		return nil, err
	}
	m.writeCookie(w, r, s.ID)
	return s, nil
}

// Get looks up a live session by ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) create(now time.Time) (*Session, error) {
	csrf, err := auth.GenerateID(16)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s := New(uuid.NewString(), csrf)
	s.lastSeen = now

	m.mu.Lock()
	defer m.mu.Unlock()
	m.prune(now)
	m.sessions[s.ID] = s

	slog.Debug("session created", "sessions", len(m.sessions))
	return s, nil
}

// prune must be called with m.mu held.
func (m *Manager) prune(now time.Time) {
	for id, s := range m.sessions {
		if s.idleSince(now) > m.idleTimeout {
			delete(m.sessions, id)
		}
	}
}

func (m *Manager) readCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	id, err := auth.ParseSessionToken(value, m.salt)
	if err != nil {
		slog.Warn("rejected session cookie", "error", err)
		return "", false
	}
	return id, true
}

func (m *Manager) writeCookie(w http.ResponseWriter, r *http.Request, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    auth.SessionToken(id, m.salt),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
