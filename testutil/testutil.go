// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/connecthub/auth"
	"github.com/danielhkuo/connecthub/cliparse"
	"github.com/danielhkuo/connecthub/flow"
	"github.com/danielhkuo/connecthub/models"
	"github.com/danielhkuo/connecthub/session"
	"github.com/danielhkuo/connecthub/store"
)

// Test credentials used by GetTestConfig
const (
	TestAdminUsername = "admin"
	TestAdminPassword = "test-password"
	TestSessionSalt   = "test-session-salt"
)

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            8080,
		StoreType:       store.TypeCSV,
		DataFile:        "students.csv",
		AdminUsername:   TestAdminUsername,
		AdminPassword:   TestAdminPassword,
		SessionSalt:     TestSessionSalt,
		LoginRate:       0,
		GroupingURL:     "http://127.0.0.1:0/run",
		GroupingTimeout: time.Second,
	}
}

// SetupTestStore returns a CSV store backed by a file in t.TempDir()
func SetupTestStore(t *testing.T) *store.CSVStore {
	t.Helper()
	return store.NewCSVStore(filepath.Join(t.TempDir(), "students.csv"))
}

// SeedAttendees appends profiles to s and fails the test on error
func SeedAttendees(t *testing.T, s store.Store, profiles ...models.Profile) []models.Attendee {
	t.Helper()
	out := make([]models.Attendee, 0, len(profiles))
	for _, p := range profiles {
		a, err := s.Append(context.Background(), p)
		if err != nil {
			t.Fatalf("Failed to seed attendee: %v", err)
		}
		out = append(out, a)
	}
	return out
}

// App is the set of collaborators the HTTP layer is built from
type App struct {
	Config   cliparse.Config
	Store    *store.CSVStore
	Grouper  *FakeGrouper
	Sessions *session.Manager
	Flow     *flow.Controller
}

// NewTestApp wires a controller over a temp CSV store and a FakeGrouper
// that returns SampleGroups
func NewTestApp(t *testing.T, opts ...flow.Option) *App {
	t.Helper()
	cfg := GetTestConfig()
	st := SetupTestStore(t)
	g := &FakeGrouper{Response: SampleGroups()}
	creds := auth.Credentials{Username: cfg.AdminUsername, Password: cfg.AdminPassword}
	return &App{
		Config:   cfg,
		Store:    st,
		Grouper:  g,
		Sessions: session.NewManager(cfg.SessionSalt, 0),
		Flow:     flow.NewController(st, g, creds, opts...),
	}
}

// FakeGrouper records calls and returns a fixed response
type FakeGrouper struct {
	mu       sync.Mutex
	Response models.GroupingResponse
	calls    int
	queries  []string
}

func (g *FakeGrouper) RequestGroups(ctx context.Context, users []models.GroupingUser, query string) models.GroupingResponse {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.queries = append(g.queries, query)
	return g.Response
}

// Calls returns how many times RequestGroups ran
func (g *FakeGrouper) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// SampleGroups is a one-group response used across tests
func SampleGroups() models.GroupingResponse {
	return models.GroupingResponse{Groups: []models.Group{{
		Name:    "Team A",
		Reason:  "shared AI interest",
		Members: []models.Member{{Name: "Alice", Email: "a@x.com"}},
	}}}
}

// Browser is a session-holding client: it keeps the session cookie and
// fills in the CSRF token on form posts.
type Browser struct {
	// Header is added to every request the Browser sends
	Header http.Header

	t        *testing.T
	handler  http.Handler
	sessions *session.Manager
	cookie   *http.Cookie
}

// NewBrowser returns a Browser that sends requests to h.
func NewBrowser(t *testing.T, h http.Handler, sessions *session.Manager) *Browser {
	return &Browser{Header: http.Header{}, t: t, handler: h, sessions: sessions}
}

// Get performs a GET request
func (b *Browser) Get(path string) *httptest.ResponseRecorder {
	b.t.Helper()
	return b.do(httptest.NewRequest("GET", path, nil))
}

// Post submits form values with the session's CSRF token
func (b *Browser) Post(path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	if form.Get("csrf_token") == "" {
		form.Set("csrf_token", b.CSRFToken())
	}
	return b.do(MakeFormRequest("POST", path, form))
}

// PostRaw submits form values as-is
func (b *Browser) PostRaw(path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	return b.do(MakeFormRequest("POST", path, form))
}

// Login posts the test credentials and fails the test unless it succeeds
func (b *Browser) Login() {
	b.t.Helper()
	w := b.Post("/login", url.Values{
		"username": {TestAdminUsername},
		"password": {TestAdminPassword},
	})
	AssertStatus(b.t, w, http.StatusOK)
}

// Session returns the server-side session for the browser's cookie
func (b *Browser) Session() *session.Session {
	b.t.Helper()
	if b.cookie == nil {
		b.Get("/submit")
	}
	if b.cookie == nil {
		b.t.Fatal("No session cookie issued")
	}
	token := b.cookie.Value
	id, _, _ := strings.Cut(token, ".")
	s, ok := b.sessions.Get(id)
	if !ok {
		b.t.Fatalf("Session %s not found", id)
	}
	return s
}

// CSRFToken returns the current session's CSRF token, creating the
// session first if needed
func (b *Browser) CSRFToken() string {
	b.t.Helper()
	if b.cookie == nil {
		b.Get("/submit")
	}
	return b.Session().CSRFToken
}

func (b *Browser) do(req *http.Request) *httptest.ResponseRecorder {
	for k, vs := range b.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	w := httptest.NewRecorder()
	b.handler.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			b.cookie = c
		}
	}
	return w
}

// MakeFormRequest creates a url-encoded form request
func MakeFormRequest(method, path string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertRedirect checks for a 303 to location
func AssertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	AssertStatus(t, w, http.StatusSeeOther)
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("Expected redirect to %s, got %s", location, got)
	}
}

// AssertBodyContains checks that the response body contains each substring
func AssertBodyContains(t *testing.T, w *httptest.ResponseRecorder, substrs ...string) {
	t.Helper()
	body := w.Body.String()
	for _, s := range substrs {
		if !strings.Contains(body, s) {
			t.Errorf("Expected body to contain %q. Body: %s", s, body)
		}
	}
}
