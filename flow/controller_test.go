// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package flow

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/connecthub/auth"
	"github.com/danielhkuo/connecthub/events"
	"github.com/danielhkuo/connecthub/grouping"
	"github.com/danielhkuo/connecthub/models"
	"github.com/danielhkuo/connecthub/session"
	"github.com/danielhkuo/connecthub/store"
)

var testCreds = auth.Credentials{Username: "admin", Password: "s3cret"}

var teamA = []models.Group{{
	Name:    "Team A",
	Reason:  "shared AI interest",
	Members: []models.Member{{Name: "Alice", Email: "a@x.com"}},
}}

// countingGrouper records calls and answers with a fixed response.
type countingGrouper struct {
	calls atomic.Int32
	resp  models.GroupingResponse
}

func (g *countingGrouper) RequestGroups(ctx context.Context, users []models.GroupingUser, query string) models.GroupingResponse {
	g.calls.Add(1)
	return g.resp
}

type failingStore struct{}

func (failingStore) Load(context.Context) ([]models.Attendee, error) {
	return nil, &store.Error{Op: "load", Err: errors.New("permission denied")}
}

func (failingStore) Append(context.Context, models.Profile) (models.Attendee, error) {
	return models.Attendee{}, &store.Error{Op: "append", Err: errors.New("permission denied")}
}

func (failingStore) Close() error { return nil }

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(ctx context.Context, topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	return store.NewCSVStore(filepath.Join(t.TempDir(), "students.csv"))
}

func seed(t *testing.T, s store.Store, names ...string) {
	t.Helper()
	for _, name := range names {
		_, err := s.Append(context.Background(), models.Profile{Name: name, Email: name + "@x.com"})
		require.NoError(t, err)
	}
}

func loggedInSession(t *testing.T, c *Controller) *session.Session {
	t.Helper()
	s := session.New("test-session", "csrf")
	require.NoError(t, c.Login(s, LoginAttempt{Username: "admin", Password: "s3cret"}))
	return s
}

func TestLogin(t *testing.T) {
	c := NewController(newTestStore(t), &countingGrouper{}, testCreds)

	t.Run("valid credentials", func(t *testing.T) {
		s := session.New("a", "csrf")
		require.NoError(t, c.Login(s, LoginAttempt{Username: "admin", Password: "s3cret"}))

		st := s.Snapshot()
		assert.True(t, st.LoggedIn)
		assert.False(t, st.HasGroups())
		assert.Equal(t, StateDashboard, StateOf(s))
	})

	t.Run("invalid credentials", func(t *testing.T) {
		s := session.New("b", "csrf")
		err := c.Login(s, LoginAttempt{Username: "admin", Password: "wrong"})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, StateUnauthenticated, StateOf(s))
	})

	t.Run("already logged in", func(t *testing.T) {
		s := loggedInSession(t, c)
		assert.ErrorIs(t, c.Login(s, LoginAttempt{Username: "admin", Password: "s3cret"}), ErrWrongState)
	})
}

func TestLogin_Throttled(t *testing.T) {
	c := NewController(newTestStore(t), &countingGrouper{}, testCreds, WithLoginLimiter(auth.NewLoginLimiter(2)))
	s := session.New("a", "csrf")
	bad := LoginAttempt{Username: "admin", Password: "wrong", ClientKey: "ip-1"}

	assert.ErrorIs(t, c.Login(s, bad), ErrInvalidCredentials)
	assert.ErrorIs(t, c.Login(s, bad), ErrInvalidCredentials)
	assert.ErrorIs(t, c.Login(s, bad), ErrTooManyAttempts)

	// Even correct credentials are refused while throttled
	good := LoginAttempt{Username: "admin", Password: "s3cret", ClientKey: "ip-1"}
	assert.ErrorIs(t, c.Login(s, good), ErrTooManyAttempts)
	assert.False(t, s.Snapshot().LoggedIn)
}

func TestLogout_ClearsGroups(t *testing.T) {
	st := newTestStore(t)
	seed(t, st, "alice")
	c := NewController(st, &countingGrouper{resp: models.GroupingResponse{Groups: teamA}}, testCreds)
	s := loggedInSession(t, c)

	_, err := c.Generate(context.Background(), s, "group by AI")
	require.NoError(t, err)
	require.True(t, s.Snapshot().HasGroups())

	require.NoError(t, c.Logout(s))

	snap := s.Snapshot()
	assert.False(t, snap.LoggedIn)
	assert.Nil(t, snap.Groups)
	assert.ErrorIs(t, c.Logout(s), ErrNotAuthenticated)
}

func TestSubmitProfile(t *testing.T) {
	st := newTestStore(t)
	pub := &recordingPublisher{}
	c := NewController(st, &countingGrouper{}, testCreds, WithPublisher(pub))
	s := session.New("a", "csrf")
	ctx := context.Background()

	a, err := c.SubmitProfile(ctx, s, models.Profile{
		Name:                 "  Alice ",
		Email:                " a@x.com ",
		Interests:            " AI \n",
		LookingToConnectWith: " founders ",
	})
	require.NoError(t, err)
	assert.Equal(t, models.Attendee{
		ID:                   1,
		Name:                 "Alice",
		Email:                "a@x.com",
		Interests:            "AI",
		LookingToConnectWith: "founders",
	}, a)
	assert.Equal(t, []string{events.TopicAttendeeSubmitted}, pub.topics)

	invalid := []models.Profile{
		{Name: "", Email: "b@x.com"},
		{Name: "Bob", Email: ""},
		{Name: "   ", Email: "   "},
	}
	for _, p := range invalid {
		_, err := c.SubmitProfile(ctx, s, p)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, MsgNameEmailRequired, ve.Message)
	}

	attendees, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, attendees, 1, "invalid submissions must not grow the store")
	assert.Equal(t, StateUnauthenticated, StateOf(s))
}

func TestSubmitProfile_NotReachableWhenLoggedIn(t *testing.T) {
	c := NewController(newTestStore(t), &countingGrouper{}, testCreds)
	s := loggedInSession(t, c)

	_, err := c.SubmitProfile(context.Background(), s, models.Profile{Name: "Alice", Email: "a@x.com"})

	assert.ErrorIs(t, err, ErrWrongState)
}

func TestSubmitProfile_StorageErrorPropagates(t *testing.T) {
	c := NewController(failingStore{}, &countingGrouper{}, testCreds)

	_, err := c.SubmitProfile(context.Background(), session.New("a", "csrf"), models.Profile{Name: "Alice", Email: "a@x.com"})

	require.Error(t, err)
	assert.True(t, store.IsStorageError(err))
}

func TestGenerate_Success(t *testing.T) {
	st := newTestStore(t)
	seed(t, st, "alice", "bob")
	g := &countingGrouper{resp: models.GroupingResponse{Groups: teamA}}
	pub := &recordingPublisher{}
	c := NewController(st, g, testCreds, WithPublisher(pub))
	s := loggedInSession(t, c)

	out, err := c.Generate(context.Background(), s, "group by AI")

	require.NoError(t, err)
	assert.Equal(t, Outcome{Called: true, Groups: 1}, out)
	assert.Equal(t, int32(1), g.calls.Load())
	snap := s.Snapshot()
	assert.Equal(t, teamA, snap.Groups)
	assert.False(t, snap.Pending)
	assert.False(t, snap.GeneratedAt.IsZero())
	assert.Contains(t, pub.topics, events.TopicGroupsGenerated)
}

func TestGenerate_SendsAllAttendeesInOrder(t *testing.T) {
	st := newTestStore(t)
	seed(t, st, "alice", "bob", "carol")

	var got []models.GroupingUser
	var gotQuery string
	g := grouping.Func(func(ctx context.Context, users []models.GroupingUser, query string) models.GroupingResponse {
		got = users
		gotQuery = query
		return models.GroupingResponse{Groups: []models.Group{}}
	})
	c := NewController(st, g, testCreds)
	s := loggedInSession(t, c)

	_, err := c.Generate(context.Background(), s, "introverts into ML")
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "alice", got[0].Name)
	assert.Equal(t, "carol@x.com", got[2].Email)
	assert.Equal(t, "introverts into ML", gotQuery)
	assert.True(t, s.Snapshot().HasGroups(), "an empty group list still counts as generated")
}

func TestGenerate_NoOpWhenGroupsPopulated(t *testing.T) {
	st := newTestStore(t)
	seed(t, st, "alice")
	g := &countingGrouper{resp: models.GroupingResponse{Groups: teamA}}
	c := NewController(st, g, testCreds)
	s := loggedInSession(t, c)

	_, err := c.Generate(context.Background(), s, "q")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		out, err := c.Generate(context.Background(), s, "another query")
		require.NoError(t, err)
		assert.True(t, out.Skipped)
	}
	assert.Equal(t, int32(1), g.calls.Load())
	assert.Equal(t, teamA, s.Snapshot().Groups)
}

func TestGenerate_SingleCallWhilePending(t *testing.T) {
	st := newTestStore(t)
	seed(t, st, "alice")

	var calls atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	g := grouping.Func(func(ctx context.Context, users []models.GroupingUser, query string) models.GroupingResponse {
		calls.Add(1)
		close(entered)
		<-release
		return models.GroupingResponse{Groups: teamA}
	})
	c := NewController(st, g, testCreds)
	s := loggedInSession(t, c)

	done := make(chan error, 1)
	go func() {
		_, err := c.Generate(context.Background(), s, "q")
		done <- err
	}()
	<-entered

	assert.True(t, s.Snapshot().Pending)
	for i := 0; i < 5; i++ {
		out, err := c.Generate(context.Background(), s, "q")
		require.NoError(t, err)
		assert.True(t, out.Skipped)
		assert.False(t, out.Called)
	}

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, s.Snapshot().Pending)
}

func TestGenerate_RemoteErrorKeepsGroupsAbsent(t *testing.T) {
	st := newTestStore(t)
	seed(t, st, "alice")
	g := &countingGrouper{resp: models.GroupingResponse{Error: "boom"}}
	c := NewController(st, g, testCreds)
	s := loggedInSession(t, c)

	out, err := c.Generate(context.Background(), s, "q")

	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "boom", re.Message)
	assert.True(t, out.Called)
	assert.False(t, s.Snapshot().HasGroups())

	notice, ok := NoticeFor(err)
	require.True(t, ok)
	assert.Equal(t, Error("boom"), notice)

	// Retry is permitted and reaches the service again
	_, err = c.Generate(context.Background(), s, "q")
	require.Error(t, err)
	assert.Equal(t, int32(2), g.calls.Load())
}

func TestGenerate_EmptyErrorIsStillAFailure(t *testing.T) {
	tests := []struct {
		name string
		resp models.GroupingResponse
	}{
		{"empty error text", models.GroupingResponse{Error: ""}},
		{"blank error text", models.GroupingResponse{Error: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestStore(t)
			seed(t, st, "alice")
			var calls int
			g := grouping.Func(func(ctx context.Context, users []models.GroupingUser, query string) models.GroupingResponse {
				calls++
				return tt.resp
			})
			c := NewController(st, g, testCreds)
			s := loggedInSession(t, c)

			out, err := c.Generate(context.Background(), s, "q")

			var re *RemoteError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, grouping.ErrMessageUnknown, re.Message)
			assert.True(t, out.Called)
			assert.False(t, s.Snapshot().HasGroups())

			// Not skipped: the next action reaches the service again
			out, err = c.Generate(context.Background(), s, "q")
			require.Error(t, err)
			assert.False(t, out.Skipped)
			assert.Equal(t, 2, calls)
		})
	}
}

func TestGenerate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		seed    []string
		query   string
		message string
		warning bool
	}{
		{"empty store", nil, "group by AI", MsgNoData, true},
		{"empty query", []string{"alice"}, "", MsgQueryRequired, false},
		{"blank query", []string{"alice"}, "   ", MsgQueryRequired, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestStore(t)
			seed(t, st, tt.seed...)
			g := &countingGrouper{resp: models.GroupingResponse{Groups: teamA}}
			c := NewController(st, g, testCreds)
			s := loggedInSession(t, c)

			_, err := c.Generate(context.Background(), s, tt.query)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.message, ve.Message)
			assert.Equal(t, tt.warning, ve.Warning)
			assert.Equal(t, int32(0), g.calls.Load())

			snap := s.Snapshot()
			assert.False(t, snap.HasGroups())
			assert.False(t, snap.Pending, "pending must be released after validation failure")
		})
	}
}

func TestGenerate_NotAuthenticated(t *testing.T) {
	g := &countingGrouper{}
	c := NewController(newTestStore(t), g, testCreds)

	_, err := c.Generate(context.Background(), session.New("a", "csrf"), "q")

	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, int32(0), g.calls.Load())
}

func TestGenerate_StorageError(t *testing.T) {
	g := &countingGrouper{}
	c := NewController(failingStore{}, g, testCreds)
	s := loggedInSession(t, c)

	_, err := c.Generate(context.Background(), s, "q")

	require.Error(t, err)
	assert.True(t, store.IsStorageError(err))
	assert.False(t, s.Snapshot().Pending)
	assert.Equal(t, int32(0), g.calls.Load())
}

func TestGenerate_SurvivesCancelledRequest(t *testing.T) {
	st := newTestStore(t)
	seed(t, st, "alice")
	g := grouping.Func(func(ctx context.Context, users []models.GroupingUser, query string) models.GroupingResponse {
		if ctx.Err() != nil {
			return models.GroupingResponse{Error: ctx.Err().Error()}
		}
		return models.GroupingResponse{Groups: teamA}
	})
	c := NewController(st, g, testCreds)
	s := loggedInSession(t, c)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Load on the CSV store ignores ctx, so only the grouping call could observe it
	_, err := c.Generate(ctx, s, "q")

	require.NoError(t, err)
	assert.Equal(t, teamA, s.Snapshot().Groups)
}

func TestGenerate_LogoutWhilePendingDiscardsResult(t *testing.T) {
	st := newTestStore(t)
	seed(t, st, "alice")

	entered := make(chan struct{})
	release := make(chan struct{})
	g := grouping.Func(func(ctx context.Context, users []models.GroupingUser, query string) models.GroupingResponse {
		close(entered)
		<-release
		return models.GroupingResponse{Groups: teamA}
	})
	c := NewController(st, g, testCreds)
	s := loggedInSession(t, c)

	done := make(chan struct{})
	go func() {
		c.Generate(context.Background(), s, "q")
		close(done)
	}()
	<-entered
	require.NoError(t, c.Logout(s))
	close(release)
	<-done

	snap := s.Snapshot()
	assert.False(t, snap.LoggedIn)
	assert.Nil(t, snap.Groups)
}

func TestReset(t *testing.T) {
	st := newTestStore(t)
	seed(t, st, "alice")
	g := &countingGrouper{resp: models.GroupingResponse{Groups: teamA}}
	c := NewController(st, g, testCreds)
	s := loggedInSession(t, c)

	// Reset with groups absent is allowed and keeps them absent
	require.NoError(t, c.Reset(s))
	assert.False(t, s.Snapshot().HasGroups())

	_, err := c.Generate(context.Background(), s, "q")
	require.NoError(t, err)
	require.NoError(t, c.Reset(s))
	assert.False(t, s.Snapshot().HasGroups())
	assert.True(t, s.Snapshot().LoggedIn)

	// Generation is permitted again after reset
	out, err := c.Generate(context.Background(), s, "q")
	require.NoError(t, err)
	assert.True(t, out.Called)
	assert.Equal(t, int32(2), g.calls.Load())

	assert.ErrorIs(t, c.Reset(session.New("x", "csrf")), ErrNotAuthenticated)
}

func TestRender_Unauthenticated(t *testing.T) {
	c := NewController(newTestStore(t), &countingGrouper{}, testCreds)
	s := session.New("a", "csrf-token")

	v, err := c.Render(context.Background(), s, RenderOptions{Page: PageDashboard})

	require.NoError(t, err)
	assert.Equal(t, StateUnauthenticated, v.State)
	assert.Equal(t, PageLogin, v.Page, "dashboard is not reachable while logged out")
	assert.Equal(t, "csrf-token", v.CSRFToken)
	require.Len(t, v.Nav, 2)
	assert.Equal(t, "Submit Profile", v.Nav[0].Label)
	assert.Equal(t, "Admin Login", v.Nav[1].Label)
	assert.True(t, v.Nav[1].Active)
}

func TestRender_Dashboard(t *testing.T) {
	st := newTestStore(t)
	seed(t, st, "alice", "bob")
	c := NewController(st, &countingGrouper{resp: models.GroupingResponse{Groups: teamA}}, testCreds)
	s := loggedInSession(t, c)
	_, err := c.Generate(context.Background(), s, "group by AI")
	require.NoError(t, err)

	v, err := c.Render(context.Background(), s, RenderOptions{Page: PageSubmit})

	require.NoError(t, err)
	assert.Equal(t, PageDashboard, v.Page)
	require.Len(t, v.Nav, 2)
	assert.Equal(t, "Admin Dashboard", v.Nav[0].Label)
	assert.Equal(t, "Logout", v.Nav[1].Label)
	assert.True(t, v.Nav[1].Post)
	assert.Equal(t, 2, v.TotalAttendees)
	assert.Len(t, v.Attendees, 2)
	assert.Equal(t, "group by AI", v.Query)
	assert.True(t, v.GroupsGenerated)
	assert.Equal(t, teamA, v.Groups)
}

func TestRender_DashboardStorageError(t *testing.T) {
	c := NewController(failingStore{}, &countingGrouper{}, testCreds)
	s := loggedInSession(t, c)

	_, err := c.Render(context.Background(), s, RenderOptions{Page: PageDashboard})

	assert.True(t, store.IsStorageError(err))
}

func TestFilterAttendees(t *testing.T) {
	attendees := []models.Attendee{
		{ID: 1, Name: "Alice", Email: "alice@x.com", Interests: "machine learning"},
		{ID: 2, Name: "Bob", Email: "bob@x.com", Interests: "gardening"},
		{ID: 3, Name: "Carol", Email: "carol@x.com", LookingToConnectWith: "ML researchers"},
	}

	assert.Len(t, FilterAttendees(attendees, ""), 3)

	byName := FilterAttendees(attendees, "ALI")
	require.Len(t, byName, 1)
	assert.Equal(t, 1, byName[0].ID)

	byInterest := FilterAttendees(attendees, "garden")
	require.Len(t, byInterest, 1)
	assert.Equal(t, 2, byInterest[0].ID)

	assert.Empty(t, FilterAttendees(attendees, "zzz"))
}

func TestNoticeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Notice
		ok   bool
	}{
		{"nil", nil, Notice{}, false},
		{"validation", &ValidationError{Message: MsgQueryRequired}, Error(MsgQueryRequired), true},
		{"warning", &ValidationError{Message: MsgNoData, Warning: true}, Warning(MsgNoData), true},
		{"credentials", ErrInvalidCredentials, Error(MsgInvalidCredentials), true},
		{"throttled", ErrTooManyAttempts, Error(MsgTooManyAttempts), true},
		{"storage", &store.Error{Op: "load", Err: errors.New("eio")}, Notice{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NoticeFor(tt.err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
