// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package flow

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/danielhkuo/connecthub/auth"
	"github.com/danielhkuo/connecthub/events"
	"github.com/danielhkuo/connecthub/grouping"
	"github.com/danielhkuo/connecthub/models"
	"github.com/danielhkuo/connecthub/session"
	"github.com/danielhkuo/connecthub/store"
)

// Controller runs the session state machine: login, logout, profile
// submission, group generation and reset.
type Controller struct {
	store   store.Store
	grouper grouping.Grouper
	creds   auth.Credentials
	limiter *auth.LoginLimiter
	events  events.Publisher
	now     func() time.Time
}

// Option configures optional Controller collaborators.
type Option func(*Controller)

// WithLoginLimiter throttles Login per LoginAttempt.ClientKey.
func WithLoginLimiter(l *auth.LoginLimiter) Option {
	return func(c *Controller) { c.limiter = l }
}

// WithPublisher emits submission and grouping events.
func WithPublisher(p events.Publisher) Option {
	return func(c *Controller) { c.events = p }
}

func NewController(s store.Store, g grouping.Grouper, creds auth.Credentials, opts ...Option) *Controller {
	c := &Controller{
		store:   s,
		grouper: g,
		creds:   creds,
		events:  events.NoopPublisher{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StateOf returns the top-level state of s.
func StateOf(s *session.Session) StateName {
	if s.Snapshot().LoggedIn {
		return StateDashboard
	}
	return StateUnauthenticated
}

// LoginAttempt is a submitted login form.
type LoginAttempt struct {
	Username  string
	Password  string
	ClientKey string
}

// Login moves s to the dashboard with no groups when the credentials match.
func (c *Controller) Login(s *session.Session, a LoginAttempt) error {
	if StateOf(s) != StateUnauthenticated {
		return ErrWrongState
	}
	if c.limiter != nil && !c.limiter.Allow(a.ClientKey) {
		slog.Warn("login throttled", "client", a.ClientKey)
		return ErrTooManyAttempts
	}
	if !c.creds.Check(a.Username, a.Password) {
		slog.Warn("login failed", "client", a.ClientKey)
		return ErrInvalidCredentials
	}

	s.Update(func(st *session.State) {
		*st = session.State{LoggedIn: true}
	})
	slog.Info("admin logged in", "client", a.ClientKey)
	return nil
}

// Logout returns s to the unauthenticated state and clears its groups.
func (c *Controller) Logout(s *session.Session) error {
	if StateOf(s) != StateDashboard {
		return ErrNotAuthenticated
	}
	s.Update(func(st *session.State) {
		*st = session.State{}
	})
	slog.Info("admin logged out")
	return nil
}

// SubmitProfile trims and validates p, then appends it to the store. Name
// and email are required. Only reachable while logged out.
func (c *Controller) SubmitProfile(ctx context.Context, s *session.Session, p models.Profile) (models.Attendee, error) {
	if StateOf(s) != StateUnauthenticated {
		return models.Attendee{}, ErrWrongState
	}

	p = models.Profile{
		Name:                 strings.TrimSpace(p.Name),
		Email:                strings.TrimSpace(p.Email),
		Interests:            strings.TrimSpace(p.Interests),
		LookingToConnectWith: strings.TrimSpace(p.LookingToConnectWith),
	}
	if p.Name == "" || p.Email == "" {
		return models.Attendee{}, &ValidationError{Message: MsgNameEmailRequired}
	}

	a, err := c.store.Append(ctx, p)
	if err != nil {
		return models.Attendee{}, err
	}

	slog.Info("attendee submitted", "id", a.ID)
	c.publish(ctx, events.TopicAttendeeSubmitted, events.AttendeeSubmitted{Attendee: a})
	return a, nil
}

// Outcome describes what a Generate action did.
type Outcome struct {
	// Skipped is true when groups already exist or a call is in flight.
	Skipped bool
	// Called is true when the grouping service was contacted.
	Called bool
	Groups int
}

// Generate asks the grouping service for groups, at most once per session
// until Reset. While groups are populated or a call for this session is in
// flight, Generate is a no-op. A remote failure leaves groups absent so the
// action can be retried.
func (c *Controller) Generate(ctx context.Context, s *session.Session, query string) (Outcome, error) {
	var (
		loggedIn bool
		claimed  bool
	)
	s.Update(func(st *session.State) {
		loggedIn = st.LoggedIn
		if !st.LoggedIn {
			return
		}
		st.Query = query
		if st.HasGroups() || st.Pending {
			return
		}
		st.Pending = true
		claimed = true
	})
	if !loggedIn {
		return Outcome{}, ErrNotAuthenticated
	}
	if !claimed {
		slog.Info("group generation skipped")
		return Outcome{Skipped: true}, nil
	}

	release := func(record func(*session.State)) {
		s.Update(func(st *session.State) {
			st.Pending = false
			if record != nil && st.LoggedIn {
				record(st)
			}
		})
	}

	attendees, err := c.store.Load(ctx)
	if err != nil {
		release(nil)
		return Outcome{}, err
	}
	if len(attendees) == 0 {
		release(nil)
		return Outcome{}, &ValidationError{Message: MsgNoData, Warning: true}
	}
	if strings.TrimSpace(query) == "" {
		release(nil)
		return Outcome{}, &ValidationError{Message: MsgQueryRequired}
	}

	// The call outlives a cancelled request so its result is still recorded.
	callCtx := context.WithoutCancel(ctx)
	start := c.now()
	resp := c.grouper.RequestGroups(callCtx, models.GroupingUsers(attendees), query)

	if resp.Failed() {
		release(nil)
		msg := strings.TrimSpace(resp.Error)
		if msg == "" {
			msg = grouping.ErrMessageUnknown
		}
		slog.Warn("group generation failed", "error", msg, "attendees", len(attendees))
		return Outcome{Called: true}, &RemoteError{Message: msg}
	}

	groups := resp.Groups
	generatedAt := c.now()
	release(func(st *session.State) {
		st.Groups = groups
		st.GeneratedAt = generatedAt
	})

	slog.Info("groups generated",
		"groups", len(groups),
		"attendees", len(attendees),
		"duration_ms", generatedAt.Sub(start).Milliseconds(),
	)
	c.publish(callCtx, events.TopicGroupsGenerated, events.GroupsGenerated{
		Query:     query,
		Attendees: len(attendees),
		Groups:    groups,
	})
	return Outcome{Called: true, Groups: len(groups)}, nil
}

// Reset clears generated groups so Generate is permitted again.
func (c *Controller) Reset(s *session.Session) error {
	var loggedIn bool
	s.Update(func(st *session.State) {
		loggedIn = st.LoggedIn
		if loggedIn {
			st.Groups = nil
			st.GeneratedAt = time.Time{}
		}
	})
	if !loggedIn {
		return ErrNotAuthenticated
	}
	return nil
}

// Attendees returns the full attendee table for a logged-in session.
func (c *Controller) Attendees(ctx context.Context, s *session.Session) ([]models.Attendee, error) {
	if StateOf(s) != StateDashboard {
		return nil, ErrNotAuthenticated
	}
	return c.store.Load(ctx)
}

// Render builds the View for the session's current state. A page that is not
// reachable from the current state is replaced by that state's default page.
func (c *Controller) Render(ctx context.Context, s *session.Session, opts RenderOptions) (View, error) {
	st := s.Snapshot()
	state := StateUnauthenticated
	if st.LoggedIn {
		state = StateDashboard
	}

	page := opts.Page
	switch {
	case state == StateDashboard:
		page = PageDashboard
	case page == PageDashboard:
		page = PageLogin
	}

	v := View{
		State:     state,
		Page:      page,
		Nav:       navFor(state, page),
		Notice:    opts.Notice,
		CSRFToken: s.CSRFToken,
		Profile:   opts.Profile,
		Username:  opts.Username,
	}
	if page != PageDashboard {
		return v, nil
	}

	attendees, err := c.store.Load(ctx)
	if err != nil {
		return View{}, err
	}
	query := opts.Query
	if query == "" {
		query = st.Query
	}
	v.TotalAttendees = len(attendees)
	v.Filter = strings.TrimSpace(opts.Filter)
	v.Attendees = FilterAttendees(attendees, v.Filter)
	v.Query = query
	v.Groups = st.Groups
	v.GroupsGenerated = st.HasGroups()
	v.GeneratedAt = st.GeneratedAt
	v.Pending = st.Pending
	return v, nil
}

// FilterAttendees keeps attendees whose name, email, interests or
// connection wishes fuzzily contain filter. An empty filter keeps all.
func FilterAttendees(attendees []models.Attendee, filter string) []models.Attendee {
	if filter == "" {
		return attendees
	}
	matched := make([]models.Attendee, 0, len(attendees))
	for _, a := range attendees {
		if fuzzy.MatchFold(filter, a.Name) ||
			fuzzy.MatchFold(filter, a.Email) ||
			fuzzy.MatchFold(filter, a.Interests) ||
			fuzzy.MatchFold(filter, a.LookingToConnectWith) {
			matched = append(matched, a)
		}
	}
	return matched
}

func (c *Controller) publish(ctx context.Context, topic string, event any) {
	if err := c.events.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
}
