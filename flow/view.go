// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package flow

import (
	"time"

	"github.com/danielhkuo/connecthub/models"
)

// StateName is the top-level state of a session.
type StateName int

const (
	StateUnauthenticated StateName = iota
	StateDashboard
)

func (s StateName) String() string {
	switch s {
	case StateDashboard:
		return "dashboard"
	default:
		return "unauthenticated"
	}
}

// Page is one of the rendered views.
type Page int

const (
	PageSubmit Page = iota
	PageLogin
	PageDashboard
)

// User-facing messages
const (
	MsgProfileSubmitted   = "Profile submitted successfully!"
	MsgNameEmailRequired  = "Name and email are required"
	MsgLoggedIn           = "Logged in"
	MsgLoggedOut          = "Logged out"
	MsgInvalidCredentials = "Invalid credentials"
	MsgTooManyAttempts    = "Too many login attempts. Try again in a minute."
	MsgNoData             = "No data available"
	MsgQueryRequired      = "Please enter a query"
	MsgGroupsGenerated    = "Groups generated"
	MsgGroupsReset        = "Groups cleared"
	MsgGenerationSkipped  = "Groups already generated. Reset them to generate again."
)

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Notice is an inline message rendered above the page content.
type Notice struct {
	Kind    NoticeKind
	Message string
}

func Success(msg string) Notice { return Notice{Kind: NoticeSuccess, Message: msg} }
func Info(msg string) Notice    { return Notice{Kind: NoticeInfo, Message: msg} }
func Warning(msg string) Notice { return Notice{Kind: NoticeWarning, Message: msg} }
func Error(msg string) Notice   { return Notice{Kind: NoticeError, Message: msg} }

// NavItem is one sidebar entry. Post items are submitted as forms.
type NavItem struct {
	Label  string
	Href   string
	Post   bool
	Active bool
}

// View is everything a renderer needs for one page.
type View struct {
	State     StateName
	Page      Page
	Nav       []NavItem
	Notice    *Notice
	CSRFToken string

	// Submit Profile
	Profile models.Profile

	// Admin Login
	Username string

	// Admin Dashboard
	Attendees       []models.Attendee
	TotalAttendees  int
	Filter          string
	Query           string
	Groups          []models.Group
	GroupsGenerated bool
	GeneratedAt     time.Time
	Pending         bool
}

// RenderOptions carries request-scoped inputs for Render.
type RenderOptions struct {
	Page     Page
	Notice   *Notice
	Profile  models.Profile
	Username string
	Filter   string
	Query    string
}

func navFor(state StateName, page Page) []NavItem {
	if state == StateDashboard {
		return []NavItem{
			{Label: "Admin Dashboard", Href: "/admin", Active: page == PageDashboard},
			{Label: "Logout", Href: "/logout", Post: true},
		}
	}
	return []NavItem{
		{Label: "Submit Profile", Href: "/submit", Active: page == PageSubmit},
		{Label: "Admin Login", Href: "/login", Active: page == PageLogin},
	}
}
