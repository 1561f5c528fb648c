// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/connecthub/flow"
	"github.com/danielhkuo/connecthub/models"
)

// Page renders the full document for v.
func Page(v flow.View) templ.Component {
	switch v.Page {
	case flow.PageDashboard:
		return Layout("Admin Dashboard", v, Dashboard(v))
	case flow.PageLogin:
		return Layout("Admin Login", v, LoginForm(v))
	default:
		return Layout("Submit Profile", v, SubmitForm(v))
	}
}

// SubmitForm is the public profile form.
func SubmitForm(v flow.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<h2>Welcome to ConnectHub 🤝</h2>")
		h.raw("<p>Meet like-minded people at conferences, workshops, and events.</p>")
		h.raw("<form method=\"post\" action=\"/submit\">")
		csrfField(h, v.CSRFToken)
		textInput(h, "name", "Full Name", "text", v.Profile.Name)
		textInput(h, "email", "Email", "email", v.Profile.Email)
		textArea(h, "interests", "Your Interests", v.Profile.Interests)
		textArea(h, "looking_to_connect_with", "Who you'd like to connect with", v.Profile.LookingToConnectWith)
		h.raw("<button class=\"btn\" type=\"submit\">Join Event</button></form>")
		return h.err
	})
}

// LoginForm is the admin login form.
func LoginForm(v flow.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<h2>Admin Login</h2><form method=\"post\" action=\"/login\">")
		csrfField(h, v.CSRFToken)
		textInput(h, "username", "Username", "text", v.Username)
		textInput(h, "password", "Password", "password", "")
		h.raw("<button class=\"btn\" type=\"submit\">Login</button></form>")
		return h.err
	})
}

// Dashboard shows the attendee table, the grouping controls and any
// generated groups.
func Dashboard(v flow.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<h2>Admin Dashboard</h2>")

		h.raw("<h3>Attendee Data</h3><p>")
		h.text(humanize.Comma(int64(v.TotalAttendees)) + " " + plural(v.TotalAttendees, "attendee", "attendees"))
		h.raw(" · <a href=\"/admin/attendees.csv\">Download CSV</a></p>")

		h.raw("<form method=\"get\" action=\"/admin\"><label for=\"filter\">Filter</label>")
		h.raw("<input id=\"filter\" name=\"filter\" type=\"search\"")
		h.attr("value", v.Filter)
		h.raw("></form>")
		h.component(ctx, AttendeeTable(v.Attendees))

		h.raw("<hr><h3>Create Groups</h3>")
		h.raw("<form method=\"post\" action=\"/admin/groups\">")
		csrfField(h, v.CSRFToken)
		h.raw("<label for=\"query\">Grouping Query</label>")
		h.raw("<input id=\"query\" name=\"query\" type=\"text\" placeholder=\"Example: Group introverts interested in AI and ML\"")
		h.attr("value", v.Query)
		h.raw("><div class=\"actions\"><button class=\"btn\" type=\"submit\">Generate Groups</button>")
		h.raw("<button class=\"btn\" type=\"submit\" formaction=\"/admin/groups/reset\">Reset Groups</button></div></form>")

		if v.Pending {
			h.raw("<p>Generating groups…</p>")
		}
		if len(v.Groups) > 0 {
			h.raw("<h3>🤝 Generated Groups</h3>")
			if !v.GeneratedAt.IsZero() {
				h.raw("<p><small>Generated ")
				h.text(humanize.Time(v.GeneratedAt))
				h.raw("</small></p>")
			}
			h.component(ctx, GroupList(v.Groups))
		}
		return h.err
	})
}

// AttendeeTable lists attendees in table order.
func AttendeeTable(attendees []models.Attendee) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<table><thead><tr>")
		for _, col := range models.Columns {
			h.raw("<th>")
			h.text(col)
			h.raw("</th>")
		}
		h.raw("</tr></thead><tbody>")
		for _, a := range attendees {
			h.raw("<tr>")
			for _, cell := range []string{strconv.Itoa(a.ID), a.Name, a.Email, a.Interests, a.LookingToConnectWith} {
				h.raw("<td>")
				h.text(cell)
				h.raw("</td>")
			}
			h.raw("</tr>")
		}
		h.raw("</tbody></table>")
		return h.err
	})
}

// GroupList renders one section per group with its reason and members.
func GroupList(groups []models.Group) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		for _, g := range groups {
			h.raw("<section class=\"group\"><h4>")
			h.text(g.Name)
			h.raw("</h4><p>")
			h.text(g.Reason)
			h.raw("</p><ul>")
			for _, m := range g.Members {
				h.raw("<li>")
				h.text(m.Name + " (" + m.Email + ")")
				h.raw("</li>")
			}
			h.raw("</ul></section>")
		}
		return h.err
	})
}

// ErrorPage is a standalone page for failures that have no inline notice.
func ErrorPage(title, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"><title>")
		h.text(title + " · " + AppName)
		h.raw("</title><style>" + stylesheet + "</style></head><body><main><h2>")
		h.text(title)
		h.raw("</h2>")
		noticeBox(h, flow.Error(message))
		h.raw("<p><a href=\"/\">Back</a></p></main></body></html>")
		return h.err
	})
}

func textInput(h *htmlWriter, name, label, inputType, value string) {
	h.raw("<label")
	h.attr("for", name)
	h.raw(">")
	h.text(label)
	h.raw("</label><input")
	h.attr("id", name)
	h.attr("name", name)
	h.attr("type", inputType)
	if value != "" {
		h.attr("value", value)
	}
	h.raw(">")
}

func textArea(h *htmlWriter, name, label, value string) {
	h.raw("<label")
	h.attr("for", name)
	h.raw(">")
	h.text(label)
	h.raw("</label><textarea rows=\"3\"")
	h.attr("id", name)
	h.attr("name", name)
	h.raw(">")
	h.text(value)
	h.raw("</textarea>")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
