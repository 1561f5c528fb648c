// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/connecthub/auth"
	"github.com/danielhkuo/connecthub/cliparse"
	"github.com/danielhkuo/connecthub/flow"
	"github.com/danielhkuo/connecthub/middleware"
	"github.com/danielhkuo/connecthub/models"
	"github.com/danielhkuo/connecthub/session"
)

// ProfileHandler serves the public views: profile submission, admin login
// and logout.
type ProfileHandler struct {
	ui
}

func NewProfileHandler(ctrl *flow.Controller, sessions *session.Manager, cfg cliparse.Config) *ProfileHandler {
	return &ProfileHandler{ui{flow: ctrl, sessions: sessions, cfg: cfg}}
}

// Root handles GET / by sending the browser to its state's default view
func (h *ProfileHandler) Root(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	if flow.StateOf(s) == flow.StateDashboard {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/submit", http.StatusSeeOther)
}

// SubmitForm handles GET /submit
func (h *ProfileHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	if flow.StateOf(s) == flow.StateDashboard {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	h.render(w, r, s, http.StatusOK, flow.RenderOptions{Page: flow.PageSubmit})
}

// Submit handles POST /submit
func (h *ProfileHandler) Submit(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil || !h.form(w, r, s) {
		return
	}

	p := models.Profile{
		Name:                 r.PostForm.Get(models.ColumnName),
		Email:                r.PostForm.Get(models.ColumnEmail),
		Interests:            r.PostForm.Get(models.ColumnInterests),
		LookingToConnectWith: r.PostForm.Get(models.ColumnLookingToConnectWith),
	}
	opts := flow.RenderOptions{Page: flow.PageSubmit}

	if _, err := h.flow.SubmitProfile(r.Context(), s, p); err != nil {
		// Keep what the user typed so they can fix it
		opts.Profile = p
		h.fail(w, r, s, err, opts)
		return
	}
	h.notify(w, r, s, flow.Success(flow.MsgProfileSubmitted), opts)
}

// LoginForm handles GET /login
func (h *ProfileHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	if flow.StateOf(s) == flow.StateDashboard {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	h.render(w, r, s, http.StatusOK, flow.RenderOptions{Page: flow.PageLogin})
}

// Login handles POST /login
func (h *ProfileHandler) Login(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil || !h.form(w, r, s) {
		return
	}

	attempt := flow.LoginAttempt{
		Username:  r.PostForm.Get("username"),
		Password:  r.PostForm.Get("password"),
		ClientKey: auth.HashIP(middleware.GetClientIP(r, h.cfg.TrustProxy), h.cfg.SessionSalt),
	}
	opts := flow.RenderOptions{Page: flow.PageLogin, Username: attempt.Username}

	if err := h.flow.Login(s, attempt); err != nil {
		h.fail(w, r, s, err, opts)
		return
	}
	h.notify(w, r, s, flow.Success(flow.MsgLoggedIn), flow.RenderOptions{Page: flow.PageDashboard})
}

// Logout handles POST /logout
func (h *ProfileHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil || !h.form(w, r, s) {
		return
	}
	if err := h.flow.Logout(s); err != nil {
		h.fail(w, r, s, err, flow.RenderOptions{Page: flow.PageLogin})
		return
	}
	h.notify(w, r, s, flow.Success(flow.MsgLoggedOut), flow.RenderOptions{Page: flow.PageSubmit})
}
