// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/danielhkuo/connecthub/cliparse"
	"github.com/danielhkuo/connecthub/flow"
	"github.com/danielhkuo/connecthub/middleware"
	"github.com/danielhkuo/connecthub/session"
	"github.com/danielhkuo/connecthub/store"
	"github.com/danielhkuo/connecthub/views"
)

// ui holds what every page handler needs
type ui struct {
	flow     *flow.Controller
	sessions *session.Manager
	cfg      cliparse.Config
}

// session loads or creates the caller's session. On failure it writes a
// 500 and returns nil.
func (h *ui) session(w http.ResponseWriter, r *http.Request) *session.Session {
	s, err := h.sessions.Load(w, r)
	if err != nil {
		slog.Error("failed to load session", "error", err, "request_id", middleware.RequestID(r.Context()))
		h.errorPage(w, r, http.StatusInternalServerError, "Server Error", "Could not start a session")
		return nil
	}
	return s
}

// form parses the posted form and checks its CSRF token. On failure it
// writes the response and returns false.
func (h *ui) form(w http.ResponseWriter, r *http.Request, s *session.Session) bool {
	if err := r.ParseForm(); err != nil {
		h.errorPage(w, r, http.StatusBadRequest, "Bad Request", "Invalid form submission")
		return false
	}
	token := r.PostForm.Get("csrf_token")
	if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.CSRFToken)) != 1 {
		slog.Warn("rejected form without valid CSRF token",
			"path", r.URL.Path,
			"request_id", middleware.RequestID(r.Context()),
		)
		h.errorPage(w, r, http.StatusForbidden, "Form Expired", "This form has expired. Reload the page and try again.")
		return false
	}
	return true
}

// render writes the page for the session's current state.
func (h *ui) render(w http.ResponseWriter, r *http.Request, s *session.Session, status int, opts flow.RenderOptions) {
	v, err := h.flow.Render(r.Context(), s, opts)
	if err != nil {
		h.fail(w, r, s, err, opts)
		return
	}
	templ.Handler(views.Page(v), templ.WithStatus(status)).ServeHTTP(w, r)
}

// notify renders the current page with a notice.
func (h *ui) notify(w http.ResponseWriter, r *http.Request, s *session.Session, n flow.Notice, opts flow.RenderOptions) {
	opts.Notice = &n
	h.render(w, r, s, http.StatusOK, opts)
}

// fail maps an operation error to a redirect, an inline notice or an
// error page.
func (h *ui) fail(w http.ResponseWriter, r *http.Request, s *session.Session, err error, opts flow.RenderOptions) {
	switch {
	case errors.Is(err, flow.ErrNotAuthenticated):
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	case errors.Is(err, flow.ErrWrongState):
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	if n, ok := flow.NoticeFor(err); ok {
		opts.Notice = &n
		v, rerr := h.flow.Render(r.Context(), s, opts)
		if rerr != nil {
			h.fail(w, r, s, rerr, flow.RenderOptions{})
			return
		}
		templ.Handler(views.Page(v), templ.WithStatus(statusFor(err))).ServeHTTP(w, r)
		return
	}

	slog.Error("request failed",
		"error", err,
		"path", r.URL.Path,
		"request_id", middleware.RequestID(r.Context()),
	)
	if store.IsStorageError(err) {
		h.errorPage(w, r, http.StatusInternalServerError, "Storage Error", "Could not access attendee data: "+err.Error())
		return
	}
	h.errorPage(w, r, http.StatusInternalServerError, "Server Error", "Something went wrong")
}

// acceptsJSON reports whether the client asked for a JSON response
func acceptsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func (h *ui) errorPage(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	templ.Handler(views.ErrorPage(title, message), templ.WithStatus(status)).ServeHTTP(w, r)
}

// statusFor is the HTTP status for an operation error.
func statusFor(err error) int {
	var (
		ve *flow.ValidationError
		re *flow.RemoteError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, flow.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, flow.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.As(err, &re):
		return http.StatusBadGateway
	case errors.Is(err, flow.ErrNotAuthenticated), errors.Is(err, flow.ErrWrongState):
		return http.StatusSeeOther
	default:
		return http.StatusInternalServerError
	}
}
