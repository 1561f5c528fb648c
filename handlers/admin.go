// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/connecthub/cliparse"
	"github.com/danielhkuo/connecthub/flow"
	"github.com/danielhkuo/connecthub/middleware"
	"github.com/danielhkuo/connecthub/session"
	"github.com/danielhkuo/connecthub/store"
)

// AdminHandler serves the dashboard and its grouping actions. Every route
// redirects to /login for a logged-out session.
type AdminHandler struct {
	ui
}

func NewAdminHandler(ctrl *flow.Controller, sessions *session.Manager, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{ui{flow: ctrl, sessions: sessions, cfg: cfg}}
}

// Dashboard handles GET /admin
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	if flow.StateOf(s) != flow.StateDashboard {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	h.render(w, r, s, http.StatusOK, flow.RenderOptions{
		Page:   flow.PageDashboard,
		Filter: r.URL.Query().Get("filter"),
	})
}

// Generate handles POST /admin/groups
func (h *AdminHandler) Generate(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil || !h.form(w, r, s) {
		return
	}

	query := r.PostForm.Get("query")
	opts := flow.RenderOptions{Page: flow.PageDashboard, Query: query}

	out, err := h.flow.Generate(r.Context(), s, query)
	if err != nil {
		h.fail(w, r, s, err, opts)
		return
	}
	if out.Skipped {
		h.notify(w, r, s, flow.Info(flow.MsgGenerationSkipped), opts)
		return
	}
	h.notify(w, r, s, flow.Success(flow.MsgGroupsGenerated), opts)
}

// Reset handles POST /admin/groups/reset
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil || !h.form(w, r, s) {
		return
	}
	opts := flow.RenderOptions{Page: flow.PageDashboard}
	if err := h.flow.Reset(s); err != nil {
		h.fail(w, r, s, err, opts)
		return
	}
	h.notify(w, r, s, flow.Success(flow.MsgGroupsReset), opts)
}

// ExportCSV handles GET /admin/attendees.csv
func (h *AdminHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	attendees, err := h.flow.Attendees(r.Context(), s)
	if err != nil {
		h.exportFailed(w, r, s, err)
		return
	}

	// Encode fully before writing so a failure can still return a 500
	var buf bytes.Buffer
	if err := store.EncodeCSV(&buf, attendees); err != nil {
		h.exportFailed(w, r, s, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="attendees.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("failed to write CSV export", "error", err)
	}
}

// exportFailed answers a failed export. Scripted downloads that ask for
// JSON get a JSON error body instead of a redirect or an HTML page.
func (h *AdminHandler) exportFailed(w http.ResponseWriter, r *http.Request, s *session.Session, err error) {
	if !acceptsJSON(r) {
		h.fail(w, r, s, err, flow.RenderOptions{Page: flow.PageDashboard})
		return
	}
	switch {
	case errors.Is(err, flow.ErrNotAuthenticated):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Admin login required")
	case store.IsStorageError(err):
		slog.Error("CSV export failed", "error", err, "request_id", middleware.RequestID(r.Context()))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Could not access attendee data: "+err.Error())
	default:
		slog.Error("CSV export failed", "error", err, "request_id", middleware.RequestID(r.Context()))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Something went wrong")
	}
}
