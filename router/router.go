// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/connecthub/cliparse"
	"github.com/danielhkuo/connecthub/flow"
	"github.com/danielhkuo/connecthub/handlers"
	"github.com/danielhkuo/connecthub/middleware"
	"github.com/danielhkuo/connecthub/models"
	"github.com/danielhkuo/connecthub/session"
)

func NewRouter(ctrl *flow.Controller, sessions *session.Manager, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	profileHandler := handlers.NewProfileHandler(ctrl, sessions, cfg)
	adminHandler := handlers.NewAdminHandler(ctrl, sessions, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{Status: "ok"})
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", "GET, HEAD")
		middleware.ErrorResponse(w, http.StatusMethodNotAllowed, "health check only supports GET")
	})

	// Public views
	mux.HandleFunc("GET /{$}", middleware.WithLogging(profileHandler.Root))
	mux.HandleFunc("GET /submit", middleware.WithLogging(profileHandler.SubmitForm))
	mux.HandleFunc("POST /submit", middleware.WithLogging(profileHandler.Submit))
	mux.HandleFunc("GET /login", middleware.WithLogging(profileHandler.LoginForm))
	mux.HandleFunc("POST /login", middleware.WithLogging(profileHandler.Login))
	mux.HandleFunc("POST /logout", middleware.WithLogging(profileHandler.Logout))

	// Admin dashboard
	mux.HandleFunc("GET /admin", middleware.WithLogging(adminHandler.Dashboard))
	mux.HandleFunc("POST /admin/groups", middleware.WithLogging(adminHandler.Generate))
	mux.HandleFunc("POST /admin/groups/reset", middleware.WithLogging(adminHandler.Reset))
	mux.HandleFunc("GET /admin/attendees.csv", middleware.WithLogging(adminHandler.ExportCSV))

	return mux
}
