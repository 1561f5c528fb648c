// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for ConnectHub.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(ctrl, sessions, cfg)

# Endpoints

Health:

	GET /health - {"status":"ok"}
	*   /health - 405 {"error":"Method Not Allowed","message":...}

Public views:

	GET  /        - Redirect to /submit or /admin by session state
	GET  /submit  - Profile form
	POST /submit  - Submit profile
	GET  /login   - Admin login form
	POST /login   - Log in
	POST /logout  - Log out

Admin (logged-in sessions, otherwise 303 to /login):

	GET  /admin                - Dashboard (?filter= narrows the table)
	POST /admin/groups         - Generate groups
	POST /admin/groups/reset   - Clear groups
	GET  /admin/attendees.csv  - Download the attendee table

With "Accept: application/json", a failed export answers with a JSON
error body (401 when logged out) instead of a redirect or error page.

Every route except /health is wrapped with middleware.WithLogging.
*/
package router
