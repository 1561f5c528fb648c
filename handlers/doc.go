// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP handlers for the ConnectHub web UI.

# Handler Types

Each handler is a struct built from the flow controller, the session
manager and the config:

  - ProfileHandler: public views (profile form, admin login, logout)
  - AdminHandler: dashboard, group generation, reset and CSV export

	profileHandler := handlers.NewProfileHandler(ctrl, sessions, cfg)

# Request Flow

Every handler loads the caller's session first (creating one and setting
the cookie if needed). POST handlers then parse the form and check its
csrf_token against the session's token, answering 403 on mismatch. The
operation itself runs in flow.Controller; handlers only translate the
form into a call and the result into a page.

# Error Mapping

Operation errors map to responses in one place (statusFor):

	*flow.ValidationError      400, inline notice
	flow.ErrInvalidCredentials 401, inline "Invalid credentials"
	flow.ErrTooManyAttempts    429, inline notice
	*flow.RemoteError          502, grouping error text inline
	*store.Error               500, error page, logged at error level
	flow.ErrNotAuthenticated   303 to /login
	flow.ErrWrongState         303 to /admin

Successful actions re-render the page with a success notice rather than
redirecting, since notices are not kept in the session.
*/
package handlers
