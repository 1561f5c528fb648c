// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package flow is the per-session state machine behind the web UI.

A session is either unauthenticated (Submit Profile and Admin Login views)
or on the admin dashboard. Controller methods are the only transitions:

	Login          unauthenticated -> dashboard, groups absent
	Logout         dashboard -> unauthenticated, groups cleared
	SubmitProfile  unauthenticated only, appends to the store
	Generate       dashboard, calls the grouping service at most once
	               until Reset
	Reset          dashboard, groups absent

Render turns a session into a View that the views package draws. Errors
are sentinels (ErrInvalidCredentials, ErrNotAuthenticated, ...) or typed
(*ValidationError, *RemoteError); NoticeFor maps them to inline notices.
*/
package flow
