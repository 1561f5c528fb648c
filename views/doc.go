// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package views renders flow.View values as HTML using templ components.

Components are plain templ.ComponentFunc values, so handlers serve them
with templ.Handler:

	templ.Handler(views.Page(v), templ.WithStatus(http.StatusBadRequest))

All user-supplied text is escaped with templ.EscapeString. Forms that
POST carry the session CSRF token in a hidden csrf_token field.
*/
package views
