// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ConnectHub server.

ConnectHub collects attendee profiles for an event through a public form
and lets an organizer log in, browse the attendees and ask an external
grouping service to split them into networking groups from a free-text
query.

# Starting the Server

The server requires environment variables, a .env file or CLI flags:

	ADMIN_USERNAME=admin ADMIN_PASSWORD=... SESSION_SALT=... go run .

Or with flags:

	go run . -p 8080 -t sqlite -d connecthub.db -admin-user admin \
		-admin-password ... -session-salt ...

# Configuration

Required settings:

  - ADMIN_USERNAME / ADMIN_PASSWORD: the single organizer account
  - SESSION_SALT: secret for signing session cookies
  - DATABASE_URL (-d): only for the sqlite and postgres stores

Optional settings:

  - PORT (-p): Server port (default: 8080)
  - STORE_TYPE (-t): csv, sqlite or postgres (default: csv)
  - DATA_FILE (-f): CSV file (default: students.csv)
  - GROUPING_URL, GROUPING_TIMEOUT: grouping service endpoint and timeout
  - NATS_URL: publish submission and grouping events
  - BACKUP_S3_BUCKET: mirror the attendee table to S3 after each submission

# Architecture

  - handlers: HTML handlers for the public and admin views
  - router: Route definitions using Go 1.22+ routing
  - middleware: logging, security headers, JSON helpers
  - flow: the per-session state machine (login, submit, generate, reset)
  - views: templ components rendering flow.View
  - session: in-memory sessions behind a signed cookie
  - store: attendee table on CSV, SQLite or PostgreSQL
  - db: SQL schema and dialect helpers
  - grouping: HTTP client for the grouping service
  - events, backup: optional NATS events and S3 mirroring
  - auth: credential check, cookie signing, login rate limiting
  - models: shared data types
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
