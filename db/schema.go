// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// DriverName maps a store dialect to its database/sql driver name.
func DriverName(dialect string) string {
	if dialect == "postgres" {
		return "postgres"
	}
	return "sqlite"
}

// Rebind rewrites ? placeholders to $N for postgres. Queries must not
// contain literal question marks.
func Rebind(dialect, query string) string {
	if dialect != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Valid for both SQLite and PostgreSQL.
const schema = `
CREATE TABLE IF NOT EXISTS attendee (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    interests TEXT NOT NULL DEFAULT '',
    looking_to_connect_with TEXT NOT NULL DEFAULT ''
);
`
