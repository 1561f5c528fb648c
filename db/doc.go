// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles SQL schema creation for the SQLite and PostgreSQL stores.

# Schema Creation

CreateSchema initializes the attendee table:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS.

# Tables

	attendee (id, name, email, interests, looking_to_connect_with)

id is assigned by the store (row count + 1), not by the database.

# Dialects

Queries are written with ? placeholders; Rebind converts them to $N for
PostgreSQL:

	db.Rebind("postgres", "VALUES (?, ?)") // "VALUES ($1, $2)"
*/
package db
