// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists attendee submissions.

# Backends

Open picks a backend by name:

	s, err := store.Open(cfg.StoreType, target)

  - csv: a single CSV file with a header row, rewritten in full on every append
  - sqlite: the attendee table in a SQLite database (modernc.org/sqlite)
  - postgres: the attendee table in PostgreSQL (lib/pq)

# IDs

Append assigns ID = number of stored rows + 1. The CSV store serializes
appends with a mutex and the SQL stores inside a transaction, so IDs stay
unique within one process. Several processes sharing one CSV file can still
race and produce duplicate IDs.

# Errors

Every I/O failure is returned as *store.Error:

	if store.IsStorageError(err) {
		// fatal for this request
	}

A missing CSV file is not an error; Load returns an empty slice.
*/
package store
