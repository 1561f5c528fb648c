// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/connecthub/db"
	"github.com/danielhkuo/connecthub/models"
)

// SQLStore keeps attendees in the attendee table of a SQLite or PostgreSQL
// database. IDs are assigned as row count + 1 inside the insert transaction.
type SQLStore struct {
	db      *sql.DB
	dialect string
}

// OpenSQL connects to the database, verifies the connection and creates the
// schema.
func OpenSQL(dialect, dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database URL required for %s store", dialect)
	}

	conn, err := sql.Open(db.DriverName(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// One writer keeps SQLite from returning SQLITE_BUSY and keeps
	// :memory: databases on a single connection.
	if dialect == TypeSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return NewSQLStore(conn, dialect), nil
}

// NewSQLStore wraps an open connection whose schema already exists.
func NewSQLStore(conn *sql.DB, dialect string) *SQLStore {
	return &SQLStore{db: conn, dialect: dialect}
}

func (s *SQLStore) Load(ctx context.Context) ([]models.Attendee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, interests, looking_to_connect_with
		FROM attendee
		ORDER BY id
	`)
	if err != nil {
		return nil, wrap("load", err)
	}
	defer rows.Close()

	attendees := []models.Attendee{}
	for rows.Next() {
		var a models.Attendee
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Interests, &a.LookingToConnectWith); err != nil {
			return nil, wrap("load", err)
		}
		attendees = append(attendees, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("load", err)
	}
	return attendees, nil
}

func (s *SQLStore) Append(ctx context.Context, p models.Profile) (models.Attendee, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Attendee{}, wrap("append", err)
	}
	defer tx.Rollback()

	if s.dialect == TypePostgres {
		if _, err := tx.ExecContext(ctx, "LOCK TABLE attendee IN EXCLUSIVE MODE"); err != nil {
			return models.Attendee{}, wrap("append", err)
		}
	}

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM attendee").Scan(&count); err != nil {
		return models.Attendee{}, wrap("append", err)
	}

	a := models.NewAttendee(count+1, p)
	_, err = tx.ExecContext(ctx, db.Rebind(s.dialect, `
		INSERT INTO attendee (id, name, email, interests, looking_to_connect_with)
		VALUES (?, ?, ?, ?, ?)
	`), a.ID, a.Name, a.Email, a.Interests, a.LookingToConnectWith)
	if err != nil {
		return models.Attendee{}, wrap("append", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Attendee{}, wrap("append", err)
	}
	return a, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
