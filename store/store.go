// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielhkuo/connecthub/models"
)

// Backend names accepted by Open
const (
	TypeCSV      = "csv"
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Store is the append-only attendee table.
type Store interface {
	// Load returns every attendee in insertion order.
	Load(ctx context.Context) ([]models.Attendee, error)
	// Append assigns the next ID to p and persists it.
	Append(ctx context.Context, p models.Profile) (models.Attendee, error)
	Close() error
}

// Error is returned for any failure reading or writing the backing store.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsStorageError reports whether err came from the backing store.
func IsStorageError(err error) bool {
	var se *Error
	return errors.As(err, &se)
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// Open returns the backend named by storeType. target is a file path for
// csv and a DSN/URL for the SQL backends.
func Open(storeType, target string) (Store, error) {
	switch storeType {
	case TypeCSV, "":
		return NewCSVStore(target), nil
	case TypeSQLite, TypePostgres:
		s, err := OpenSQL(storeType, target)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store type %q", storeType)
	}
}
