// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package backup

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"github.com/danielhkuo/connecthub/models"
	"github.com/danielhkuo/connecthub/store"
)

// Destination receives a full CSV export of the attendee table.
type Destination interface {
	Write(ctx context.Context, data []byte) error
}

// MirroredStore copies the attendee table to a Destination after every
// successful append. Mirror failures are logged and never fail the append.
type MirroredStore struct {
	store.Store
	dest Destination

	// mu serializes snapshot and upload so a later export is never
	// overwritten by an earlier one.
	mu sync.Mutex
}

// Wrap returns s unchanged when dest is nil.
func Wrap(s store.Store, dest Destination) store.Store {
	if dest == nil {
		return s
	}
	return &MirroredStore{Store: s, dest: dest}
}

func (m *MirroredStore) Append(ctx context.Context, p models.Profile) (models.Attendee, error) {
	a, err := m.Store.Append(ctx, p)
	if err != nil {
		return a, err
	}

	if err := m.mirror(ctx); err != nil {
		slog.Warn("attendee backup failed", "id", a.ID, "error", err)
	}
	return a, nil
}

func (m *MirroredStore) mirror(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	attendees, err := m.Store.Load(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := store.EncodeCSV(&buf, attendees); err != nil {
		return err
	}
	return m.dest.Write(ctx, buf.Bytes())
}
