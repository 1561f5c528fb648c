// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/danielhkuo/connecthub/models"
)

// CSVStore keeps attendees in a single CSV file with a header row.
// Every append rewrites the whole file.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the backing file path.
func (s *CSVStore) Path() string {
	return s.path
}

func (s *CSVStore) Load(ctx context.Context) ([]models.Attendee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *CSVStore) load() ([]models.Attendee, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Attendee{}, nil
	}
	if err != nil {
		return nil, wrap("load", err)
	}
	defer f.Close()

	attendees, err := DecodeCSV(f)
	if err != nil {
		return nil, wrap("load", err)
	}
	return attendees, nil
}

func (s *CSVStore) Append(ctx context.Context, p models.Profile) (models.Attendee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attendees, err := s.load()
	if err != nil {
		return models.Attendee{}, err
	}

	a := models.NewAttendee(len(attendees)+1, p)
	attendees = append(attendees, a)

	if err := s.rewrite(attendees); err != nil {
		return models.Attendee{}, wrap("append", err)
	}
	return a, nil
}

// rewrite replaces the file atomically via a temp file in the same directory.
func (s *CSVStore) rewrite(attendees []models.Attendee) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".attendees-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	// CreateTemp uses 0600; keep the data file's existing permissions.
	mode := os.FileMode(0o644)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}

	if err := EncodeCSV(tmp, attendees); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *CSVStore) Close() error {
	return nil
}

// EncodeCSV writes the header row followed by one row per attendee.
func EncodeCSV(w io.Writer, attendees []models.Attendee) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.Columns); err != nil {
		return err
	}
	for _, a := range attendees {
		row := []string{strconv.Itoa(a.ID), a.Name, a.Email, a.Interests, a.LookingToConnectWith}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeCSV reads an attendee table. Columns are matched by header name so
// files with reordered columns still load. An empty input yields no rows.
func DecodeCSV(r io.Reader) ([]models.Attendee, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return []models.Attendee{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, col := range models.Columns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	field := func(row []string, col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	attendees := []models.Attendee{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		id, err := strconv.Atoi(field(row, models.ColumnID))
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", field(row, models.ColumnID), err)
		}
		attendees = append(attendees, models.Attendee{
			ID:                   id,
			Name:                 field(row, models.ColumnName),
			Email:                field(row, models.ColumnEmail),
			Interests:            field(row, models.ColumnInterests),
			LookingToConnectWith: field(row, models.ColumnLookingToConnectWith),
		})
	}
	return attendees, nil
}
