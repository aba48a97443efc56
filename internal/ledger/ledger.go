// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records which cards have already been printed.
//
// The ledger is a pretty-printed JSON array of card ids. A missing file is
// an empty ledger; a file that exists but does not parse is reported as
// ErrLedgerCorrupt and never silently replaced.
package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/natefinch/atomic"
)

// ErrLedgerCorrupt is returned when the ledger file exists but is not a
// JSON array of strings.
var ErrLedgerCorrupt = errors.New("ledger corrupt")

// Ledger is the in-memory printed set backed by a JSON file. It is owned by
// a single run and is not safe for concurrent use.
type Ledger struct {
	path  string
	ids   []string // insertion order, persisted as-is
	index map[string]struct{}
}

// Open loads the ledger at path. A missing file yields an empty ledger.
func Open(path string) (*Ledger, error) {
	l := &Ledger{
		path:  path,
		index: make(map[string]struct{}),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLedgerCorrupt, path, err)
	}
	// "null" decodes without error but leaves ids nil; "[]" does not.
	if ids == nil {
		return nil, fmt.Errorf("%w: %s: not a JSON array", ErrLedgerCorrupt, path)
	}

	for _, id := range ids {
		if _, ok := l.index[id]; ok {
			continue
		}
		l.index[id] = struct{}{}
		l.ids = append(l.ids, id)
	}
	return l, nil
}

// Path returns the backing file path.
func (l *Ledger) Path() string { return l.path }

// Len returns the number of recorded ids.
func (l *Ledger) Len() int { return len(l.ids) }

// Contains reports whether id has been printed.
func (l *Ledger) Contains(id string) bool {
	_, ok := l.index[id]
	return ok
}

// IDs returns the recorded ids in sorted order.
func (l *Ledger) IDs() []string {
	out := slices.Clone(l.ids)
	slices.Sort(out)
	return out
}

// Add records id and persists the ledger before returning. Adding an id
// that is already present does not change the file contents.
func (l *Ledger) Add(id string) error {
	if l.Contains(id) {
		return l.save()
	}
	l.index[id] = struct{}{}
	l.ids = append(l.ids, id)
	return l.save()
}

// Remove forgets id so the card is treated as new next time. It reports
// whether id was present.
func (l *Ledger) Remove(id string) (bool, error) {
	if !l.Contains(id) {
		return false, nil
	}
	delete(l.index, id)
	l.ids = slices.DeleteFunc(l.ids, func(s string) bool { return s == id })
	return true, l.save()
}

// Clear forgets every id.
func (l *Ledger) Clear() error {
	l.ids = nil
	l.index = make(map[string]struct{})
	return l.save()
}

// save writes the ledger atomically so an interrupted write never leaves a
// truncated file behind.
func (l *Ledger) save() error {
	ids := l.ids
	if ids == nil {
		ids = []string{}
	}
	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling ledger: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating ledger directory %s: %w", dir, err)
		}
	}
	if err := atomic.WriteFile(l.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing ledger %s: %w", l.path, err)
	}
	// atomic.WriteFile leaves a new file owner-only.
	if err := os.Chmod(l.path, 0o644); err != nil {
		return fmt.Errorf("setting ledger mode %s: %w", l.path, err)
	}
	return nil
}
