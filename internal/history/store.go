// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a SQLite log of every card rendered, with the
// file written and the time. It complements the ledger, which only knows
// whether a card was printed, not when or where.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const defaultLimit = 50

// timeLayout is fixed-width so timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Entry is one render event.
type Entry struct {
	CardID     string    `json:"card_id" yaml:"card_id"`
	Name       string    `json:"name" yaml:"name"`
	File       string    `json:"file" yaml:"file"`
	Mode       string    `json:"mode" yaml:"mode"`
	RenderedAt time.Time `json:"rendered_at" yaml:"rendered_at"`
}

// Store manages the history database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS renders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			card_id TEXT NOT NULL,
			name TEXT NOT NULL,
			file TEXT NOT NULL,
			mode TEXT NOT NULL,
			rendered_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_renders_card_id ON renders(card_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends a render event. A zero RenderedAt is set to now.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.RenderedAt.IsZero() {
		e.RenderedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO renders (card_id, name, file, mode, rendered_at) VALUES (?, ?, ?, ?, ?)`,
		e.CardID, e.Name, e.File, e.Mode, e.RenderedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("recording render of %s: %w", e.CardID, err)
	}
	return nil
}

// Query selects history entries. Zero values match everything.
type Query struct {
	CardID string
	Limit  int
}

// List returns entries newest first.
func (s *Store) List(ctx context.Context, q Query) ([]Entry, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	stmt := `SELECT card_id, name, file, mode, rendered_at FROM renders`
	var args []any
	if q.CardID != "" {
		stmt += ` WHERE card_id = ?`
		args = append(args, q.CardID)
	}
	stmt += ` ORDER BY rendered_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e  Entry
			ts string
		)
		if err := rows.Scan(&e.CardID, &e.Name, &e.File, &e.Mode, &ts); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if t, err := time.Parse(timeLayout, ts); err == nil {
			e.RenderedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
