// Package localcache keeps whole JSON blobs on disk so the CLI can show the
// last known profile and dashboard while offline.
package localcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrMiss is returned when a key has never been stored.
var ErrMiss = errors.New("localcache: miss")

// Store is a single-owner key-value store backed by SQLite.
type Store struct {
	conn *sql.DB
	now  func() time.Time
}

// Entry is a stored value and when it was written.
type Entry struct {
	Value     []byte
	UpdatedAt time.Time
}

// Open creates the database file (and its directory) when missing.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("localcache: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn, now: time.Now}
	if err := s.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	_, err := s.conn.Exec(`
	CREATE TABLE IF NOT EXISTS entries (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Get returns the stored entry or ErrMiss.
func (s *Store) Get(ctx context.Context, key string) (Entry, error) {
	var (
		e       Entry
		updated int64
	)
	err := s.conn.QueryRowContext(ctx, `SELECT value, updated_at FROM entries WHERE key = ?`, key).Scan(&e.Value, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrMiss
	}
	if err != nil {
		return Entry{}, fmt.Errorf("reading %s: %w", key, err)
	}
	e.UpdatedAt = time.Unix(updated, 0)
	return e, nil
}

// Put replaces the whole value under key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return errors.New("localcache: key is required")
	}
	_, err := s.conn.ExecContext(ctx, `
	INSERT INTO entries (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, s.now().Unix())
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// Clear drops every entry, used on logout.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// PutJSON encodes v and stores it under key.
func (s *Store) PutJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.Put(ctx, key, raw)
}

// GetJSON decodes the value under key into v and returns when it was stored.
func (s *Store) GetJSON(ctx context.Context, key string, v any) (time.Time, error) {
	e, err := s.Get(ctx, key)
	if err != nil {
		return time.Time{}, err
	}
	if err := json.Unmarshal(e.Value, v); err != nil {
		return time.Time{}, fmt.Errorf("decoding %s: %w", key, err)
	}
	return e.UpdatedAt, nil
}
