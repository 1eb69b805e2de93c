package state

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/doeshing/alfred-sf/internal/domain"
	"github.com/doeshing/alfred-sf/internal/ports"
)

// SQLiteStore persists coordination state for one workflow in a SQLite
// database. Several workflows may share a database file; rows are keyed by
// workflow. Writes are INSERT OR REPLACE, so the last writer wins.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	workflow string
}

// DefaultSQLitePath is the database used when a profile selects the sqlite backend.
func DefaultSQLitePath(wc domain.WorkflowContext) string {
	return filepath.Join(wc.CacheRoot, domain.CoalesceNamespace, "state.db")
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path, workflow string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, &domain.StateError{Op: "mkdir", Path: path, Err: err}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &domain.StateError{Op: "open", Path: path, Err: err}
	}
	store := &SQLiteStore{db: db, path: path, workflow: workflow}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, &domain.StateError{Op: "init", Path: path, Err: err}
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	// Concurrent script filter processes share the file.
	if _, err := s.db.Exec(`PRAGMA busy_timeout = 2000;`); err != nil {
		return err
	}
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS latest_request (
		workflow TEXT PRIMARY KEY,
		sequence TEXT NOT NULL,
		updated_at_ms INTEGER NOT NULL,
		query TEXT NOT NULL
	);`); err != nil {
		return err
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS cache_entries (
		workflow TEXT NOT NULL,
		cache_key TEXT NOT NULL,
		cached_at INTEGER NOT NULL,
		status TEXT NOT NULL,
		payload BLOB NOT NULL,
		PRIMARY KEY (workflow, cache_key)
	);`)
	return err
}

func (s *SQLiteStore) LatestRequest(ctx context.Context) (domain.LatestRequest, bool, error) {
	var req domain.LatestRequest
	err := s.db.QueryRowContext(ctx,
		`SELECT sequence, updated_at_ms, query FROM latest_request WHERE workflow = ?`, s.workflow).
		Scan(&req.Sequence, &req.UpdatedAtMS, &req.Query)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.LatestRequest{}, false, nil
	}
	if err != nil {
		return domain.LatestRequest{}, false, &domain.StateError{Op: "read", Path: s.path, Err: err}
	}
	return req, true, nil
}

func (s *SQLiteStore) SetLatestRequest(ctx context.Context, req domain.LatestRequest) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO latest_request
		(workflow, sequence, updated_at_ms, query) VALUES (?, ?, ?, ?)`,
		s.workflow, req.Sequence, req.UpdatedAtMS, req.Query)
	if err != nil {
		return &domain.StateError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

func (s *SQLiteStore) CacheEntry(ctx context.Context, key string) (domain.CacheEntry, bool, error) {
	entry := domain.CacheEntry{Key: key}
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT cached_at, status, payload FROM cache_entries WHERE workflow = ? AND cache_key = ?`, s.workflow, key).
		Scan(&entry.CachedAt, &status, &entry.Payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CacheEntry{}, false, nil
	}
	if err != nil {
		return domain.CacheEntry{}, false, &domain.StateError{Op: "read", Path: s.path, Err: err}
	}
	entry.Status = domain.CacheStatus(status)
	if entry.Payload == nil {
		entry.Payload = []byte{}
	}
	return entry, true, nil
}

func (s *SQLiteStore) SetCacheEntry(ctx context.Context, entry domain.CacheEntry) error {
	payload := entry.Payload
	if payload == nil {
		payload = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO cache_entries
		(workflow, cache_key, cached_at, status, payload) VALUES (?, ?, ?, ?, ?)`,
		s.workflow, entry.Key, entry.CachedAt, string(entry.Status), payload)
	if err != nil {
		return &domain.StateError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// Entries lists this workflow's cache rows ordered by key.
func (s *SQLiteStore) Entries(ctx context.Context) ([]domain.CacheEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cache_key, cached_at, status, payload FROM cache_entries WHERE workflow = ? ORDER BY cache_key`, s.workflow)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []domain.CacheEntry
	for rows.Next() {
		var entry domain.CacheEntry
		var status string
		if err := rows.Scan(&entry.Key, &entry.CachedAt, &status, &entry.Payload); err != nil {
			return nil, err
		}
		entry.Status = domain.CacheStatus(status)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Clear deletes this workflow's request pointer and cache rows.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE workflow = ?`, s.workflow); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM latest_request WHERE workflow = ?`, s.workflow)
	return err
}

// Dir returns the database path.
func (s *SQLiteStore) Dir() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ ports.StateStore = (*SQLiteStore)(nil)
var _ ports.CacheInspector = (*SQLiteStore)(nil)
