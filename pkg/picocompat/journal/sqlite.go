package journal

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists the journal to SQLite.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens (or creates) a journal database.
// The path should be a file path (e.g., "./journal.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Every pooled connection to ":memory:" would get its own database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS invocations (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			firing_id TEXT NOT NULL,
			canonical TEXT NOT NULL,
			legacy TEXT NOT NULL,
			plugin TEXT NOT NULL,
			revision INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL,
			err TEXT NOT NULL,
			timestamp TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_invocations_plugin
		ON invocations(plugin, legacy)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Record implements Store.
func (s *SQLiteStore) Record(e Entry) error {
	if e.ID == "" {
		return ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO invocations
			(id, firing_id, canonical, legacy, plugin, revision, duration_ns, err, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.FiringID, e.Canonical, e.Legacy, e.Plugin, e.Revision,
		int64(e.Duration), e.Err, ts.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record invocation: %w", err)
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List(f Filter) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	var where []string
	var args []any
	for _, c := range []struct{ col, val string }{
		{"firing_id", f.FiringID},
		{"plugin", f.Plugin},
		{"legacy", f.Legacy},
	} {
		if c.val != "" {
			where = append(where, c.col+" = ?")
			args = append(args, c.val)
		}
	}

	query := `
		SELECT id, firing_id, canonical, legacy, plugin, revision, duration_ns, err, timestamp
		FROM invocations`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invocations: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var durationNS int64
		var timestamp string
		if err := rows.Scan(&e.ID, &e.FiringID, &e.Canonical, &e.Legacy, &e.Plugin,
			&e.Revision, &durationNS, &e.Err, &timestamp); err != nil {
			return nil, fmt.Errorf("scan invocation: %w", err)
		}
		e.Duration = time.Duration(durationNS)
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, timestamp)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invocations: %w", err)
	}
	return entries, nil
}

// Summary implements Store.
func (s *SQLiteStore) Summary() ([]Usage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT plugin, legacy, COUNT(*),
			SUM(CASE WHEN err != '' THEN 1 ELSE 0 END),
			SUM(duration_ns)
		FROM invocations
		GROUP BY plugin, legacy
		ORDER BY plugin, legacy
	`)
	if err != nil {
		return nil, fmt.Errorf("summarize invocations: %w", err)
	}
	defer rows.Close()

	usage := make([]Usage, 0)
	for rows.Next() {
		var u Usage
		var totalNS int64
		if err := rows.Scan(&u.Plugin, &u.Legacy, &u.Calls, &u.Errors, &totalNS); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		u.TotalDuration = time.Duration(totalNS)
		usage = append(usage, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage: %w", err)
	}
	return usage, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
