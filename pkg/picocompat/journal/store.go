// Package journal records legacy handler invocations so hosts can see
// which API v0 plugins are still doing work before dropping the layer.
package journal

import (
	"errors"
	"time"
)

// Entry is one recorded legacy handler call.
type Entry struct {
	ID        string
	FiringID  string
	Canonical string
	Legacy    string
	Plugin    string
	Revision  int
	Duration  time.Duration
	// Err is the handler's error message, "" on success.
	Err       string
	Timestamp time.Time
}

// Failed returns true if the handler returned an error.
func (e Entry) Failed() bool {
	return e.Err != ""
}

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	FiringID string
	Plugin   string
	Legacy   string
	// Limit caps the number of entries returned; 0 means no limit.
	Limit int
}

func (f Filter) matches(e Entry) bool {
	if f.FiringID != "" && e.FiringID != f.FiringID {
		return false
	}
	if f.Plugin != "" && e.Plugin != f.Plugin {
		return false
	}
	if f.Legacy != "" && e.Legacy != f.Legacy {
		return false
	}
	return true
}

// Usage aggregates entries per plugin and legacy event.
type Usage struct {
	Plugin        string
	Legacy        string
	Calls         int
	Errors        int
	TotalDuration time.Duration
}

// Store persists journal entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Record appends an entry.
	Record(e Entry) error

	// List returns matching entries in recording order.
	// Returns empty slice (not error) if nothing matches.
	List(f Filter) ([]Entry, error)

	// Summary aggregates all entries, ordered by plugin then legacy event.
	Summary() ([]Usage, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for journal operations.
var (
	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("journal store closed")

	// ErrMissingID indicates an entry without an ID.
	ErrMissingID = errors.New("journal entry has no id")
)
