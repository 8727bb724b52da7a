package storage

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a reminder or group does not exist.
	// Existence checks are explicit results, never raised faults.
	ErrNotFound = errors.New("storage: not found")

	// ErrGroupExists is returned when creating a group whose name is
	// already taken. The stored value is left unchanged.
	ErrGroupExists = errors.New("storage: group already exists")
)

// Config configures storage.
//
// Driver values:
//   - "sqlite": SQLite database file (default)
//   - "memory": process-local map backend, used mostly by tests
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}
