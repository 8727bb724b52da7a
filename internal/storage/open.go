package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"remindbot/internal/remind"
)

// Store is the persistence API used by the scheduler and engine. It owns
// durability only; scheduling logic lives elsewhere.
type Store interface {
	// AddReminder persists r and returns its assigned ID.
	AddReminder(ctx context.Context, r remind.Reminder) (int64, error)
	// RemindersForUser returns the reminders owned by owner, oldest first.
	RemindersForUser(ctx context.Context, owner string) ([]remind.Stored, error)
	// ReminderByID returns a single reminder, or ErrNotFound.
	ReminderByID(ctx context.Context, id int64) (remind.Stored, error)
	// ListReminders returns every persisted reminder, soonest first.
	// The scheduler's recovery sweep uses it to re-arm after a restart.
	ListReminders(ctx context.Context) ([]remind.Stored, error)
	// DeleteReminder removes a reminder row. Deleting an absent ID is a no-op.
	DeleteReminder(ctx context.Context, id int64) error

	// CreateGroup records a group alias; ErrGroupExists when the name is taken.
	CreateGroup(ctx context.Context, name, value string) error
	// GroupByName returns a group's mention list, or ErrNotFound.
	GroupByName(ctx context.Context, name string) (string, error)

	Close() error
}

// Open initializes the configured store.
func Open(cfg Config, log zerolog.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", "sqlite":
		return openSQLite(cfg, log)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}
