package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"remindbot/internal/remind"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type sqliteStore struct {
	db  *sql.DB
	log zerolog.Logger
}

func openSQLite(cfg Config, log zerolog.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("storage: sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	st := &sqliteStore{db: db, log: log}
	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) AddReminder(ctx context.Context, r remind.Reminder) (int64, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders(owner, fire_at, payload) VALUES(?,?,?)`,
		r.Owner, r.When.UnixMilli(), string(payload),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *sqliteStore) RemindersForUser(ctx context.Context, owner string) ([]remind.Stored, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, payload FROM reminders WHERE owner = ? ORDER BY id ASC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (s *sqliteStore) ReminderByID(ctx context.Context, id int64) (remind.Stored, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM reminders WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return remind.Stored{}, ErrNotFound
	}
	if err != nil {
		return remind.Stored{}, err
	}
	st := remind.Stored{ID: id}
	if err := json.Unmarshal([]byte(payload), &st.Reminder); err != nil {
		return remind.Stored{}, fmt.Errorf("storage: decode reminder %d: %w", id, err)
	}
	return st, nil
}

func (s *sqliteStore) ListReminders(ctx context.Context) ([]remind.Stored, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, payload FROM reminders ORDER BY fire_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (s *sqliteStore) DeleteReminder(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	return err
}

func (s *sqliteStore) CreateGroup(ctx context.Context, name, value string) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reminder_groups(name, value) VALUES(?,?)
		 ON CONFLICT(name) DO NOTHING`,
		name, value,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrGroupExists
	}
	return nil
}

func (s *sqliteStore) GroupByName(ctx context.Context, name string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM reminder_groups WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func scanReminders(rows *sql.Rows) ([]remind.Stored, error) {
	var out []remind.Stored
	for rows.Next() {
		var (
			st      remind.Stored
			payload string
		)
		if err := rows.Scan(&st.ID, &payload); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payload), &st.Reminder); err != nil {
			return nil, fmt.Errorf("storage: decode reminder %d: %w", st.ID, err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
