package storage

import (
	"context"
	"sort"
	"sync"

	"remindbot/internal/remind"
)

// memoryStore is a map-backed Store. It keeps the same semantics as the
// sqlite driver (ID assignment, ordering, sentinel errors) so tests can run
// against either.
type memoryStore struct {
	mu        sync.Mutex
	nextID    int64
	reminders map[int64]remind.Reminder
	groups    map[string]string
}

func NewMemory() Store {
	return &memoryStore{
		nextID:    1,
		reminders: map[int64]remind.Reminder{},
		groups:    map[string]string{},
	}
}

func (m *memoryStore) AddReminder(_ context.Context, r remind.Reminder) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.reminders[id] = r
	return id, nil
}

func (m *memoryStore) RemindersForUser(_ context.Context, owner string) ([]remind.Stored, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []remind.Stored
	for id, r := range m.reminders {
		if r.Owner == owner {
			out = append(out, remind.Stored{ID: id, Reminder: r})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) ReminderByID(_ context.Context, id int64) (remind.Stored, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reminders[id]
	if !ok {
		return remind.Stored{}, ErrNotFound
	}
	return remind.Stored{ID: id, Reminder: r}, nil
}

func (m *memoryStore) ListReminders(_ context.Context) ([]remind.Stored, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []remind.Stored
	for id, r := range m.reminders {
		out = append(out, remind.Stored{ID: id, Reminder: r})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].When.Before(out[j].When) })
	return out, nil
}

func (m *memoryStore) DeleteReminder(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reminders, id)
	return nil
}

func (m *memoryStore) CreateGroup(_ context.Context, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.groups[name]; ok {
		return ErrGroupExists
	}
	m.groups[name] = value
	return nil
}

func (m *memoryStore) GroupByName(_ context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.groups[name]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *memoryStore) Close() error { return nil }
