// Package storage provides the persistence layer for reminders and group
// aliases.
//
// It currently supports:
//   - "sqlite": a SQLite database file (the default)
//   - "memory": a map backend with identical semantics, used by tests
//
// The Store interface is the collaborator boundary: it owns durability only.
// Which reminders are armed, fired, or cancelled is the scheduler's business.
package storage
