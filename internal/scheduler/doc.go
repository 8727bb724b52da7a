// Package scheduler arms, fires, and cancels one-shot reminder timers.
//
// # Model
//
// Every scheduled reminder has exactly one live handle: a timer plus a stop
// channel, kept in a mutex-guarded map keyed by the store-assigned reminder
// ID. The handle exists only while the reminder is outstanding in this
// process; the persisted row is the durable record.
//
// # Fire/cancel race
//
// A timer elapsing and Cancel being called can race. The map is the arbiter:
// whichever side removes the handle first wins, so at most one of
// {delivery, cancellation} is observably effective. A fire that loses the
// race dispatches nothing; a cancel that loses is a best-effort no-op and
// the caller still deletes the row separately. A fire that wins the map also
// re-checks the row before dispatching, so a reminder whose row was deleted
// never delivers even if a resync re-armed it in between.
//
// # Restart recovery
//
// Timers do not survive a restart, so Start runs a recovery sweep: every
// persisted reminder without a live handle is re-armed, overdue ones with
// zero delay. A periodic resync job (robfig/cron @every) repeats the sweep
// as a safety net against armed-state drift.
package scheduler
