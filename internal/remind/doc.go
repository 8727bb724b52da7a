// Package remind holds the reminder entity and the free-text reminder parser.
//
// The grammar is intentionally small: an optional @ sigil, a single recipient
// token, an optional "to" connector, then free text containing one date
// expression. Date resolution is delegated to a DateParser so the strategy
// can be swapped or faked in tests; the default implementation is built on
// olebedev/when.
//
// Only the first recognized date expression is used. Input with multiple
// date mentions silently prefers the first one; callers relying on later
// mentions will get surprising results. That is documented behavior, not a
// bug.
package remind
