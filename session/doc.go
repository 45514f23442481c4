// Package session provides transcript persistence keyed by conversation
// context: an in-memory store for tests and single-process servers, and a
// SQLite store for durable history across restarts.
package session
