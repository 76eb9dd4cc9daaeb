// Package storage defines persistence interfaces for the session journal.
//
// It covers session lifecycle records, per-session event journaling, and
// aggregate statistics. Implementations (e.g., SQLite) live in
// subpackages.
//
// Common error types:
//   - ErrNotFound: requested record is missing
package storage
