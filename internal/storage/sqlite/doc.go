// Package sqlite provides SQLite-backed session persistence.
//
// It is the default on-disk journal used by the simulation runner and the
// playtest server to keep sessions and their event streams.
package sqlite
