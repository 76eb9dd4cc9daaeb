package storage

import (
	"context"
	"time"

	apperrors "github.com/skilletworks/prepline/internal/errors"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate between legitimate "no such entity"
// states and transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// SessionRecord captures one play session's lifecycle and outcome.
type SessionRecord struct {
	ID         string
	Seed       int64
	StartedAt  time.Time
	EndedAt    *time.Time
	Score      int
	RoundsWon  int
	RoundsLost int
}

// EventRecord captures one engine notification in the session journal.
// Side, Token, and Track are set only when the kind carries them.
type EventRecord struct {
	// Seq is assigned by the store on append.
	Seq       int64
	SessionID string
	At        time.Time
	Kind      string
	Side      string
	Token     string
	Track     string
	Score     int
}

// SessionStatistics contains aggregate counters used by reports.
type SessionStatistics struct {
	SessionCount int64
	RoundsWon    int64
	RoundsLost   int64
	BestScore    int64
}

// SessionStore owns session lifecycle records.
type SessionStore interface {
	// PutSession inserts or replaces a session record.
	PutSession(ctx context.Context, record SessionRecord) error
	GetSession(ctx context.Context, id string) (SessionRecord, error)
	// ListSessions returns the most recent sessions, newest first.
	ListSessions(ctx context.Context, limit int) ([]SessionRecord, error)
}

// EventStore owns the append-only session journal; this is the record of
// everything the engine announced during a session.
type EventStore interface {
	// AppendEvent appends an event and returns it with Seq assigned.
	AppendEvent(ctx context.Context, record EventRecord) (EventRecord, error)
	// ListEventsBySession returns a session's events with sequence greater
	// than afterSeq, ordered ascending.
	ListEventsBySession(ctx context.Context, sessionID string, afterSeq int64, limit int) ([]EventRecord, error)
}

// StatisticsStore centralizes aggregate count queries for reports.
type StatisticsStore interface {
	GetSessionStatistics(ctx context.Context) (SessionStatistics, error)
}

// Store is a composite interface for all persistence concerns.
type Store interface {
	SessionStore
	EventStore
	StatisticsStore
	Close() error
}
