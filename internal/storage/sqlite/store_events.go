package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/skilletworks/prepline/internal/storage"
)

const appendEventQuery = `
INSERT INTO events (session_id, at, kind, side, token, track, score)
VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7);
`

const listEventsBySessionQuery = `
SELECT seq, session_id, at, kind, side, token, track, score
FROM events
WHERE session_id = ?1 AND seq > ?2
ORDER BY seq ASC
LIMIT ?3;
`

// AppendEvent appends a journal row and returns it with Seq assigned.
func (s *Store) AppendEvent(ctx context.Context, record storage.EventRecord) (storage.EventRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.EventRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.EventRecord{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.SessionID) == "" {
		return storage.EventRecord{}, fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(record.Kind) == "" {
		return storage.EventRecord{}, fmt.Errorf("event kind is required")
	}
	if record.At.IsZero() {
		record.At = time.Now().UTC()
	}

	result, err := s.sqlDB.ExecContext(ctx, appendEventQuery,
		record.SessionID,
		toMillis(record.At),
		record.Kind,
		record.Side,
		record.Token,
		record.Track,
		record.Score,
	)
	if err != nil {
		return storage.EventRecord{}, fmt.Errorf("append event: %w", err)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return storage.EventRecord{}, fmt.Errorf("read event seq: %w", err)
	}
	record.Seq = seq
	return record, nil
}

// ListEventsBySession returns a session's journal rows after afterSeq,
// ordered by sequence ascending.
func (s *Store) ListEventsBySession(ctx context.Context, sessionID string, afterSeq int64, limit int) ([]storage.EventRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if limit <= 0 {
		limit = 200
	}

	rows, err := s.sqlDB.QueryContext(ctx, listEventsBySessionQuery, sessionID, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var records []storage.EventRecord
	for rows.Next() {
		var record storage.EventRecord
		var at int64
		if err := rows.Scan(
			&record.Seq,
			&record.SessionID,
			&at,
			&record.Kind,
			&record.Side,
			&record.Token,
			&record.Track,
			&record.Score,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		record.At = fromMillis(at)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return records, nil
}
