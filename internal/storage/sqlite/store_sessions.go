package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/skilletworks/prepline/internal/storage"
)

const putSessionQuery = `
INSERT INTO sessions (id, seed, started_at, ended_at, score, rounds_won, rounds_lost)
VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7)
ON CONFLICT(id) DO UPDATE SET
    seed = excluded.seed,
    started_at = excluded.started_at,
    ended_at = excluded.ended_at,
    score = excluded.score,
    rounds_won = excluded.rounds_won,
    rounds_lost = excluded.rounds_lost;
`

const getSessionQuery = `
SELECT id, seed, started_at, ended_at, score, rounds_won, rounds_lost
FROM sessions
WHERE id = ?1;
`

const listSessionsQuery = `
SELECT id, seed, started_at, ended_at, score, rounds_won, rounds_lost
FROM sessions
ORDER BY started_at DESC, id DESC
LIMIT ?1;
`

const sessionStatisticsQuery = `
SELECT
    COUNT(*),
    COALESCE(SUM(rounds_won), 0),
    COALESCE(SUM(rounds_lost), 0),
    COALESCE(MAX(score), 0)
FROM sessions;
`

// PutSession inserts or replaces a session lifecycle record.
func (s *Store) PutSession(ctx context.Context, record storage.SessionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("session id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, putSessionQuery,
		record.ID,
		record.Seed,
		toMillis(record.StartedAt),
		toNullMillis(record.EndedAt),
		record.Score,
		record.RoundsWon,
		record.RoundsLost,
	)
	if err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// GetSession returns a session record by id.
func (s *Store) GetSession(ctx context.Context, id string) (storage.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.SessionRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.SessionRecord{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, getSessionQuery, id)
	record, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.SessionRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.SessionRecord{}, fmt.Errorf("get session: %w", err)
	}
	return record, nil
}

// ListSessions returns the most recent sessions, newest first.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]storage.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.sqlDB.QueryContext(ctx, listSessionsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var records []storage.SessionRecord
	for rows.Next() {
		record, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read sessions: %w", err)
	}
	return records, nil
}

// GetSessionStatistics returns aggregate counts across all sessions.
func (s *Store) GetSessionStatistics(ctx context.Context) (storage.SessionStatistics, error) {
	if err := ctx.Err(); err != nil {
		return storage.SessionStatistics{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.SessionStatistics{}, fmt.Errorf("storage is not configured")
	}

	var stats storage.SessionStatistics
	row := s.sqlDB.QueryRowContext(ctx, sessionStatisticsQuery)
	if err := row.Scan(&stats.SessionCount, &stats.RoundsWon, &stats.RoundsLost, &stats.BestScore); err != nil {
		return storage.SessionStatistics{}, fmt.Errorf("get session statistics: %w", err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (storage.SessionRecord, error) {
	var record storage.SessionRecord
	var startedAt int64
	var endedAt sql.NullInt64

	if err := row.Scan(
		&record.ID,
		&record.Seed,
		&startedAt,
		&endedAt,
		&record.Score,
		&record.RoundsWon,
		&record.RoundsLost,
	); err != nil {
		return storage.SessionRecord{}, err
	}

	record.StartedAt = fromMillis(startedAt)
	record.EndedAt = fromNullMillis(endedAt)
	return record, nil
}
