package telemetry

import (
	"context"
	"time"

	"github.com/skilletworks/prepline/internal/core/board"
	"github.com/skilletworks/prepline/internal/round"
	"github.com/skilletworks/prepline/internal/storage"
)

// Emitter journals engine events for a session.
type Emitter struct {
	store storage.EventStore
	clock func() time.Time
}

// NewEmitter creates a new journal emitter.
func NewEmitter(store storage.EventStore) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit journals one engine event. It is a no-op when the store is nil.
func (e *Emitter) Emit(ctx context.Context, sessionID string, evt round.Event) error {
	if e == nil || e.store == nil {
		return nil
	}

	record := storage.EventRecord{
		SessionID: sessionID,
		Kind:      evt.Kind.String(),
		Token:     string(evt.Token),
		Track:     string(evt.Track),
		Score:     evt.Score,
	}
	if evt.Side != board.SideUnspecified {
		record.Side = evt.Side.String()
	}
	if e.clock == nil {
		record.At = time.Now().UTC()
	} else {
		record.At = e.clock().UTC()
	}

	_, err := e.store.AppendEvent(ctx, record)
	return err
}
