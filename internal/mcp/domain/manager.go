// Package domain implements the playtest MCP tools over the round engine.
//
// A Manager owns at most one live playtest session. The engine itself is
// single-threaded by contract, so every tool call takes the manager lock
// and steps the machine synchronously; concurrent MCP clients serialize
// on it.
package domain

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/skilletworks/prepline/internal/core/board"
	"github.com/skilletworks/prepline/internal/core/gesture"
	"github.com/skilletworks/prepline/internal/gameconfig"
	"github.com/skilletworks/prepline/internal/platform/id"
	"github.com/skilletworks/prepline/internal/random"
	"github.com/skilletworks/prepline/internal/round"
	"github.com/skilletworks/prepline/internal/storage"
	"github.com/skilletworks/prepline/internal/telemetry"
)

// defaultTickDelta matches a 20Hz host loop.
const defaultTickDelta = 50 * time.Millisecond

// Manager owns the live playtest session driven through MCP tools.
type Manager struct {
	mu         sync.Mutex
	definition gameconfig.Definition
	store      storage.Store
	emitter    *telemetry.Emitter
	logger     *log.Logger

	machine    *round.Machine
	sessionID  string
	seed       int64
	tickDelta  time.Duration
	held       map[board.TokenID]bool
	cursor     gesture.Point
	pending    []round.Event
	startedAt  time.Time
	elapsed    time.Duration
	roundsWon  int
	roundsLost int
	finalScore int
	sessionEnd bool
}

// NewManager builds a playtest manager. The store may be nil; sessions
// then run without a journal.
func NewManager(definition gameconfig.Definition, store storage.Store, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		definition: definition,
		store:      store,
		emitter:    telemetry.NewEmitter(store),
		logger:     logger,
	}
}

// start replaces any live session with a fresh one.
func (m *Manager) start(ctx context.Context, seed int64, tickSeconds float64) error {
	if m.machine != nil {
		if err := m.closeSession(ctx); err != nil {
			return err
		}
	}

	if seed == 0 {
		picked, err := random.NewSeed()
		if err != nil {
			return fmt.Errorf("pick seed: %w", err)
		}
		seed = picked
	}

	tickDelta := defaultTickDelta
	if tickSeconds > 0 {
		tickDelta = time.Duration(tickSeconds * float64(time.Second))
	}

	cfg, err := m.definition.RoundConfig()
	if err != nil {
		return err
	}
	cfg.Rand = random.NewRand(seed)
	cfg.Logger = m.logger
	cfg.Notify = func(event round.Event) {
		m.pending = append(m.pending, event)
		switch event.Kind {
		case round.EventRoundWon:
			m.roundsWon++
		case round.EventRoundLost:
			m.roundsLost++
		case round.EventSessionEnded:
			m.finalScore = event.Score
			m.sessionEnd = true
		}
	}

	machine, err := round.New(cfg)
	if err != nil {
		return err
	}

	sessionID, err := id.NewID()
	if err != nil {
		return fmt.Errorf("session id: %w", err)
	}

	m.machine = machine
	m.sessionID = sessionID
	m.seed = seed
	m.tickDelta = tickDelta
	m.cursor = gesture.Point{}
	m.pending = nil
	m.startedAt = time.Now().UTC()
	m.elapsed = 0
	m.roundsWon = 0
	m.roundsLost = 0
	m.finalScore = 0
	m.sessionEnd = false
	m.held = make(map[board.TokenID]bool, len(cfg.Tokens))
	for _, token := range cfg.Tokens {
		m.held[token] = true
	}

	if m.store != nil {
		if err := m.store.PutSession(ctx, storage.SessionRecord{
			ID:        sessionID,
			Seed:      seed,
			StartedAt: m.startedAt,
		}); err != nil {
			return fmt.Errorf("put session: %w", err)
		}
	}

	// Zero-delta tick initializes edge detection without advancing time.
	m.machine.Tick(round.Input{Held: m.held, Cursor: m.cursor})
	return nil
}

// closeSession persists the final record of the live session.
func (m *Manager) closeSession(ctx context.Context) error {
	if m.machine == nil || m.store == nil {
		m.machine = nil
		return nil
	}
	endedAt := m.startedAt.Add(m.elapsed)
	score := m.finalScore
	if !m.sessionEnd {
		score = m.machine.SessionSuccesses()
	}
	err := m.store.PutSession(ctx, storage.SessionRecord{
		ID:         m.sessionID,
		Seed:       m.seed,
		StartedAt:  m.startedAt,
		EndedAt:    &endedAt,
		Score:      score,
		RoundsWon:  m.roundsWon,
		RoundsLost: m.roundsLost,
	})
	m.machine = nil
	if err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	return nil
}

// tick advances the live session, optionally sweeping the cursor at a
// constant speed so gesture stages can be driven remotely.
func (m *Manager) tick(count int, delta time.Duration, stirSpeed float64, placements ...round.PlacementEvent) {
	for i := 0; i < count; i++ {
		if stirSpeed > 0 {
			m.cursor.X += stirSpeed * delta.Seconds()
		}
		in := round.Input{Delta: delta, Held: m.held, Cursor: m.cursor}
		if i == 0 {
			in.Placements = placements
		}
		m.machine.Tick(in)
		m.elapsed += delta
	}
}

// drainEvents journals and returns the events emitted since the last
// drain. Journal failures are logged, never surfaced: the playtest keeps
// going without its journal.
func (m *Manager) drainEvents(ctx context.Context) []string {
	if len(m.pending) == 0 {
		return nil
	}
	names := make([]string, 0, len(m.pending))
	for _, event := range m.pending {
		names = append(names, event.Kind.String())
		if err := m.emitter.Emit(ctx, m.sessionID, event); err != nil {
			m.logger.Printf("journal event %s: %v", event.Kind, err)
		}
	}
	m.pending = nil
	return names
}

// requireSession guards tools that need a live session.
func (m *Manager) requireSession() error {
	if m.machine == nil {
		return fmt.Errorf("no live session; call session_start first")
	}
	return nil
}
