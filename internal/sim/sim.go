// Package sim runs full play sessions headlessly with a scripted bot.
//
// The bot reads the active recipe, releases and places the required
// tokens, and sustains the stir gesture until the session countdown
// expires. Runs are fully deterministic for a given seed, which makes the
// simulator the reference harness for tuning definitions and for
// verifying that the persisted journal matches what the engine announced.
package sim

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/skilletworks/prepline/internal/core/board"
	"github.com/skilletworks/prepline/internal/gameconfig"
	"github.com/skilletworks/prepline/internal/platform/id"
	"github.com/skilletworks/prepline/internal/platform/timeouts"
	"github.com/skilletworks/prepline/internal/random"
	"github.com/skilletworks/prepline/internal/round"
	"github.com/skilletworks/prepline/internal/storage"
	"github.com/skilletworks/prepline/internal/telemetry"
)

// defaultTickDelta matches a 20Hz host loop.
const defaultTickDelta = 50 * time.Millisecond

// runawayFactor pads the tick bound for phases where the countdown is
// frozen, so the loop guard never fires on a healthy run.
const runawayFactor = 4

// Config holds simulation configuration.
type Config struct {
	// Definition is the tuning the session plays under.
	Definition gameconfig.Definition
	// Seed drives both recipe draws and bot mistakes. Zero picks a
	// crypto-random seed, which is reported so the run can be replayed.
	Seed int64
	// TickDelta is the synthetic frame duration. Zero means 50ms.
	TickDelta time.Duration
	// MistakeRate is the per-round probability that the bot places one
	// side on a deliberately wrong track.
	MistakeRate float64
	// Store receives the session record and event journal. Nil disables
	// persistence.
	Store storage.Store
	// Verbose logs per-round progress.
	Verbose bool
	// Logger receives progress output. Nil falls back to log.Default().
	Logger *log.Logger
}

// Report summarizes one simulated session.
type Report struct {
	SessionID  string
	Seed       int64
	Ticks      int
	RoundsWon  int
	RoundsLost int
	Score      int
}

// bot tracks what the scripted player is doing within the current round.
type bot struct {
	rng         *rand.Rand
	held        map[board.TokenID]bool
	leftTracks  []board.TrackID
	rightTracks []board.TrackID
	cursor      float64
	mistake     float64

	// sides already placed this round, reset when a fresh round begins.
	placedLeft  bool
	placedRight bool
	sabotage    board.Side
	prevState   round.State
}

// Run plays one full session to its natural end (countdown expiry) and
// returns the report. The session record and every engine event are
// persisted when a store is configured.
func Run(ctx context.Context, cfg Config) (Report, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	seed := cfg.Seed
	if seed == 0 {
		picked, err := random.NewSeed()
		if err != nil {
			return Report{}, fmt.Errorf("pick seed: %w", err)
		}
		seed = picked
	}

	tickDelta := cfg.TickDelta
	if tickDelta <= 0 {
		tickDelta = defaultTickDelta
	}

	roundCfg, err := cfg.Definition.RoundConfig()
	if err != nil {
		return Report{}, fmt.Errorf("definition: %w", err)
	}

	sessionID, err := id.NewID()
	if err != nil {
		return Report{}, fmt.Errorf("session id: %w", err)
	}

	report := Report{SessionID: sessionID, Seed: seed}
	emitter := telemetry.NewEmitter(cfg.Store)
	startedAt := time.Now().UTC()

	if cfg.Store != nil {
		if err := putSession(ctx, cfg.Store, storage.SessionRecord{
			ID:        sessionID,
			Seed:      seed,
			StartedAt: startedAt,
		}); err != nil {
			return Report{}, err
		}
	}

	ended := false
	roundCfg.Rand = random.NewRand(seed)
	roundCfg.Logger = logger
	roundCfg.Notify = func(evt round.Event) {
		switch evt.Kind {
		case round.EventRoundWon:
			report.RoundsWon++
			if cfg.Verbose {
				logger.Printf("round won (score %d)", evt.Score)
			}
		case round.EventRoundLost:
			report.RoundsLost++
			if cfg.Verbose {
				logger.Printf("round lost")
			}
		case round.EventSessionEnded:
			report.Score = evt.Score
			ended = true
		}
		if err := emitter.Emit(ctx, sessionID, evt); err != nil {
			logger.Printf("journal event %s: %v", evt.Kind, err)
		}
	}

	machine, err := round.New(roundCfg)
	if err != nil {
		return Report{}, err
	}

	player := &bot{
		rng:         random.NewRand(seed + 1),
		held:        make(map[board.TokenID]bool, len(roundCfg.Tokens)),
		leftTracks:  roundCfg.LeftTracks,
		rightTracks: roundCfg.RightTracks,
		mistake:     cfg.MistakeRate,
	}
	for _, token := range roundCfg.Tokens {
		player.held[token] = true
	}

	// The countdown plus the end-of-session display bounds the run; the
	// factor absorbs frozen-clock phases between rounds.
	maxTicks := int((roundCfg.SessionTimeLimit+roundCfg.SessionEndDisplay)/tickDelta)*runawayFactor + 1

	for !ended {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		if report.Ticks >= maxTicks {
			return Report{}, fmt.Errorf("session did not end within %d ticks", maxTicks)
		}
		machine.Tick(player.input(machine, tickDelta))
		report.Ticks++
	}

	if cfg.Store != nil {
		endedAt := startedAt.Add(time.Duration(report.Ticks) * tickDelta)
		if err := putSession(ctx, cfg.Store, storage.SessionRecord{
			ID:         sessionID,
			Seed:       seed,
			StartedAt:  startedAt,
			EndedAt:    &endedAt,
			Score:      report.Score,
			RoundsWon:  report.RoundsWon,
			RoundsLost: report.RoundsLost,
		}); err != nil {
			return Report{}, err
		}
	}

	if cfg.Verbose {
		logger.Printf("session %s done: %d won, %d lost in %d ticks (seed %d)",
			sessionID, report.RoundsWon, report.RoundsLost, report.Ticks, seed)
	}
	return report, nil
}

func putSession(ctx context.Context, store storage.SessionStore, record storage.SessionRecord) error {
	opCtx, cancel := context.WithTimeout(ctx, timeouts.StoreOp)
	defer cancel()
	if err := store.PutSession(opCtx, record); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// input decides the bot's next move from the machine's visible state.
func (b *bot) input(m *round.Machine, delta time.Duration) round.Input {
	in := round.Input{Delta: delta, Held: b.held}

	state := m.State()
	if state == round.StateAwaitingLeftPlacement && b.prevState != round.StateAwaitingLeftPlacement {
		b.startRound()
	}
	b.prevState = state

	rec := m.Recipe()
	switch state {
	case round.StateAwaitingLeftPlacement:
		b.aimSide(&in, m, board.SideLeft, rec.Left)
	case round.StateAwaitingRightPlacement:
		b.aimSide(&in, m, board.SideRight, rec.Right)
	case round.StateGestureStage:
		// Sweep the cursor fast enough to always clear the speed floor.
		b.cursor += speedFor(delta)
	}

	in.Cursor.X = b.cursor
	return in
}

// startRound resets per-round bookkeeping and re-grabs every token so the
// release edges for the new round register against the cleared pool.
func (b *bot) startRound() {
	b.placedLeft = false
	b.placedRight = false
	b.sabotage = board.SideUnspecified
	if b.mistake > 0 && b.rng.Float64() < b.mistake {
		if b.rng.Intn(2) == 0 {
			b.sabotage = board.SideLeft
		} else {
			b.sabotage = board.SideRight
		}
	}
	for token := range b.held {
		b.held[token] = true
	}
}

// aimSide releases the side's token on one tick and places it on the
// next, once it is the oldest in the pool.
func (b *bot) aimSide(in *round.Input, m *round.Machine, side board.Side, want board.Placement) {
	if (side == board.SideLeft && b.placedLeft) || (side == board.SideRight && b.placedRight) {
		return
	}

	if b.held[want.Token] {
		b.held[want.Token] = false
		return
	}

	pool := m.Available()
	if len(pool) == 0 || pool[0] != want.Token {
		// A recipe can require the same token on both sides. The left
		// placement consumed it, so grab it back and release it again.
		if !poolContains(pool, want.Token) {
			b.held[want.Token] = true
		}
		return
	}

	track := want.Track
	if b.sabotage == side {
		track = b.wrongTrack(side, want.Track)
	}
	in.Placements = append(in.Placements, round.PlacementEvent{Side: side, Track: track})
	if side == board.SideLeft {
		b.placedLeft = true
	} else {
		b.placedRight = true
	}
}

// wrongTrack picks a track on the same side that differs from the correct
// one. A single-track side cannot be sabotaged and keeps the right track.
func (b *bot) wrongTrack(side board.Side, correct board.TrackID) board.TrackID {
	tracks := b.leftTracks
	if side == board.SideRight {
		tracks = b.rightTracks
	}
	candidates := make([]board.TrackID, 0, len(tracks))
	for _, track := range tracks {
		if track != correct {
			candidates = append(candidates, track)
		}
	}
	if len(candidates) == 0 {
		return correct
	}
	return candidates[b.rng.Intn(len(candidates))]
}

// speedFor returns a per-tick cursor displacement well above any sane
// speed floor: 400 board units per second.
func speedFor(delta time.Duration) float64 {
	return 400 * delta.Seconds()
}

func poolContains(pool []board.TokenID, token board.TokenID) bool {
	for _, queued := range pool {
		if queued == token {
			return true
		}
	}
	return false
}
