// Package round orchestrates the matching minigame: it owns the round
// lifecycle, consumes the availability pool on placement triggers, drives
// the gesture meter, and sequences the win, loss, transition, and
// session-end phases around an independent session countdown.
package round

import (
	"log"
	"time"

	"github.com/skilletworks/prepline/internal/core/availability"
	"github.com/skilletworks/prepline/internal/core/board"
	"github.com/skilletworks/prepline/internal/core/gesture"
	"github.com/skilletworks/prepline/internal/core/recipe"
	"github.com/skilletworks/prepline/internal/core/sessionclock"
)

// PlacementEvent is a placement trigger raised by the host for one side.
// The engine does not care how the trigger was sourced.
type PlacementEvent struct {
	Side  board.Side
	Track board.TrackID
}

// Input carries one tick's worth of host samples.
type Input struct {
	// Delta is the time advanced by this tick. Negative deltas count as
	// zero.
	Delta time.Duration
	// Held maps token identities to their raw held state this tick.
	// Tokens absent from the map keep their last known state.
	Held map[board.TokenID]bool
	// Cursor is the current pointer position for gesture measurement.
	Cursor gesture.Point
	// Placements are the placement triggers raised this tick, in order.
	Placements []PlacementEvent
}

// Machine is the round state machine. It is the sole writer of the round
// state and placement records and the sole caller of the recipe
// generator.
//
// The machine is single-threaded by contract: the host calls Tick once
// per time step and reads queries between ticks. Waits are armed
// deadlines measured against accumulated tick time, never sleeps, so the
// machine is fully driven by synthetic deltas in tests.
type Machine struct {
	cfg    Config
	notify func(Event)
	logger *log.Logger

	gen   *recipe.Generator
	avail *availability.Tracker
	meter *gesture.Meter
	clock *sessionclock.Clock

	state State
	rec   recipe.Recipe
	left  board.Placement
	right board.Placement

	elapsed  time.Duration // time accumulated across all ticks
	deadline time.Duration // armed continuation, meaningful in wait states
}

// New validates cfg and returns a machine at the start of its first
// round, with the session countdown running.
func New(cfg Config) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gen, err := recipe.NewGenerator(cfg.recipeConfig(), cfg.Rand)
	if err != nil {
		return nil, err
	}

	meterCfg := gesture.Config{}
	if cfg.GestureRequired {
		meterCfg = cfg.Gesture
	}
	meter, err := gesture.NewMeter(meterCfg)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	m := &Machine{
		cfg:    cfg,
		notify: cfg.Notify,
		logger: logger,
		gen:    gen,
		avail:  availability.NewTracker(),
		meter:  meter,
		clock:  sessionclock.New(cfg.SessionTimeLimit),
	}
	m.startRound()
	return m, nil
}

// Tick advances the engine by one host time step. Processing is
// synchronous and ordered: availability sampling, state handling, then
// the session countdown. Nothing blocks; per-tick anomalies are recovered
// locally and the tick always completes.
func (m *Machine) Tick(input Input) {
	delta := input.Delta
	if delta < 0 {
		delta = 0
	}
	m.elapsed += delta
	phase := m.state

	m.sampleHeld(input.Held)
	m.step(delta, input)
	m.tickClock(phase, delta)
}

// sampleHeld edge-detects every configured token in configuration order,
// in every state. Scanning during result and transition phases keeps the
// held map truthful, so no stale transition is fabricated once the next
// round begins.
func (m *Machine) sampleHeld(held map[board.TokenID]bool) {
	for _, token := range m.cfg.Tokens {
		sample, ok := held[token]
		if !ok {
			continue
		}
		switch m.avail.Sample(token, sample) {
		case availability.ChangeReleased:
			m.emit(Event{Kind: EventTokenReleased, Token: token})
		case availability.ChangeReturned:
			m.emit(Event{Kind: EventTokenReturned, Token: token})
		}
	}
}

// step dispatches on the current state. Session expiry is checked first:
// it pre-empts any armed wait, including a pending round transition.
func (m *Machine) step(delta time.Duration, input Input) {
	if m.state != StateSessionEnded && m.clock.Expired() {
		m.enterSessionEnd()
		return
	}

	switch m.state {
	case StateAwaitingLeftPlacement, StateAwaitingRightPlacement:
		m.handlePlacements(input)
	case StateGestureStage:
		if sample := m.meter.Tick(delta, input.Cursor); sample.Completed {
			m.evaluate()
		}
	case StateWon, StateLost:
		if m.elapsed >= m.deadline {
			m.state = StateTransitioning
			m.deadline = m.elapsed + m.cfg.NextRoundDelay
		}
	case StateTransitioning:
		if m.elapsed >= m.deadline {
			m.startRound()
		}
	case StateSessionEnded:
		if m.elapsed >= m.deadline {
			m.restart()
		}
	}
}

// tickClock advances the countdown when the tick began outside result,
// transition, and session-end phases. Expiry is acted on at the top of
// the next tick's state handling, after any wait armed this tick.
func (m *Machine) tickClock(phase State, delta time.Duration) {
	switch phase {
	case StateWon, StateLost, StateTransitioning, StateSessionEnded:
		return
	}
	m.clock.Tick(delta)
}

// handlePlacements consumes this tick's placement triggers in order. A
// trigger for the wrong side is dropped. A trigger with an empty pool is
// announced and dropped. Recording is structural only: the consumed token
// and the chosen track are captured as-is, and correctness is judged once
// both sides are filled.
func (m *Machine) handlePlacements(input Input) {
	for _, trigger := range input.Placements {
		switch {
		case m.state == StateAwaitingLeftPlacement && trigger.Side == board.SideLeft:
			token, ok := m.takeToken(trigger)
			if !ok {
				continue
			}
			m.left = board.Placement{Token: token, Track: trigger.Track}
			m.state = StateAwaitingRightPlacement
			m.emit(Event{Kind: EventLeftPlaced, Side: board.SideLeft, Token: token, Track: trigger.Track})

		case m.state == StateAwaitingRightPlacement && trigger.Side == board.SideRight:
			token, ok := m.takeToken(trigger)
			if !ok {
				continue
			}
			m.right = board.Placement{Token: token, Track: trigger.Track}
			m.emit(Event{Kind: EventRightPlaced, Side: board.SideRight, Token: token, Track: trigger.Track})

			if m.cfg.GestureRequired {
				m.state = StateGestureStage
				m.meter.Enter(input.Cursor)
				m.emit(Event{Kind: EventGestureStarted})
				continue
			}
			m.evaluate()
			return
		}
	}
}

// takeToken pops the oldest available token for a placement trigger. An
// empty pool is a normal, recoverable condition: the trigger is ignored
// and announced, never fatal.
func (m *Machine) takeToken(trigger PlacementEvent) (board.TokenID, bool) {
	token, ok := m.avail.TakeOldest()
	if !ok {
		m.logger.Printf("%s placement on track %s ignored: no token available", trigger.Side, trigger.Track)
		m.emit(Event{Kind: EventPoolEmpty, Side: trigger.Side, Track: trigger.Track})
		return "", false
	}
	return token, true
}

// evaluate scores the filled placements against the recipe. All four
// fields must match for a win. Mismatched sides are announced
// individually so the player sees which half failed; a wrong placement is
// an expected outcome, not an error.
func (m *Machine) evaluate() {
	leftOK := m.left == m.rec.Left
	rightOK := m.right == m.rec.Right

	if !leftOK {
		m.emit(Event{Kind: EventPlacementWrong, Side: board.SideLeft, Token: m.left.Token, Track: m.left.Track})
	}
	if !rightOK {
		m.emit(Event{Kind: EventPlacementWrong, Side: board.SideRight, Token: m.right.Token, Track: m.right.Track})
	}

	if leftOK && rightOK {
		m.clock.RecordSuccess()
		m.state = StateWon
		m.emit(Event{Kind: EventRoundWon, Score: m.clock.Successes()})
	} else {
		m.state = StateLost
		m.emit(Event{Kind: EventRoundLost})
	}
	m.deadline = m.elapsed + m.cfg.ResultDisplay
}

// startRound begins a new round: fresh recipe, cleared placements, reset
// meter, emptied pool. The session clock is deliberately left alone.
func (m *Machine) startRound() {
	m.rec = m.gen.Generate()
	m.left = board.Placement{}
	m.right = board.Placement{}
	m.meter.Reset()
	m.avail.Clear()
	m.state = StateAwaitingLeftPlacement
	m.deadline = 0
}

// enterSessionEnd pre-empts whatever phase is active: the countdown
// pauses so it cannot re-trigger, the final score is announced, and the
// machine waits out the end-of-session display.
func (m *Machine) enterSessionEnd() {
	m.clock.Pause()
	m.state = StateSessionEnded
	m.deadline = m.elapsed + m.cfg.SessionEndDisplay
	m.emit(Event{Kind: EventSessionEnded, Score: m.clock.Successes()})
}

// restart begins a fresh session: full countdown, zero tally, new round.
func (m *Machine) restart() {
	m.clock.Reset(m.cfg.SessionTimeLimit)
	m.startRound()
}

// Restart abandons the current session and begins a fresh one
// immediately. This is the explicit restart action; ordinary round
// transitions never touch the countdown or the tally.
func (m *Machine) Restart() {
	m.restart()
}

func (m *Machine) emit(event Event) {
	if m.notify != nil {
		m.notify(event)
	}
}

// State returns the current round phase.
func (m *Machine) State() State {
	return m.state
}

// Recipe returns the active round requirement.
func (m *Machine) Recipe() recipe.Recipe {
	return m.rec
}

// GestureProgress returns the gesture meter's normalized progress.
func (m *Machine) GestureProgress() float64 {
	return m.meter.Progress()
}

// SessionRemaining returns the time left on the session countdown.
func (m *Machine) SessionRemaining() time.Duration {
	return m.clock.Remaining()
}

// SessionSuccesses returns the number of rounds won this session.
func (m *Machine) SessionSuccesses() int {
	return m.clock.Successes()
}

// Available returns the released tokens in release order. Placement
// consumption happens only inside Tick; the copy is for display surfaces.
func (m *Machine) Available() []board.TokenID {
	return m.avail.Pool()
}
