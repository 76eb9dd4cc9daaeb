// Package availability turns raw per-tick held samples into release and
// return transitions and keeps released tokens in a FIFO pool.
package availability

import "github.com/skilletworks/prepline/internal/core/board"

// Change describes the transition detected by a single sample.
type Change int

const (
	// ChangeNone means the sample matched the last known state.
	ChangeNone Change = iota
	// ChangeReleased means the token went from held to released.
	ChangeReleased
	// ChangeReturned means the token went from released back to held.
	ChangeReturned
)

// Tracker owns the availability pool. It remembers the last known held
// state per token and edge-detects transitions between samples.
//
// The first sample for a token only initializes its state; it never
// produces a transition, so a token that starts released does not enter
// the pool until it has been held and released again.
type Tracker struct {
	known map[board.TokenID]bool
	pool  []board.TokenID
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{known: make(map[board.TokenID]bool)}
}

// Sample records the current held state for token and returns the
// transition it caused. Release appends the token to the pool tail unless
// it is already queued; return removes it from any position. A returned
// transition is reported even when the token was already consumed out of
// the pool, so callers can still announce it.
func (t *Tracker) Sample(token board.TokenID, held bool) Change {
	last, seen := t.known[token]
	t.known[token] = held
	if !seen || last == held {
		return ChangeNone
	}

	if held {
		t.remove(token)
		return ChangeReturned
	}
	if !t.contains(token) {
		t.pool = append(t.pool, token)
	}
	return ChangeReleased
}

// TakeOldest removes and returns the pool head, preserving release order.
// It reports false when the pool is empty. This is the only way tokens
// leave the pool for placement, so a consumed token can never be placed
// twice in the same round.
func (t *Tracker) TakeOldest() (board.TokenID, bool) {
	if len(t.pool) == 0 {
		return "", false
	}
	head := t.pool[0]
	t.pool = append(t.pool[:0], t.pool[1:]...)
	return head, true
}

// Clear empties the pool. Last known held states persist, so clearing at
// a round boundary does not fabricate transitions on the next tick.
func (t *Tracker) Clear() {
	t.pool = t.pool[:0]
}

// Len returns the number of tokens currently available.
func (t *Tracker) Len() int {
	return len(t.pool)
}

// Pool returns a copy of the available tokens in release order. It exists
// for display surfaces; placement must consume through TakeOldest.
func (t *Tracker) Pool() []board.TokenID {
	out := make([]board.TokenID, len(t.pool))
	copy(out, t.pool)
	return out
}

func (t *Tracker) contains(token board.TokenID) bool {
	for _, queued := range t.pool {
		if queued == token {
			return true
		}
	}
	return false
}

func (t *Tracker) remove(token board.TokenID) {
	for i, queued := range t.pool {
		if queued == token {
			t.pool = append(t.pool[:i], t.pool[i+1:]...)
			return
		}
	}
}
