// Package sessionclock tracks the session countdown and win tally.
package sessionclock

import "time"

// Clock counts a session down and tallies round wins. A session spans
// many rounds: ordinary round transitions never touch the clock, only an
// explicit Reset does.
type Clock struct {
	remaining time.Duration
	successes int
	paused    bool
}

// New returns a running clock with limit remaining.
func New(limit time.Duration) *Clock {
	return &Clock{remaining: limit}
}

// Tick advances the countdown by delta unless the clock is paused. The
// remaining time floors at zero. Non-positive deltas are ignored.
func (c *Clock) Tick(delta time.Duration) {
	if c.paused || delta <= 0 {
		return
	}
	c.remaining -= delta
	if c.remaining < 0 {
		c.remaining = 0
	}
}

// Expired reports whether the countdown has run out. It stays true until
// the clock is reset.
func (c *Clock) Expired() bool {
	return c.remaining == 0
}

// RecordSuccess adds one round win to the tally.
func (c *Clock) RecordSuccess() {
	c.successes++
}

// Reset restarts the session: limit remaining, a zero tally, and the
// countdown unpaused.
func (c *Clock) Reset(limit time.Duration) {
	c.remaining = limit
	c.successes = 0
	c.paused = false
}

// Pause stops the countdown until Resume or Reset.
func (c *Clock) Pause() {
	c.paused = true
}

// Resume restarts a paused countdown.
func (c *Clock) Resume() {
	c.paused = false
}

// Remaining returns the time left in the session.
func (c *Clock) Remaining() time.Duration {
	return c.remaining
}

// Successes returns the number of rounds won this session.
func (c *Clock) Successes() int {
	return c.successes
}
