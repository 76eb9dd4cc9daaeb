// Package gesture accumulates continuous motion samples into stage progress.
package gesture

import (
	"math"
	"time"

	apperrors "github.com/skilletworks/prepline/internal/errors"
)

var (
	// ErrInvalidDuration indicates a negative required duration.
	ErrInvalidDuration = apperrors.New(apperrors.CodeGestureInvalidDuration, "required duration must not be negative")
	// ErrInvalidMinSpeed indicates an unusable minimum speed.
	ErrInvalidMinSpeed = apperrors.New(apperrors.CodeGestureInvalidMinSpeed, "minimum speed is out of range")
	// ErrInvalidMultiplier indicates a speed multiplier below 1.
	ErrInvalidMultiplier = apperrors.New(apperrors.CodeGestureInvalidMultiplier, "max multiplier must be at least 1")
)

// Point is a cursor position sample in board units.
type Point struct {
	X, Y float64
}

// Config tunes the progress accumulator.
type Config struct {
	// RequiredDuration is the accumulated qualifying time that completes
	// the stage. Zero completes the stage instantly on entry.
	RequiredDuration time.Duration
	// MinSpeed is the floor speed, in board units per second. A tick
	// sampled below the floor adds no progress.
	MinSpeed float64
	// SpeedAffectsProgress scales progress by how far the sampled speed
	// exceeds MinSpeed.
	SpeedAffectsProgress bool
	// MaxMultiplier caps the speed bonus when SpeedAffectsProgress is on.
	MaxMultiplier float64
}

// Validate checks the accumulator tuning. MinSpeed must be strictly
// positive when speed scaling is enabled because the bonus is measured
// relative to the floor.
func (c Config) Validate() error {
	if c.RequiredDuration < 0 {
		return ErrInvalidDuration
	}
	if c.MinSpeed < 0 {
		return ErrInvalidMinSpeed
	}
	if c.SpeedAffectsProgress {
		if c.MinSpeed == 0 {
			return ErrInvalidMinSpeed
		}
		if c.MaxMultiplier < 1 {
			return ErrInvalidMultiplier
		}
	}
	return nil
}

// Sample is the meter state after a tick.
type Sample struct {
	// Progress is the normalized completion in [0, 1].
	Progress float64
	// Completed is true once accumulated progress reaches the required
	// duration. It stays true until the meter is reset or re-entered.
	Completed bool
}

// Meter accumulates qualifying motion time toward a required duration.
//
// Speed is measured between consecutive position samples. Motion at or
// above the floor speed adds tick time to the accumulator; with speed
// scaling enabled the addition is multiplied by a bounded bonus, so the
// floor prevents trivial completion and the cap prevents unbounded
// exploitation. Progress never decreases within a stage.
type Meter struct {
	cfg       Config
	prev      Point
	accum     time.Duration
	completed bool
}

// NewMeter validates cfg and returns an idle meter. Enter must be called
// before motion samples are fed.
func NewMeter(cfg Config) (*Meter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Meter{cfg: cfg}, nil
}

// Enter starts a gesture stage: progress drops to zero and at becomes the
// baseline for the next speed measurement. A zero required duration
// completes the stage immediately.
func (m *Meter) Enter(at Point) {
	m.prev = at
	m.accum = 0
	m.completed = m.cfg.RequiredDuration == 0
}

// Reset returns the meter to its idle state between rounds.
func (m *Meter) Reset() {
	m.prev = Point{}
	m.accum = 0
	m.completed = false
}

// Tick folds one motion sample into the accumulator and reports the
// resulting state. A non-positive delta contributes no progress and only
// refreshes the baseline position.
func (m *Meter) Tick(delta time.Duration, at Point) Sample {
	speed := 0.0
	if delta > 0 {
		speed = distance(m.prev, at) / delta.Seconds()
	}
	m.prev = at

	if m.completed {
		return m.state()
	}

	if delta > 0 && speed >= m.cfg.MinSpeed {
		multiplier := 1.0
		if m.cfg.SpeedAffectsProgress {
			excess := clamp01((speed - m.cfg.MinSpeed) / m.cfg.MinSpeed)
			multiplier = lerp(1, m.cfg.MaxMultiplier, excess)
		}
		m.accum += time.Duration(float64(delta) * multiplier)
		if m.accum > m.cfg.RequiredDuration {
			m.accum = m.cfg.RequiredDuration
		}
	}

	if m.accum >= m.cfg.RequiredDuration {
		m.completed = true
	}
	return m.state()
}

// Progress returns the normalized completion in [0, 1].
func (m *Meter) Progress() float64 {
	if m.cfg.RequiredDuration <= 0 {
		if m.completed {
			return 1
		}
		return 0
	}
	return float64(m.accum) / float64(m.cfg.RequiredDuration)
}

func (m *Meter) state() Sample {
	return Sample{Progress: m.Progress(), Completed: m.completed}
}

func distance(from, to Point) float64 {
	return math.Hypot(to.X-from.X, to.Y-from.Y)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}
