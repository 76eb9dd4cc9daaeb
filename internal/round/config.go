package round

import (
	"log"
	"math/rand"
	"time"

	"github.com/skilletworks/prepline/internal/core/board"
	"github.com/skilletworks/prepline/internal/core/gesture"
	"github.com/skilletworks/prepline/internal/core/recipe"
	apperrors "github.com/skilletworks/prepline/internal/errors"
)

var (
	// ErrInvalidTimeLimit indicates a non-positive session time limit.
	ErrInvalidTimeLimit = apperrors.New(apperrors.CodeSessionInvalidTimeLimit, "session time limit must be positive")
	// ErrInvalidDelay indicates a negative display or transition delay.
	ErrInvalidDelay = apperrors.New(apperrors.CodeRoundInvalidDelay, "display and transition delays must not be negative")
	// ErrGestureDuration indicates a mandatory gesture stage without a
	// positive required duration.
	ErrGestureDuration = apperrors.New(apperrors.CodeGestureInvalidDuration, "gesture stage requires a positive duration")
)

// Config assembles every effect-bearing knob of the engine. It is
// validated once at construction so misconfiguration can never surface
// mid-round.
type Config struct {
	// LeftTracks and RightTracks partition the placement slots. The two
	// groups must be disjoint and each non-empty.
	LeftTracks  []board.TrackID
	RightTracks []board.TrackID
	// Tokens is the full set of pickable identities.
	Tokens []board.TokenID
	// AllowSameTokenBothSides permits one token identity on both sides of
	// a recipe.
	AllowSameTokenBothSides bool

	// GestureRequired inserts the gesture stage between the second
	// placement and evaluation.
	GestureRequired bool
	// Gesture tunes the progress meter. It is ignored unless
	// GestureRequired is set.
	Gesture gesture.Config

	// ResultDisplay is how long a won or lost round stays on display.
	ResultDisplay time.Duration
	// NextRoundDelay is the gap between clearing a result and the next round.
	NextRoundDelay time.Duration
	// SessionTimeLimit is the countdown for a whole session.
	SessionTimeLimit time.Duration
	// SessionEndDisplay is how long the final score stays on display
	// before the session restarts.
	SessionEndDisplay time.Duration

	// Notify receives outbound events. Nil disables notifications.
	Notify func(Event)
	// Rand drives recipe draws. Nil falls back to a crypto-seeded source.
	Rand *rand.Rand
	// Logger receives warnings. Nil falls back to log.Default().
	Logger *log.Logger
}

// Validate rejects unusable configurations.
func (c Config) Validate() error {
	if err := c.recipeConfig().Validate(); err != nil {
		return err
	}
	if c.GestureRequired {
		if c.Gesture.RequiredDuration <= 0 {
			return ErrGestureDuration
		}
		if err := c.Gesture.Validate(); err != nil {
			return err
		}
	}
	if c.SessionTimeLimit <= 0 {
		return ErrInvalidTimeLimit
	}
	if c.ResultDisplay < 0 || c.NextRoundDelay < 0 || c.SessionEndDisplay < 0 {
		return ErrInvalidDelay
	}
	return nil
}

func (c Config) recipeConfig() recipe.Config {
	return recipe.Config{
		LeftTracks:              c.LeftTracks,
		RightTracks:             c.RightTracks,
		Tokens:                  c.Tokens,
		AllowSameTokenBothSides: c.AllowSameTokenBothSides,
	}
}
