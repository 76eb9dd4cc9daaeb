// Package gameconfig loads the YAML tuning definition that shapes a play
// session: track layout, token set, gesture feel, and timing.
//
// Loading overlays the file onto DefaultDefinition, so a definition file
// only needs the fields it changes.
package gameconfig

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/skilletworks/prepline/internal/core/board"
	"github.com/skilletworks/prepline/internal/core/gesture"
	apperrors "github.com/skilletworks/prepline/internal/errors"
	"github.com/skilletworks/prepline/internal/round"
)

var (
	// ErrUnreadable indicates the definition file could not be read.
	ErrUnreadable = apperrors.New(apperrors.CodeDefinitionUnreadable, "definition file is unreadable")
	// ErrInvalid indicates the definition file could not be parsed.
	ErrInvalid = apperrors.New(apperrors.CodeDefinitionInvalid, "definition file is invalid")
)

// Definition mirrors the YAML tuning schema.
type Definition struct {
	LeftTracks              []string          `yaml:"left_tracks"`
	RightTracks             []string          `yaml:"right_tracks"`
	Tokens                  []string          `yaml:"tokens"`
	AllowSameTokenBothSides bool              `yaml:"allow_same_token_both_sides"`
	Gesture                 GestureDefinition `yaml:"gesture"`
	Timing                  TimingDefinition  `yaml:"timing"`
}

// GestureDefinition tunes the stir stage.
type GestureDefinition struct {
	Required             bool    `yaml:"required"`
	RequiredSeconds      float64 `yaml:"required_seconds"`
	MinSpeed             float64 `yaml:"min_speed"`
	SpeedAffectsProgress bool    `yaml:"speed_affects_progress"`
	MaxMultiplier        float64 `yaml:"max_multiplier"`
}

// TimingDefinition tunes session and transition timing, in seconds.
type TimingDefinition struct {
	SessionSeconds           float64 `yaml:"session_seconds"`
	ResultDisplaySeconds     float64 `yaml:"result_display_seconds"`
	NextRoundDelaySeconds    float64 `yaml:"next_round_delay_seconds"`
	SessionEndDisplaySeconds float64 `yaml:"session_end_display_seconds"`
}

// DefaultDefinition returns the stock tuning.
func DefaultDefinition() Definition {
	return Definition{
		LeftTracks:              []string{"left-1", "left-2", "left-3", "left-4", "left-5"},
		RightTracks:             []string{"right-1", "right-2", "right-3", "right-4", "right-5"},
		Tokens:                  []string{"tomato", "basil", "garlic", "onion", "pepper"},
		AllowSameTokenBothSides: true,
		Gesture: GestureDefinition{
			Required:             true,
			RequiredSeconds:      1.5,
			MinSpeed:             120,
			SpeedAffectsProgress: true,
			MaxMultiplier:        3,
		},
		Timing: TimingDefinition{
			SessionSeconds:           60,
			ResultDisplaySeconds:     1.5,
			NextRoundDelaySeconds:    0.75,
			SessionEndDisplaySeconds: 4,
		},
	}
}

// Load reads a definition file and overlays it onto the defaults. An
// empty path returns the defaults unchanged.
func Load(path string) (Definition, error) {
	def := DefaultDefinition()
	if path == "" {
		return def, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, apperrors.Wrap(apperrors.CodeDefinitionUnreadable, "read definition file", err)
	}
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, apperrors.Wrap(apperrors.CodeDefinitionInvalid, "parse definition file", err)
	}
	return def, nil
}

// RoundConfig converts the definition into an engine configuration. The
// configuration is validated so tuning mistakes surface at load time, not
// mid-round.
func (d Definition) RoundConfig() (round.Config, error) {
	cfg := round.Config{
		LeftTracks:              toTrackIDs(d.LeftTracks),
		RightTracks:             toTrackIDs(d.RightTracks),
		Tokens:                  toTokenIDs(d.Tokens),
		AllowSameTokenBothSides: d.AllowSameTokenBothSides,
		GestureRequired:         d.Gesture.Required,
		Gesture: gesture.Config{
			RequiredDuration:     secondsToDuration(d.Gesture.RequiredSeconds),
			MinSpeed:             d.Gesture.MinSpeed,
			SpeedAffectsProgress: d.Gesture.SpeedAffectsProgress,
			MaxMultiplier:        d.Gesture.MaxMultiplier,
		},
		ResultDisplay:     secondsToDuration(d.Timing.ResultDisplaySeconds),
		NextRoundDelay:    secondsToDuration(d.Timing.NextRoundDelaySeconds),
		SessionTimeLimit:  secondsToDuration(d.Timing.SessionSeconds),
		SessionEndDisplay: secondsToDuration(d.Timing.SessionEndDisplaySeconds),
	}
	if err := cfg.Validate(); err != nil {
		return round.Config{}, err
	}
	return cfg, nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

func toTrackIDs(values []string) []board.TrackID {
	ids := make([]board.TrackID, 0, len(values))
	for _, value := range values {
		ids = append(ids, board.TrackID(value))
	}
	return ids
}

func toTokenIDs(values []string) []board.TokenID {
	ids := make([]board.TokenID, 0, len(values))
	for _, value := range values {
		ids = append(ids, board.TokenID(value))
	}
	return ids
}
