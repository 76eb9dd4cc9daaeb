package round

import (
	"errors"
	"testing"
	"time"

	"github.com/skilletworks/prepline/internal/core/board"
	"github.com/skilletworks/prepline/internal/core/gesture"
	"github.com/skilletworks/prepline/internal/core/recipe"
)

func validMachineConfig() Config {
	return Config{
		LeftTracks:              []board.TrackID{"l1", "l2"},
		RightTracks:             []board.TrackID{"r1", "r2"},
		Tokens:                  []board.TokenID{"tomato", "basil"},
		AllowSameTokenBothSides: true,
		GestureRequired:         true,
		Gesture: gesture.Config{
			RequiredDuration: time.Second,
			MinSpeed:         10,
		},
		ResultDisplay:     time.Second,
		NextRoundDelay:    time.Second,
		SessionTimeLimit:  time.Minute,
		SessionEndDisplay: time.Second,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(cfg *Config) {},
		},
		{
			name:   "no gesture stage skips gesture checks",
			mutate: func(cfg *Config) { cfg.GestureRequired = false; cfg.Gesture = gesture.Config{} },
		},
		{
			name:    "no left tracks",
			mutate:  func(cfg *Config) { cfg.LeftTracks = nil },
			wantErr: recipe.ErrNoLeftTracks,
		},
		{
			name:    "track in both groups",
			mutate:  func(cfg *Config) { cfg.RightTracks = []board.TrackID{"l1", "r2"} },
			wantErr: recipe.ErrSharedTrack,
		},
		{
			name:    "no tokens",
			mutate:  func(cfg *Config) { cfg.Tokens = nil },
			wantErr: recipe.ErrNoTokens,
		},
		{
			name:    "gesture required without duration",
			mutate:  func(cfg *Config) { cfg.Gesture.RequiredDuration = 0 },
			wantErr: ErrGestureDuration,
		},
		{
			name: "gesture scaling with bad multiplier",
			mutate: func(cfg *Config) {
				cfg.Gesture.SpeedAffectsProgress = true
				cfg.Gesture.MaxMultiplier = 0.5
			},
			wantErr: gesture.ErrInvalidMultiplier,
		},
		{
			name:    "zero session time limit",
			mutate:  func(cfg *Config) { cfg.SessionTimeLimit = 0 },
			wantErr: ErrInvalidTimeLimit,
		},
		{
			name:    "negative result display",
			mutate:  func(cfg *Config) { cfg.ResultDisplay = -time.Second },
			wantErr: ErrInvalidDelay,
		},
		{
			name:    "negative session end display",
			mutate:  func(cfg *Config) { cfg.SessionEndDisplay = -time.Millisecond },
			wantErr: ErrInvalidDelay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validMachineConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := validMachineConfig()
	cfg.SessionTimeLimit = -time.Second

	if _, err := New(cfg); !errors.Is(err, ErrInvalidTimeLimit) {
		t.Fatalf("New() error = %v, want %v", err, ErrInvalidTimeLimit)
	}
}

func TestStateAndEventNames(t *testing.T) {
	if got := StateAwaitingLeftPlacement.String(); got != "awaiting_left_placement" {
		t.Errorf("State.String() = %q, want awaiting_left_placement", got)
	}
	if got := StateUnspecified.String(); got != "unspecified" {
		t.Errorf("State.String() = %q, want unspecified", got)
	}
	if got := EventSessionEnded.String(); got != "session_ended" {
		t.Errorf("EventKind.String() = %q, want session_ended", got)
	}
}
