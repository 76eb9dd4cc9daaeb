package recipe

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/skilletworks/prepline/internal/core/board"
)

func validConfig() Config {
	return Config{
		LeftTracks:              []board.TrackID{"l1", "l2", "l3"},
		RightTracks:             []board.TrackID{"r1", "r2", "r3"},
		Tokens:                  []board.TokenID{"tomato", "basil", "garlic"},
		AllowSameTokenBothSides: true,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "valid",
			mutate:  func(*Config) {},
			wantErr: nil,
		},
		{
			name:    "no left tracks",
			mutate:  func(c *Config) { c.LeftTracks = nil },
			wantErr: ErrNoLeftTracks,
		},
		{
			name:    "no right tracks",
			mutate:  func(c *Config) { c.RightTracks = nil },
			wantErr: ErrNoRightTracks,
		},
		{
			name:    "no tokens",
			mutate:  func(c *Config) { c.Tokens = nil },
			wantErr: ErrNoTokens,
		},
		{
			name:    "duplicate track in group",
			mutate:  func(c *Config) { c.LeftTracks = []board.TrackID{"l1", "l1"} },
			wantErr: ErrDuplicateTrack,
		},
		{
			name:    "track on both sides",
			mutate:  func(c *Config) { c.RightTracks = []board.TrackID{"l1", "r2"} },
			wantErr: ErrSharedTrack,
		},
		{
			name:    "duplicate token",
			mutate:  func(c *Config) { c.Tokens = []board.TokenID{"tomato", "tomato"} },
			wantErr: ErrDuplicateToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
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

func TestGenerateDrawsFromConfiguredSpace(t *testing.T) {
	cfg := validConfig()
	gen, err := NewGenerator(cfg, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}

	leftTracks := trackSet(cfg.LeftTracks)
	rightTracks := trackSet(cfg.RightTracks)
	tokens := tokenSet(cfg.Tokens)

	for i := 0; i < 200; i++ {
		rec := gen.Generate()
		if !leftTracks[rec.Left.Track] {
			t.Fatalf("recipe %d: left track %q not in left group", i, rec.Left.Track)
		}
		if !rightTracks[rec.Right.Track] {
			t.Fatalf("recipe %d: right track %q not in right group", i, rec.Right.Track)
		}
		if !tokens[rec.Left.Token] || !tokens[rec.Right.Token] {
			t.Fatalf("recipe %d: token outside token set: %+v", i, rec)
		}
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	first, err := NewGenerator(validConfig(), rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	second, err := NewGenerator(validConfig(), rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}

	for i := 0; i < 50; i++ {
		a, b := first.Generate(), second.Generate()
		if a != b {
			t.Fatalf("recipe %d differs: %+v vs %+v", i, a, b)
		}
	}
}

func TestGenerateDisallowSameTokenRedraws(t *testing.T) {
	cfg := validConfig()
	cfg.AllowSameTokenBothSides = false

	gen, err := NewGenerator(cfg, rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}

	for i := 0; i < 100; i++ {
		rec := gen.Generate()
		if rec.Left.Token == rec.Right.Token {
			t.Fatalf("recipe %d: same token on both sides with redraw policy: %+v", i, rec)
		}
	}
}

func TestGenerateSingleTokenFallsBackToLastDraw(t *testing.T) {
	cfg := validConfig()
	cfg.Tokens = []board.TokenID{"tomato"}
	cfg.AllowSameTokenBothSides = false

	gen, err := NewGenerator(cfg, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}

	// With one token every redraw matches, so the bounded retry must give
	// up and keep the last draw instead of spinning forever.
	rec := gen.Generate()
	if rec.Left.Token != "tomato" || rec.Right.Token != "tomato" {
		t.Fatalf("expected fallback to the only token, got %+v", rec)
	}
}

func TestNewGeneratorRejectsInvalidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Tokens = nil

	if _, err := NewGenerator(cfg, rand.New(rand.NewSource(1))); !errors.Is(err, ErrNoTokens) {
		t.Fatalf("NewGenerator() error = %v, want %v", err, ErrNoTokens)
	}
}

func trackSet(tracks []board.TrackID) map[board.TrackID]bool {
	set := make(map[board.TrackID]bool, len(tracks))
	for _, track := range tracks {
		set[track] = true
	}
	return set
}

func tokenSet(tokens []board.TokenID) map[board.TokenID]bool {
	set := make(map[board.TokenID]bool, len(tokens))
	for _, token := range tokens {
		set[token] = true
	}
	return set
}
