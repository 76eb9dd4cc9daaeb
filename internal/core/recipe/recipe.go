// Package recipe generates per-round placement requirements.
package recipe

import (
	"math/rand"

	"github.com/skilletworks/prepline/internal/core/board"
	apperrors "github.com/skilletworks/prepline/internal/errors"
	"github.com/skilletworks/prepline/internal/random"
)

// maxSameTokenResamples bounds the redraw loop when the same token is not
// allowed on both sides. The last draw stands once the bound is reached.
const maxSameTokenResamples = 20

var (
	// ErrNoLeftTracks indicates the left track group is empty.
	ErrNoLeftTracks = apperrors.New(apperrors.CodeRecipeNoLeftTracks, "left track group is empty")
	// ErrNoRightTracks indicates the right track group is empty.
	ErrNoRightTracks = apperrors.New(apperrors.CodeRecipeNoRightTracks, "right track group is empty")
	// ErrNoTokens indicates the token set is empty.
	ErrNoTokens = apperrors.New(apperrors.CodeRecipeNoTokens, "token set is empty")
	// ErrDuplicateTrack indicates a track appears twice in a group.
	ErrDuplicateTrack = apperrors.New(apperrors.CodeRecipeDuplicateTrack, "track appears more than once")
	// ErrSharedTrack indicates a track appears in both groups.
	ErrSharedTrack = apperrors.New(apperrors.CodeRecipeSharedTrack, "track appears on both sides")
	// ErrDuplicateToken indicates a token appears twice in the token set.
	ErrDuplicateToken = apperrors.New(apperrors.CodeRecipeDuplicateToken, "token appears more than once")
)

// Config describes the draw space for recipe generation.
type Config struct {
	LeftTracks  []board.TrackID
	RightTracks []board.TrackID
	Tokens      []board.TokenID

	// AllowSameTokenBothSides permits one token identity to be required on
	// both sides of the same recipe.
	AllowSameTokenBothSides bool
}

// Validate checks that the draw space is usable. Track groups must be
// non-empty and disjoint, and identifiers must be unique.
func (c Config) Validate() error {
	if len(c.LeftTracks) == 0 {
		return ErrNoLeftTracks
	}
	if len(c.RightTracks) == 0 {
		return ErrNoRightTracks
	}
	if len(c.Tokens) == 0 {
		return ErrNoTokens
	}

	seen := make(map[board.TrackID]board.Side, len(c.LeftTracks)+len(c.RightTracks))
	for _, track := range c.LeftTracks {
		if _, dup := seen[track]; dup {
			return apperrors.WithMetadata(apperrors.CodeRecipeDuplicateTrack, "track appears more than once", map[string]string{
				"track": string(track),
			})
		}
		seen[track] = board.SideLeft
	}
	for _, track := range c.RightTracks {
		switch seen[track] {
		case board.SideLeft:
			return apperrors.WithMetadata(apperrors.CodeRecipeSharedTrack, "track appears on both sides", map[string]string{
				"track": string(track),
			})
		case board.SideRight:
			return apperrors.WithMetadata(apperrors.CodeRecipeDuplicateTrack, "track appears more than once", map[string]string{
				"track": string(track),
			})
		}
		seen[track] = board.SideRight
	}

	tokens := make(map[board.TokenID]bool, len(c.Tokens))
	for _, token := range c.Tokens {
		if tokens[token] {
			return apperrors.WithMetadata(apperrors.CodeRecipeDuplicateToken, "token appears more than once", map[string]string{
				"token": string(token),
			})
		}
		tokens[token] = true
	}
	return nil
}

// Recipe is the per-round requirement: one placement per side. Both fields
// are always populated by Generate.
type Recipe struct {
	Left  board.Placement
	Right board.Placement
}

// Generator draws recipes from a fixed configuration.
//
// # Determinism
//
// Draws come from the generator's math/rand source. The same seed and the
// same call sequence always reproduce the same recipes. A generator holds
// no other mutable state, so repeated Generate calls are safe from a
// single-threaded loop.
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// NewGenerator validates cfg and builds a generator. A nil rng falls back
// to a crypto-seeded source.
func NewGenerator(cfg Config, rng *rand.Rand) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		seed, err := random.NewSeed()
		if err != nil {
			return nil, err
		}
		rng = random.NewRand(seed)
	}
	return &Generator{cfg: cfg, rng: rng}, nil
}

// Generate draws a fresh recipe. Tracks are drawn uniformly per side and
// tokens uniformly from the token set. When AllowSameTokenBothSides is
// false the right token is redrawn until it differs from the left token,
// bounded by maxSameTokenResamples so generation always terminates.
func (g *Generator) Generate() Recipe {
	left := board.Placement{
		Track: g.cfg.LeftTracks[g.rng.Intn(len(g.cfg.LeftTracks))],
		Token: g.cfg.Tokens[g.rng.Intn(len(g.cfg.Tokens))],
	}
	right := board.Placement{
		Track: g.cfg.RightTracks[g.rng.Intn(len(g.cfg.RightTracks))],
		Token: g.cfg.Tokens[g.rng.Intn(len(g.cfg.Tokens))],
	}

	if !g.cfg.AllowSameTokenBothSides {
		for attempt := 0; attempt < maxSameTokenResamples && right.Token == left.Token; attempt++ {
			right.Token = g.cfg.Tokens[g.rng.Intn(len(g.cfg.Tokens))]
		}
	}

	return Recipe{Left: left, Right: right}
}
