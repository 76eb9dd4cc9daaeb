package gameconfig

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/skilletworks/prepline/internal/core/recipe"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	def, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := DefaultDefinition()
	if len(def.LeftTracks) != len(want.LeftTracks) || len(def.Tokens) != len(want.Tokens) {
		t.Fatalf("Load(\"\") = %+v, want defaults", def)
	}
	if !def.AllowSameTokenBothSides {
		t.Fatal("AllowSameTokenBothSides should default to true")
	}
}

func TestLoadOverlaysOntoDefaults(t *testing.T) {
	def, err := Load(filepath.Join("testdata", "custom.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := def.Tokens; len(got) != 2 || got[0] != "mushroom" || got[1] != "leek" {
		t.Fatalf("Tokens = %v, want [mushroom leek]", got)
	}
	if def.AllowSameTokenBothSides {
		t.Fatal("AllowSameTokenBothSides should be overridden to false")
	}
	if got := def.Gesture.RequiredSeconds; got != 2.5 {
		t.Fatalf("Gesture.RequiredSeconds = %v, want 2.5", got)
	}
	if def.Gesture.SpeedAffectsProgress {
		t.Fatal("Gesture.SpeedAffectsProgress should be overridden to false")
	}
	if got := def.Timing.SessionSeconds; got != 30 {
		t.Fatalf("Timing.SessionSeconds = %v, want 30", got)
	}

	// Fields absent from the file keep their defaults.
	if got := len(def.LeftTracks); got != 5 {
		t.Fatalf("LeftTracks length = %d, want default 5", got)
	}
	if !def.Gesture.Required {
		t.Fatal("Gesture.Required should keep its default")
	}
	if got := def.Timing.ResultDisplaySeconds; got != 1.5 {
		t.Fatalf("Timing.ResultDisplaySeconds = %v, want default 1.5", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "absent.yaml"))
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("Load() error = %v, want %v", err, ErrUnreadable)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "malformed.yaml"))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Load() error = %v, want %v", err, ErrInvalid)
	}
}

func TestRoundConfigFromDefaults(t *testing.T) {
	cfg, err := DefaultDefinition().RoundConfig()
	if err != nil {
		t.Fatalf("RoundConfig() error = %v", err)
	}

	if got := cfg.SessionTimeLimit; got != time.Minute {
		t.Fatalf("SessionTimeLimit = %v, want 1m", got)
	}
	if got := cfg.Gesture.RequiredDuration; got != 1500*time.Millisecond {
		t.Fatalf("Gesture.RequiredDuration = %v, want 1.5s", got)
	}
	if got := cfg.NextRoundDelay; got != 750*time.Millisecond {
		t.Fatalf("NextRoundDelay = %v, want 750ms", got)
	}
	if !cfg.GestureRequired {
		t.Fatal("GestureRequired should be set")
	}
	if got := len(cfg.LeftTracks); got != 5 {
		t.Fatalf("LeftTracks length = %d, want 5", got)
	}
}

func TestRoundConfigRejectsBadTuning(t *testing.T) {
	def := DefaultDefinition()
	def.Tokens = nil

	_, err := def.RoundConfig()
	if !errors.Is(err, recipe.ErrNoTokens) {
		t.Fatalf("RoundConfig() error = %v, want %v", err, recipe.ErrNoTokens)
	}
}
