package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	TickRate int `env:"PREPLINE_TEST_TICK_RATE" envDefault:"60"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.TickRate != 60 {
		t.Fatalf("expected default tick rate 60, got %d", cfg.TickRate)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("PREPLINE_TEST_TICK_RATE", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
