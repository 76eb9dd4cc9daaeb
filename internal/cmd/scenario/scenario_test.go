package scenario

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if !cfg.Assertions {
		t.Fatal("expected assertions to default to true")
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("timeout = %s, want 10s", cfg.Timeout)
	}
}

func TestParseConfigFlagsOverride(t *testing.T) {
	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, []string{"-scenario", "play.lua", "-assert=false", "-timeout", "2s"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Scenario != "play.lua" {
		t.Fatalf("scenario = %q, want play.lua", cfg.Scenario)
	}
	if cfg.Assertions {
		t.Fatal("expected assertions disabled")
	}
	if cfg.Timeout != 2*time.Second {
		t.Fatalf("timeout = %s, want 2s", cfg.Timeout)
	}
}

func TestRunRequiresScenarioPath(t *testing.T) {
	if err := Run(context.Background(), Config{}, io.Discard); err == nil {
		t.Fatal("expected an error without a scenario path")
	}
}

func TestRunExecutesScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "play.lua")
	script := `local play = Scenario.new("smoke")
play:configure({tokens = {"tomato"}})
play:release("tomato")
play:expect_pool({"tomato"})
return play
`
	if err := os.WriteFile(path, []byte(script), 0o600); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	var errOut bytes.Buffer
	cfg := Config{Scenario: path, Assertions: true, Verbose: true, Timeout: 5 * time.Second}
	if err := Run(context.Background(), cfg, &errOut); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(errOut.String(), "scenario done: smoke") {
		t.Fatalf("expected verbose completion log, got:\n%s", errOut.String())
	}
}
