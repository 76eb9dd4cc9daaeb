package scenario

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadScenarioCollectsSteps(t *testing.T) {
	path := writeScenarioFixture(t, `-- Setup
local play = Scenario.new("win one")
play:configure({seed = 42, tokens = {"tomato", "basil"}})

-- Play
play:release("tomato")
play:place_left("left-1")
play:stir({seconds = 1.5, speed = 200})
play:expect_state("won")
play:expect_score(1)

return play
`)

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if scenario.Name != "win one" {
		t.Fatalf("name = %q, want %q", scenario.Name, "win one")
	}
	if len(scenario.Steps) != 6 {
		t.Fatalf("steps = %d, want %d", len(scenario.Steps), 6)
	}

	configure := scenario.Steps[0]
	if configure.Kind != "configure" {
		t.Fatalf("step kind = %q, want configure", configure.Kind)
	}
	if configure.Args["seed"] != 42 {
		t.Fatalf("seed = %v, want 42", configure.Args["seed"])
	}
	tokens, ok := configure.Args["tokens"].([]any)
	if !ok || len(tokens) != 2 || tokens[0] != "tomato" {
		t.Fatalf("tokens = %v, want [tomato basil]", configure.Args["tokens"])
	}

	release := scenario.Steps[1]
	if release.Kind != "release" || release.Args["token"] != "tomato" {
		t.Fatalf("release step = %+v", release)
	}

	stir := scenario.Steps[3]
	if stir.Kind != "stir" {
		t.Fatalf("step kind = %q, want stir", stir.Kind)
	}
	if stir.Args["seconds"] != 1.5 {
		t.Fatalf("stir seconds = %v, want 1.5", stir.Args["seconds"])
	}
	if stir.Args["speed"] != 200 {
		t.Fatalf("stir speed = %v, want 200", stir.Args["speed"])
	}

	expectState := scenario.Steps[4]
	if expectState.Kind != "expect_state" || expectState.Args["state"] != "won" {
		t.Fatalf("expect_state step = %+v", expectState)
	}
}

func TestLoadScenarioDefaultsNameToFileName(t *testing.T) {
	path := writeScenarioFixture(t, `return Scenario.new()`)

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if scenario.Name != "scenario" {
		t.Fatalf("name = %q, want %q", scenario.Name, "scenario")
	}
}

func TestLoadScenarioRejectsNonScenarioReturn(t *testing.T) {
	path := writeScenarioFixture(t, `return 42`)

	if _, err := LoadScenarioFromFile(path); err == nil {
		t.Fatal("expected an error for a non-scenario return value")
	}
}

func TestLoadScenarioRejectsBrokenScript(t *testing.T) {
	path := writeScenarioFixture(t, `this is not lua`)

	if _, err := LoadScenarioFromFile(path); err == nil {
		t.Fatal("expected an error for invalid lua")
	}
}

func TestTicksShorthand(t *testing.T) {
	path := writeScenarioFixture(t, `local play = Scenario.new("ticks")
play:ticks(10)
play:tick({seconds = 0.2})
return play
`)

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if len(scenario.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(scenario.Steps))
	}
	if scenario.Steps[0].Args["count"] != 10 {
		t.Fatalf("count = %v, want 10", scenario.Steps[0].Args["count"])
	}
	if scenario.Steps[1].Args["seconds"] != 0.2 {
		t.Fatalf("seconds = %v, want 0.2", scenario.Steps[1].Args["seconds"])
	}
}

func writeScenarioFixture(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.lua")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	return path
}
