package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/skilletworks/prepline/internal/core/board"
	apperrors "github.com/skilletworks/prepline/internal/errors"
	"github.com/skilletworks/prepline/internal/random"
	"github.com/skilletworks/prepline/internal/round"
)

// ErrInvalidStep indicates a script step with missing or malformed
// arguments.
var ErrInvalidStep = apperrors.New(apperrors.CodeScenarioInvalidStep, "scenario step is invalid")

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch step.Kind {
	case "configure":
		return r.runConfigureStep(state, step)
	case "hold":
		return r.runHoldStep(state, step)
	case "release":
		return r.runReleaseStep(state, step)
	case "place_left":
		return r.runPlaceStep(state, step, board.SideLeft)
	case "place_right":
		return r.runPlaceStep(state, step, board.SideRight)
	case "stir":
		return r.runStirStep(ctx, state, step)
	case "tick":
		return r.runTickStep(ctx, state, step)
	case "restart":
		return r.runRestartStep(state)
	case "expect_state":
		return r.runExpectStateStep(state, step)
	case "expect_score":
		return r.runExpectScoreStep(state, step)
	case "expect_pool":
		return r.runExpectPoolStep(state, step)
	case "expect_event":
		return r.runExpectEventStep(state, step)
	case "expect_remaining_at_least":
		return r.runExpectRemainingStep(state, step)
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidStep, step.Kind)
	}
}

// runConfigureStep overlays script tuning onto the default definition.
// It must precede the first play step; reconfiguring a running engine
// would silently discard its state.
func (r *Runner) runConfigureStep(state *scenarioState, step Step) error {
	if state.machine != nil {
		return fmt.Errorf("%w: configure must come before play steps", ErrInvalidStep)
	}

	if tracks, ok := argStrings(step.Args, "left_tracks"); ok {
		state.definition.LeftTracks = tracks
	}
	if tracks, ok := argStrings(step.Args, "right_tracks"); ok {
		state.definition.RightTracks = tracks
	}
	if tokens, ok := argStrings(step.Args, "tokens"); ok {
		state.definition.Tokens = tokens
	}
	if allow, ok := argBool(step.Args, "allow_same_token_both_sides"); ok {
		state.definition.AllowSameTokenBothSides = allow
	}
	if seed, ok := argInt(step.Args, "seed"); ok {
		state.seed = int64(seed)
	}
	if seconds, ok := argFloat(step.Args, "tick_seconds"); ok {
		if seconds <= 0 {
			return fmt.Errorf("%w: tick_seconds must be positive", ErrInvalidStep)
		}
		state.tickDelta = time.Duration(seconds * float64(time.Second))
	}

	if gestureArgs, ok := argTable(step.Args, "gesture"); ok {
		if required, ok := argBool(gestureArgs, "required"); ok {
			state.definition.Gesture.Required = required
		}
		if seconds, ok := argFloat(gestureArgs, "required_seconds"); ok {
			state.definition.Gesture.RequiredSeconds = seconds
		}
		if speed, ok := argFloat(gestureArgs, "min_speed"); ok {
			state.definition.Gesture.MinSpeed = speed
		}
		if affects, ok := argBool(gestureArgs, "speed_affects_progress"); ok {
			state.definition.Gesture.SpeedAffectsProgress = affects
		}
		if multiplier, ok := argFloat(gestureArgs, "max_multiplier"); ok {
			state.definition.Gesture.MaxMultiplier = multiplier
		}
	}

	if timingArgs, ok := argTable(step.Args, "timing"); ok {
		if seconds, ok := argFloat(timingArgs, "session_seconds"); ok {
			state.definition.Timing.SessionSeconds = seconds
		}
		if seconds, ok := argFloat(timingArgs, "result_display_seconds"); ok {
			state.definition.Timing.ResultDisplaySeconds = seconds
		}
		if seconds, ok := argFloat(timingArgs, "next_round_delay_seconds"); ok {
			state.definition.Timing.NextRoundDelaySeconds = seconds
		}
		if seconds, ok := argFloat(timingArgs, "session_end_display_seconds"); ok {
			state.definition.Timing.SessionEndDisplaySeconds = seconds
		}
	}

	return nil
}

// ensureMachine builds the engine on the first play step. Scripted runs
// start with every token held so the script's release calls drive the
// pool from a known state.
func (r *Runner) ensureMachine(state *scenarioState) error {
	if state.machine != nil {
		return nil
	}

	cfg, err := state.definition.RoundConfig()
	if err != nil {
		return err
	}
	cfg.Logger = r.logger
	cfg.Notify = func(event round.Event) {
		state.events = append(state.events, event)
		r.logf("event: %s", event.Kind)
	}
	if state.seed != 0 {
		cfg.Rand = random.NewRand(state.seed)
	}

	machine, err := round.New(cfg)
	if err != nil {
		return err
	}
	state.machine = machine
	state.held = make(map[board.TokenID]bool, len(cfg.Tokens))
	for _, token := range cfg.Tokens {
		state.held[token] = true
	}

	// Zero-delta tick initializes edge detection without advancing time.
	state.machine.Tick(round.Input{Held: state.held, Cursor: state.cursor})
	return nil
}

func (r *Runner) tick(state *scenarioState, placements ...round.PlacementEvent) {
	state.machine.Tick(round.Input{
		Delta:      state.tickDelta,
		Held:       state.held,
		Cursor:     state.cursor,
		Placements: placements,
	})
}

func (r *Runner) runHoldStep(state *scenarioState, step Step) error {
	token, err := r.stepToken(state, step)
	if err != nil {
		return err
	}
	state.held[token] = true
	r.tick(state)
	return nil
}

func (r *Runner) runReleaseStep(state *scenarioState, step Step) error {
	token, err := r.stepToken(state, step)
	if err != nil {
		return err
	}
	state.held[token] = false
	r.tick(state)
	return nil
}

func (r *Runner) stepToken(state *scenarioState, step Step) (board.TokenID, error) {
	name, ok := argString(step.Args, "token")
	if !ok || name == "" {
		return "", fmt.Errorf("%w: token is required", ErrInvalidStep)
	}
	if err := r.ensureMachine(state); err != nil {
		return "", err
	}
	token := board.TokenID(name)
	if _, known := state.held[token]; !known {
		return "", fmt.Errorf("%w: token %q is not in the configured set", ErrInvalidStep, name)
	}
	return token, nil
}

func (r *Runner) runPlaceStep(state *scenarioState, step Step, side board.Side) error {
	name, ok := argString(step.Args, "track")
	if !ok || name == "" {
		return fmt.Errorf("%w: track is required", ErrInvalidStep)
	}
	if err := r.ensureMachine(state); err != nil {
		return err
	}
	r.tick(state, round.PlacementEvent{Side: side, Track: board.TrackID(name)})
	return nil
}

// runStirStep sweeps the cursor at a constant speed for a scripted span.
func (r *Runner) runStirStep(ctx context.Context, state *scenarioState, step Step) error {
	seconds, ok := argFloat(step.Args, "seconds")
	if !ok || seconds <= 0 {
		return fmt.Errorf("%w: stir seconds must be positive", ErrInvalidStep)
	}
	speed, ok := argFloat(step.Args, "speed")
	if !ok || speed < 0 {
		return fmt.Errorf("%w: stir speed must not be negative", ErrInvalidStep)
	}
	if err := r.ensureMachine(state); err != nil {
		return err
	}

	remaining := time.Duration(seconds * float64(time.Second))
	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		delta := state.tickDelta
		if delta > remaining {
			delta = remaining
		}
		state.cursor.X += speed * delta.Seconds()
		state.machine.Tick(round.Input{Delta: delta, Held: state.held, Cursor: state.cursor})
		remaining -= delta
	}
	return nil
}

func (r *Runner) runTickStep(ctx context.Context, state *scenarioState, step Step) error {
	if err := r.ensureMachine(state); err != nil {
		return err
	}

	count := 1
	if n, ok := argInt(step.Args, "count"); ok {
		if n <= 0 {
			return fmt.Errorf("%w: tick count must be positive", ErrInvalidStep)
		}
		count = n
	}
	delta := state.tickDelta
	if seconds, ok := argFloat(step.Args, "seconds"); ok {
		if seconds < 0 {
			return fmt.Errorf("%w: tick seconds must not be negative", ErrInvalidStep)
		}
		delta = time.Duration(seconds * float64(time.Second))
	}

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		state.machine.Tick(round.Input{Delta: delta, Held: state.held, Cursor: state.cursor})
	}
	return nil
}

func (r *Runner) runRestartStep(state *scenarioState) error {
	if err := r.ensureMachine(state); err != nil {
		return err
	}
	state.machine.Restart()
	return nil
}

func (r *Runner) runExpectStateStep(state *scenarioState, step Step) error {
	want, ok := argString(step.Args, "state")
	if !ok || want == "" {
		return fmt.Errorf("%w: state is required", ErrInvalidStep)
	}
	if err := r.ensureMachine(state); err != nil {
		return err
	}
	got := state.machine.State().String()
	return r.assertions.Checkf(got == want, "state = %q, want %q", got, want)
}

func (r *Runner) runExpectScoreStep(state *scenarioState, step Step) error {
	want, ok := argInt(step.Args, "score")
	if !ok {
		return fmt.Errorf("%w: score is required", ErrInvalidStep)
	}
	if err := r.ensureMachine(state); err != nil {
		return err
	}
	got := state.machine.SessionSuccesses()
	return r.assertions.Checkf(got == want, "score = %d, want %d", got, want)
}

func (r *Runner) runExpectPoolStep(state *scenarioState, step Step) error {
	want, ok := argStrings(step.Args, "tokens")
	if !ok {
		// An empty Lua table decodes as an empty map, not a list.
		if empty, isMap := argTable(step.Args, "tokens"); !isMap || len(empty) != 0 {
			return fmt.Errorf("%w: tokens list is required", ErrInvalidStep)
		}
	}
	if err := r.ensureMachine(state); err != nil {
		return err
	}

	got := state.machine.Available()
	match := len(got) == len(want)
	if match {
		for i := range got {
			if string(got[i]) != want[i] {
				match = false
				break
			}
		}
	}
	return r.assertions.Checkf(match, "pool = %v, want %v", got, want)
}

func (r *Runner) runExpectEventStep(state *scenarioState, step Step) error {
	kind, ok := argString(step.Args, "kind")
	if !ok || kind == "" {
		return fmt.Errorf("%w: kind is required", ErrInvalidStep)
	}
	if err := r.ensureMachine(state); err != nil {
		return err
	}
	return r.assertions.Checkf(state.sawEvent(kind), "no %q event was emitted", kind)
}

func (r *Runner) runExpectRemainingStep(state *scenarioState, step Step) error {
	seconds, ok := argFloat(step.Args, "seconds")
	if !ok {
		return fmt.Errorf("%w: seconds is required", ErrInvalidStep)
	}
	if err := r.ensureMachine(state); err != nil {
		return err
	}
	want := time.Duration(seconds * float64(time.Second))
	got := state.machine.SessionRemaining()
	return r.assertions.Checkf(got >= want, "remaining = %s, want at least %s", got, want)
}
