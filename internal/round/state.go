package round

// State identifies the phase of the round lifecycle. Exactly one state is
// active at a time and only the machine changes it.
type State int

const (
	// StateUnspecified represents an invalid state value.
	StateUnspecified State = iota
	// StateAwaitingLeftPlacement waits for the first placement trigger.
	StateAwaitingLeftPlacement
	// StateAwaitingRightPlacement waits for the second placement trigger.
	StateAwaitingRightPlacement
	// StateGestureStage waits for sustained qualifying motion.
	StateGestureStage
	// StateWon displays a won round until the result display elapses.
	StateWon
	// StateLost displays a lost round until the result display elapses.
	StateLost
	// StateTransitioning waits out the delay before the next round starts.
	StateTransitioning
	// StateSessionEnded displays the final score before the session restarts.
	StateSessionEnded
)

// String returns the snake_case name of the state.
func (s State) String() string {
	switch s {
	case StateAwaitingLeftPlacement:
		return "awaiting_left_placement"
	case StateAwaitingRightPlacement:
		return "awaiting_right_placement"
	case StateGestureStage:
		return "gesture_stage"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	case StateTransitioning:
		return "transitioning"
	case StateSessionEnded:
		return "session_ended"
	default:
		return "unspecified"
	}
}
