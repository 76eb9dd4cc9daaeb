package round

import "github.com/skilletworks/prepline/internal/core/board"

// EventKind identifies an outbound notification from the machine.
type EventKind int

const (
	// EventUnspecified represents an invalid event kind.
	EventUnspecified EventKind = iota
	// EventTokenReleased fires when a held token becomes available.
	EventTokenReleased
	// EventTokenReturned fires when a released token is grabbed back.
	EventTokenReturned
	// EventPoolEmpty fires when a placement trigger finds no available token.
	EventPoolEmpty
	// EventLeftPlaced fires when the left slot is filled.
	EventLeftPlaced
	// EventRightPlaced fires when the right slot is filled.
	EventRightPlaced
	// EventGestureStarted fires when the gesture stage begins.
	EventGestureStarted
	// EventPlacementWrong fires during evaluation for each mismatched side.
	EventPlacementWrong
	// EventRoundWon fires when both placements match the recipe.
	EventRoundWon
	// EventRoundLost fires when evaluation finds any mismatch.
	EventRoundLost
	// EventSessionEnded fires when the countdown expires, carrying the score.
	EventSessionEnded
)

// String returns the snake_case name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventTokenReleased:
		return "token_released"
	case EventTokenReturned:
		return "token_returned"
	case EventPoolEmpty:
		return "pool_empty"
	case EventLeftPlaced:
		return "left_placed"
	case EventRightPlaced:
		return "right_placed"
	case EventGestureStarted:
		return "gesture_started"
	case EventPlacementWrong:
		return "placement_wrong"
	case EventRoundWon:
		return "round_won"
	case EventRoundLost:
		return "round_lost"
	case EventSessionEnded:
		return "session_ended"
	default:
		return "unspecified"
	}
}

// Event is a fire-and-forget notification for rendering, audio, and
// telemetry collaborators. Only the fields relevant to the kind are set.
type Event struct {
	Kind  EventKind
	Side  board.Side
	Token board.TokenID
	Track board.TrackID
	Score int
}
