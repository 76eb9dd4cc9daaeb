package scenario

import (
	"time"

	"github.com/skilletworks/prepline/internal/core/board"
	"github.com/skilletworks/prepline/internal/core/gesture"
	"github.com/skilletworks/prepline/internal/gameconfig"
	"github.com/skilletworks/prepline/internal/round"
)

// defaultTickDelta matches a 20Hz host loop unless the script configures
// its own tick_seconds.
const defaultTickDelta = 50 * time.Millisecond

// scenarioState carries the engine and the scripted player's inputs
// across steps.
type scenarioState struct {
	definition gameconfig.Definition
	seed       int64
	tickDelta  time.Duration

	machine *round.Machine
	held    map[board.TokenID]bool
	cursor  gesture.Point
	events  []round.Event
}

func newScenarioState() *scenarioState {
	return &scenarioState{
		definition: gameconfig.DefaultDefinition(),
		tickDelta:  defaultTickDelta,
	}
}

// sawEvent reports whether an event of the given kind has been emitted at
// any point during the run.
func (s *scenarioState) sawEvent(kind string) bool {
	for _, event := range s.events {
		if event.Kind.String() == kind {
			return true
		}
	}
	return false
}
