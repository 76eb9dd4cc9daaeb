// Package scenario executes Lua-scripted play traces against the round
// engine. A script builds a Scenario value: an ordered list of typed
// steps that the Runner replays tick by tick, with optional expectations
// checked along the way.
package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "scenario"

// Scenario is a named, ordered list of steps produced by a Lua script.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one scripted action or expectation.
type Step struct {
	Kind string
	Args map[string]any
}

// LoadScenarioFromFile runs a Lua script and returns the Scenario it
// builds. The script must return the Scenario userdata; an unnamed
// scenario takes the file's base name.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	registerScenarioType(state)
	registerScenarioConstructor(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerScenarioConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	scenario := &Scenario{Name: name}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "configure", Function: scenarioConfigure},
	{Name: "hold", Function: scenarioHold},
	{Name: "release", Function: scenarioRelease},
	{Name: "place_left", Function: scenarioPlaceLeft},
	{Name: "place_right", Function: scenarioPlaceRight},
	{Name: "stir", Function: scenarioStir},
	{Name: "tick", Function: scenarioTick},
	{Name: "ticks", Function: scenarioTicks},
	{Name: "restart", Function: scenarioRestart},
	{Name: "expect_state", Function: scenarioExpectState},
	{Name: "expect_score", Function: scenarioExpectScore},
	{Name: "expect_pool", Function: scenarioExpectPool},
	{Name: "expect_event", Function: scenarioExpectEvent},
	{Name: "expect_remaining_at_least", Function: scenarioExpectRemainingAtLeast},
}

func scenarioConfigure(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, "configure", tableToMap(state, 2))
	return 0
}

func scenarioHold(state *lua.State) int {
	scenario := checkScenario(state)
	token := lua.CheckString(state, 2)
	appendStep(scenario, "hold", map[string]any{"token": token})
	return 0
}

func scenarioRelease(state *lua.State) int {
	scenario := checkScenario(state)
	token := lua.CheckString(state, 2)
	appendStep(scenario, "release", map[string]any{"token": token})
	return 0
}

func scenarioPlaceLeft(state *lua.State) int {
	scenario := checkScenario(state)
	track := lua.CheckString(state, 2)
	appendStep(scenario, "place_left", map[string]any{"track": track})
	return 0
}

func scenarioPlaceRight(state *lua.State) int {
	scenario := checkScenario(state)
	track := lua.CheckString(state, 2)
	appendStep(scenario, "place_right", map[string]any{"track": track})
	return 0
}

func scenarioStir(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, "stir", tableToMap(state, 2))
	return 0
}

func scenarioTick(state *lua.State) int {
	scenario := checkScenario(state)
	args := optionalTable(state, 2)
	appendStep(scenario, "tick", args)
	return 0
}

func scenarioTicks(state *lua.State) int {
	scenario := checkScenario(state)
	count := lua.CheckInteger(state, 2)
	appendStep(scenario, "tick", map[string]any{"count": count})
	return 0
}

func scenarioRestart(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "restart", nil)
	return 0
}

func scenarioExpectState(state *lua.State) int {
	scenario := checkScenario(state)
	want := lua.CheckString(state, 2)
	appendStep(scenario, "expect_state", map[string]any{"state": want})
	return 0
}

func scenarioExpectScore(state *lua.State) int {
	scenario := checkScenario(state)
	want := lua.CheckInteger(state, 2)
	appendStep(scenario, "expect_score", map[string]any{"score": want})
	return 0
}

func scenarioExpectPool(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, "expect_pool", map[string]any{"tokens": tableToGo(state, 2)})
	return 0
}

func scenarioExpectEvent(state *lua.State) int {
	scenario := checkScenario(state)
	kind := lua.CheckString(state, 2)
	appendStep(scenario, "expect_event", map[string]any{"kind": kind})
	return 0
}

func scenarioExpectRemainingAtLeast(state *lua.State) int {
	scenario := checkScenario(state)
	seconds := lua.CheckNumber(state, 2)
	appendStep(scenario, "expect_remaining_at_least", map[string]any{"seconds": seconds})
	return 0
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		lua.ArgumentError(state, 1, "scenario expected")
		return nil
	}
	return scenario
}

func appendStep(scenario *Scenario, kind string, args map[string]any) {
	if args == nil {
		args = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: args})
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo converts a table to a slice when it is a dense 1-based array,
// and to a string-keyed map otherwise.
func tableToGo(state *lua.State, index int) any {
	if state.TypeOf(index) != lua.TypeTable {
		return nil
	}

	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}

	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
