package scenario

import (
	"fmt"
	"log"
)

// AssertionMode controls how failed expectations are handled.
type AssertionMode int

const (
	// AssertionStrict fails the run on the first unmet expectation.
	AssertionStrict AssertionMode = iota
	// AssertionLogOnly logs unmet expectations and keeps running.
	AssertionLogOnly
)

// Assertions evaluates scripted expectations under a mode.
type Assertions struct {
	Mode   AssertionMode
	Logger *log.Logger
}

// Checkf returns an error for a failed expectation in strict mode and
// logs it otherwise.
func (a Assertions) Checkf(ok bool, format string, args ...any) error {
	if ok {
		return nil
	}
	if a.Mode == AssertionStrict {
		return fmt.Errorf(format, args...)
	}
	if a.Logger != nil {
		a.Logger.Printf("expectation not met: "+format, args...)
	}
	return nil
}

// Arg coercion: Lua numbers arrive as int or float64 depending on
// whether they carry a fractional part.

func argString(args map[string]any, key string) (string, bool) {
	value, ok := args[key].(string)
	return value, ok
}

func argInt(args map[string]any, key string) (int, bool) {
	switch value := args[key].(type) {
	case int:
		return value, true
	case float64:
		return int(value), true
	}
	return 0, false
}

func argFloat(args map[string]any, key string) (float64, bool) {
	switch value := args[key].(type) {
	case int:
		return float64(value), true
	case float64:
		return value, true
	}
	return 0, false
}

func argBool(args map[string]any, key string) (bool, bool) {
	value, ok := args[key].(bool)
	return value, ok
}

func argStrings(args map[string]any, key string) ([]string, bool) {
	raw, ok := args[key].([]any)
	if !ok {
		return nil, false
	}
	values := make([]string, 0, len(raw))
	for _, entry := range raw {
		value, ok := entry.(string)
		if !ok {
			return nil, false
		}
		values = append(values, value)
	}
	return values, true
}

func argTable(args map[string]any, key string) (map[string]any, bool) {
	value, ok := args[key].(map[string]any)
	return value, ok
}
