// Package errors provides structured error handling with machine-readable codes.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Recipe errors
	CodeRecipeNoLeftTracks      Code = "RECIPE_NO_LEFT_TRACKS"
	CodeRecipeNoRightTracks     Code = "RECIPE_NO_RIGHT_TRACKS"
	CodeRecipeNoTokens          Code = "RECIPE_NO_TOKENS"
	CodeRecipeDuplicateTrack    Code = "RECIPE_DUPLICATE_TRACK"
	CodeRecipeDuplicateToken    Code = "RECIPE_DUPLICATE_TOKEN"
	CodeRecipeSharedTrack       Code = "RECIPE_SHARED_TRACK"
	CodeRecipeTokenPoolTooSmall Code = "RECIPE_TOKEN_POOL_TOO_SMALL"

	// Gesture errors
	CodeGestureInvalidDuration   Code = "GESTURE_INVALID_DURATION"
	CodeGestureInvalidMinSpeed   Code = "GESTURE_INVALID_MIN_SPEED"
	CodeGestureInvalidMultiplier Code = "GESTURE_INVALID_MULTIPLIER"

	// Session clock errors
	CodeSessionInvalidTimeLimit Code = "SESSION_INVALID_TIME_LIMIT"

	// Round errors
	CodeRoundInvalidDelay  Code = "ROUND_INVALID_DELAY"
	CodeRoundInvalidConfig Code = "ROUND_INVALID_CONFIG"

	// Game definition errors
	CodeDefinitionUnreadable Code = "DEFINITION_UNREADABLE"
	CodeDefinitionInvalid    Code = "DEFINITION_INVALID"

	// Scenario errors
	CodeScenarioInvalidStep Code = "SCENARIO_INVALID_STEP"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Random/seed errors
	CodeSeedOutOfRange Code = "SEED_OUT_OF_RANGE"
)
