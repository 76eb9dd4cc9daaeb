// Package timeouts defines shared timeout constants used across commands.
// Centralizing these values prevents drift between entry points and makes
// the durations discoverable.
package timeouts

import "time"

// ScenarioStep caps the wall-clock time allowed for a single scenario step.
const ScenarioStep = 10 * time.Second

// StoreOp caps the time allowed for a single storage read or write.
const StoreOp = 2 * time.Second

// Shutdown limits how long a command waits for final persistence work
// during graceful shutdown.
const Shutdown = 5 * time.Second
