// Package random provides seed and generator helpers for deterministic play.
//
// Seeds come from crypto/rand so independently started sessions do not
// correlate, while the generators themselves are math/rand so a recorded
// seed replays the exact draw sequence.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewRand returns a math/rand generator initialized with seed. The same
// seed always reproduces the same draw sequence.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
