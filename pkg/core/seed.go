package core

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// DeriveSeed derives the seed of a named stream from a base seed.
// Equal (base, stream) pairs always give the same seed.
func DeriveSeed(base int64, stream string) int64 {
	return base ^ int64(xxhash.Sum64String(stream))
}
