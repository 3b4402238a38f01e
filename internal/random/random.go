// Package random provides the seeded weighted selection shared by the
// parameter and character resolvers. The generator is threaded through
// resolution calls explicitly so a given seed and project yield
// reproducible output.
package random

import "math/rand"

// New creates a generator from a seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// PickIndex selects an index from a weight list. Entries with zero weight
// are never picked unless every weight is zero, in which case the list is
// treated as uniform.
func PickIndex(rng *rand.Rand, weights []int) int {
	if len(weights) == 0 {
		return -1
	}

	total := 0
	for _, w := range weights {
		total += w
	}

	// All-zero weight lists are authored in the wild; treat as uniform.
	if total == 0 {
		return rng.Intn(len(weights))
	}

	n := rng.Intn(total)
	for i, w := range weights {
		if n < w {
			return i
		}
		n -= w
	}
	return len(weights) - 1
}
