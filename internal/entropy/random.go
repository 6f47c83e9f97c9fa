// Package entropy provides the seeded randomness source behind every
// stochastic decision in a run. One Source per simulation keeps outcomes
// reproducible for a given seed.
package entropy

import "math/rand"

// Source wraps a seeded PRNG. Not safe for concurrent use; the turn-based
// simulation never needs it to be.
type Source struct {
	rng *rand.Rand
}

// NewSource creates a deterministic source from a seed.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform int in [0, n).
func (s *Source) Intn(n int) int {
	return s.rng.Intn(n)
}

// Float64 returns a uniform float64 in [0, 1).
func (s *Source) Float64() float64 {
	return s.rng.Float64()
}

// Pick returns a uniformly chosen element of items. Items must be
// non-empty.
func Pick[T any](s *Source, items []T) T {
	return items[s.rng.Intn(len(items))]
}
