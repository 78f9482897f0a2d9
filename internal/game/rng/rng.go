// Package rng provides the randomness abstraction used by every generator
// and by the combat resolver. Injecting a Source keeps generation
// deterministic under test.
package rng

import "math/rand"

// Source is the randomness provider for the game engine.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0.0, 1.0).
	Float64() float64
}

// mathSource implements Source over a seeded math/rand generator.
// It is not safe for concurrent use; the engine is single-threaded.
type mathSource struct {
	r *rand.Rand
}

// New returns a deterministic Source seeded with seed.
//
// Postcondition: two Sources created with the same seed produce the same
// value stream.
func New(seed int64) Source {
	return &mathSource{r: rand.New(rand.NewSource(seed))}
}

// NewRandom returns a Source seeded from the global math/rand stream.
func NewRandom() Source {
	return New(rand.Int63())
}

func (s *mathSource) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	return s.r.Intn(n)
}

func (s *mathSource) Float64() float64 {
	return s.r.Float64()
}

// Uniform returns a random float in [lo, hi).
//
// Precondition: lo <= hi.
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Chance reports whether a Bernoulli draw with probability p succeeded.
// p <= 0 never succeeds; p >= 1 always succeeds.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}

// WeightedIndex returns an index chosen by weighted random selection.
//
// Precondition: weights must be non-empty with all values >= 1.
func WeightedIndex(src Source, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		panic("rng: WeightedIndex requires positive total weight")
	}
	roll := src.Intn(total)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// Pick returns a uniformly chosen element of items.
//
// Precondition: items must be non-empty.
func Pick[T any](src Source, items []T) T {
	return items[src.Intn(len(items))]
}

// IntBetween returns a random int in [lo, hi] inclusive.
//
// Precondition: lo <= hi.
func IntBetween(src Source, lo, hi int) int {
	if lo >= hi {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}
