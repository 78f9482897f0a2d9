package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestNewIsDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestChanceBoundaries(t *testing.T) {
	src := New(1)
	for i := 0; i < 50; i++ {
		assert.False(t, Chance(src, 0))
		assert.False(t, Chance(src, -0.5))
		assert.True(t, Chance(src, 1))
		assert.True(t, Chance(src, 1.5))
	}
}

func TestPropertyUniformStaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		lo := rapid.Float64Range(-100, 100).Draw(t, "lo")
		span := rapid.Float64Range(0.001, 100).Draw(t, "span")
		hi := lo + span
		src := New(seed)
		for i := 0; i < 20; i++ {
			v := Uniform(src, lo, hi)
			if v < lo || v >= hi {
				t.Fatalf("Uniform(%f, %f) = %f out of range", lo, hi, v)
			}
		}
	})
}

func TestPropertyIntBetweenInclusive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		lo := rapid.IntRange(-50, 50).Draw(t, "lo")
		hi := rapid.IntRange(lo, lo+100).Draw(t, "hi")
		src := New(seed)
		v := IntBetween(src, lo, hi)
		if v < lo || v > hi {
			t.Fatalf("IntBetween(%d, %d) = %d out of range", lo, hi, v)
		}
	})
}

func TestPropertyWeightedIndexValid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		weights := rapid.SliceOfN(rapid.IntRange(1, 10), 1, 20).Draw(t, "weights")
		src := New(seed)
		idx := WeightedIndex(src, weights)
		if idx < 0 || idx >= len(weights) {
			t.Fatalf("WeightedIndex returned %d for %d weights", idx, len(weights))
		}
	})
}

func TestWeightedIndexBias(t *testing.T) {
	// A 3:1 weight should dominate over many draws.
	src := New(7)
	counts := [2]int{}
	for i := 0; i < 4000; i++ {
		counts[WeightedIndex(src, []int{3, 1})]++
	}
	assert.Greater(t, counts[0], counts[1]*2)
}

func TestPick(t *testing.T) {
	src := New(3)
	items := []string{"a", "b", "c"}
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		seen[Pick(src, items)] = true
	}
	assert.Len(t, seen, 3)
}
