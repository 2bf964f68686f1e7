// Package rng provides the random sources generators draw from.
package rng

import "math/rand/v2"

// Source supplies uniform integers and floats.
type Source interface {
	// IntN returns a uniform integer in [0, n). n must be positive.
	IntN(n int) int
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
// It is not safe for concurrent use; each generator owns its own RNG.
type RNG struct {
	r *rand.Rand
}

// New creates a deterministic RNG using the provided seed.
func New(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// IntN returns a uniform integer in [0, n).
func (r *RNG) IntN(n int) int { return r.r.IntN(n) }

// Float64 returns a uniform float in [0, 1).
func (r *RNG) Float64() float64 { return r.r.Float64() }
