package services

import "math/rand"

// RNG abstracts random number generation so draws can be replayed in tests.
type RNG interface {
	// IntN returns a non-negative random int in [0, n).
	IntN(n int) int
}

type stdRNG struct{}

func (stdRNG) IntN(n int) int { return rand.Intn(n) }

// NewRandomSource returns the process-wide auto-seeded generator.
func NewRandomSource() RNG {
	return stdRNG{}
}

// shuffle returns a uniformly permuted copy of entries (Fisher-Yates).
func shuffle[T any](entries []T, rng RNG) []T {
	out := append([]T(nil), entries...)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
