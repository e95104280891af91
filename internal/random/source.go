// Package random provides thread-safe random number generation for the draw.
//
// A Source is backed by crypto/rand unless it was created with a seed, in
// which case it uses a deterministic PCG stream so a draw can be replayed.
package random

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
	"sync"
)

// Source provides thread-safe random integers and shuffles.
type Source struct {
	mu   sync.Mutex
	prng *mrand.Rand // nil means crypto/rand
	seed uint64
}

// NewSource creates a new random source backed by crypto/rand.
//
// Returns a new Source instance.
func NewSource() *Source {
	return &Source{}
}

// NewSeededSource creates a deterministic random source.
//
// Two sources created with the same seed produce the same sequence, which
// makes a draw reproducible. A zero seed falls back to crypto/rand.
//
// Parameters:
//   - seed: the PCG seed
//
// Returns a new Source instance.
func NewSeededSource(seed uint64) *Source {
	if seed == 0 {
		return NewSource()
	}
	return &Source{
		prng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// Seeded reports whether the source is deterministic.
func (s *Source) Seeded() bool {
	return s.prng != nil
}

// Seed returns the seed of a deterministic source, or 0.
func (s *Source) Seed() uint64 {
	return s.seed
}

// Intn returns a uniformly distributed random integer in [0, n).
//
// Panics if n <= 0.
//
// Parameters:
//   - n: the upper bound (exclusive)
//
// Returns a random integer in [0, n).
func (s *Source) Intn(n int) int {
	if n <= 0 {
		panic("invalid argument to Intn")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.intn(n)
}

// Shuffle pseudo-randomizes the order of n elements using Fisher-Yates.
//
// The swap function is called with the indices of the elements to exchange.
// The whole shuffle runs under the source lock.
//
// Parameters:
//   - n: number of elements
//   - swap: function swapping elements i and j
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	if n < 0 {
		panic("invalid argument to Shuffle")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := n - 1; i > 0; i-- {
		j := s.intn(i + 1)
		swap(i, j)
	}
}

// intn must be called with s.mu held.
func (s *Source) intn(n int) int {
	if s.prng != nil {
		return s.prng.IntN(n)
	}

	// Rejection sampling keeps the result free of modulo bias.
	bound := uint64(n)
	limit := ^uint64(0) - (^uint64(0) % bound)
	var b [8]byte
	for {
		if _, err := rand.Read(b[:]); err != nil {
			panic(err) // crypto/rand.Read should never fail
		}
		val := binary.BigEndian.Uint64(b[:])
		if val < limit {
			// #nosec G115 -- result is always less than n, which fits in int
			return int(val % bound)
		}
	}
}
