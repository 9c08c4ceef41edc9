// Package rng is the single source of randomness for the simulation.
//
// Every random quantity the world draws goes through a Source so a session
// replays exactly from its seed and tests can pin individual outcomes.
package rng

import "math/rand/v2"

// Source draws the random quantities the simulation needs.
type Source interface {
	// Float64 returns a value in [0,1).
	Float64() float64
	// IntN returns a value in [0,n). n must be > 0.
	IntN(n int) int
}

// Seeded is a deterministic PCG-backed Source.
type Seeded struct {
	r *rand.Rand
}

func New(seed uint64) *Seeded {
	return &Seeded{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *Seeded) Float64() float64 { return s.r.Float64() }
func (s *Seeded) IntN(n int) int    { return s.r.IntN(n) }

// Chance reports whether a draw falls under p.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	return src.Float64() < p
}

// Between returns an int uniformly drawn from [lo,hi] inclusive.
func Between(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.IntN(hi-lo+1)
}

// Uniform returns a float uniformly drawn from [lo,hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

// Pick returns a uniformly chosen element. It panics on an empty slice.
func Pick[T any](src Source, xs []T) T {
	return xs[src.IntN(len(xs))]
}

// Shuffle permutes xs in place.
func Shuffle[T any](src Source, xs []T) {
	for i := len(xs) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}

// Fixed replays scripted draws, then falls back to Rest (or zeros).
// Tests use it to force specific branches.
type Fixed struct {
	Floats []float64
	Ints   []int
	Rest   Source
}

func (f *Fixed) Float64() float64 {
	if len(f.Floats) > 0 {
		v := f.Floats[0]
		f.Floats = f.Floats[1:]
		return v
	}
	if f.Rest != nil {
		return f.Rest.Float64()
	}
	return 0
}

func (f *Fixed) IntN(n int) int {
	if len(f.Ints) > 0 {
		v := f.Ints[0]
		f.Ints = f.Ints[1:]
		if v < 0 {
			v = 0
		}
		if v >= n {
			v = n - 1
		}
		return v
	}
	if f.Rest != nil {
		return f.Rest.IntN(n)
	}
	return 0
}
