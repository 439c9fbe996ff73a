package quizgen

import "math/rand/v2"

// Rand is the source for every random choice the generator makes: option
// shuffles, the true/false coin flips, distractor picks and the final pool
// shuffle. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a seeded source for reproducible quizzes.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// globalRand draws from the process-wide math/rand/v2 source.
type globalRand struct{}

func (globalRand) Float64() float64                   { return rand.Float64() }
func (globalRand) IntN(n int) int                     { return rand.IntN(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }
