// Package randutil builds reproducible random sources for the solver.
package randutil

import rand "math/rand/v2"

const goldenRatio64 = 0x9e3779b97f4a7c15

// Stream identifies an independent random sequence derived from one seed, so
// that changing how often one consumer draws does not perturb another.
type Stream uint64

const (
	StreamDeck Stream = iota + 1
	StreamEquity
	StreamPlayout
)

// New returns a PCG-backed *rand.Rand seeded deterministically from seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Derive returns the generator for one stream of a seed.
func Derive(seed int64, stream Stream) *rand.Rand {
	return DeriveAt(seed, stream, 0)
}

// DeriveAt returns the generator for one stream of a seed starting at a
// position such as a batch number. Index zero matches Derive.
func DeriveAt(seed int64, stream Stream, index uint64) *rand.Rand {
	u := mix(uint64(seed) ^ mix(uint64(stream)*goldenRatio64) ^ mix(index*goldenRatio64))
	return rand.New(rand.NewPCG(u, mix(u+goldenRatio64)))
}

// splitmix64 finaliser
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
