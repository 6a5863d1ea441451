// Package random provides splittable pseudo-random keys and tensor sampling.
//
// A Key is an immutable 128-bit value. Splitting a key derives statistically
// independent child keys without consuming the parent, so parameter
// initialization can hand each weight matrix its own stream while the whole
// procedure stays reproducible from a single seed. The same key always
// produces the same draws, bit for bit.
package random

import (
	"fmt"
	"math/rand/v2"
)

// Key is a splittable source of randomness.
// Derive keys with NewKey and Split rather than using the zero value.
type Key struct {
	hi, lo uint64
}

// NewKey derives a key from a seed.
func NewKey(seed uint64) Key {
	s := seed
	return Key{
		hi: splitmix64(&s),
		lo: splitmix64(&s),
	}
}

// Split derives two independent child keys from k.
// k itself is unchanged and should not be reused for sampling afterwards.
func (k Key) Split() (Key, Key) {
	ks := k.SplitN(2)
	return ks[0], ks[1]
}

// SplitN derives n independent child keys from k.
func (k Key) SplitN(n int) []Key {
	if n <= 0 {
		panic(fmt.Sprintf("random: SplitN requires n > 0, got %d", n))
	}
	keys := make([]Key, n)
	for i := range keys {
		// Fold the child index into the state so siblings differ even
		// when the parent words collide.
		s := k.hi ^ rotl(k.lo, 27) ^ (uint64(i+1) * 0x9e3779b97f4a7c15)
		keys[i] = Key{
			hi: splitmix64(&s),
			lo: splitmix64(&s),
		}
	}
	return keys
}

// Source returns a deterministic rand source seeded by the key.
// Every call returns a fresh source at the same position.
func (k Key) Source() *rand.Rand {
	return rand.New(rand.NewPCG(k.hi, k.lo))
}

// String formats the key as a hex pair, for logging.
func (k Key) String() string {
	return fmt.Sprintf("Key(%016x%016x)", k.hi, k.lo)
}

// splitmix64 advances the state and returns the next mixed output.
// Standard SplitMix64 finalizer (Steele et al.).
func splitmix64(state *uint64) uint64 {
	*state += 0x9e3779b97f4a7c15
	z := *state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func rotl(x uint64, k uint) uint64 {
	return (x << k) | (x >> (64 - k))
}
