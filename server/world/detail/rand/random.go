// Package rand implements the bounded random source used by the detail
// generator. A Random must be seeded explicitly for every chunk it is used
// for, so that regenerating a chunk reproduces the exact same layout.
package rand

import (
	"encoding/binary"
	"errors"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
	"github.com/df-mc/groundcover/server/world/detail/bounds"
)

// ErrUnseeded is the panic value of a Random that is drawn from before Seed
// was called. It signals a programming error.
var ErrUnseeded = errors.New("random source used before it was seeded")

// Random is a deterministic random source. The zero value is unseeded and
// panics on use. Random is not safe for concurrent use: every chunk owns its
// own instance.
type Random struct {
	src    rand.PCG
	r      *rand.Rand
	key    uint64
	seeded bool
}

// NewRandom returns an unseeded Random.
func NewRandom() *Random {
	return &Random{}
}

// NewSeeded returns a Random seeded with key.
func NewSeeded(key uint64) *Random {
	r := &Random{}
	r.Seed(key)
	return r
}

// Seed (re)seeds the Random. Two Randoms seeded with the same key produce the
// same sequence of values.
func (r *Random) Seed(key uint64) {
	r.src.Seed(key, key^0x9e3779b97f4a7c15)
	if r.r == nil {
		r.r = rand.New(&r.src)
	}
	r.key = key
	r.seeded = true
}

// Seeded reports if Seed has been called.
func (r *Random) Seeded() bool {
	return r != nil && r.seeded
}

// Key returns the key the Random was last seeded with.
func (r *Random) Key() uint64 {
	return r.key
}

func (r *Random) mustBeSeeded() {
	if !r.Seeded() {
		panic(ErrUnseeded)
	}
}

// Next returns a value in [rng.Min, rng.Max). An empty range returns rng.Min
// without consuming randomness.
func (r *Random) Next(rng bounds.Range[int]) int {
	r.mustBeSeeded()
	if rng.Max <= rng.Min {
		return rng.Min
	}
	return rng.Min + r.r.IntN(rng.Max-rng.Min)
}

// IntN returns a value in [0, n). It panics if n <= 0.
func (r *Random) IntN(n int) int {
	r.mustBeSeeded()
	return r.r.IntN(n)
}

// Float64 returns a value in [0, 1).
func (r *Random) Float64() float64 {
	r.mustBeSeeded()
	return r.r.Float64()
}

// Bernoulli returns true with probability p. A value is drawn even if p is 0
// or 1 so that the sequence of draws does not depend on configured chances.
func (r *Random) Bernoulli(p float64) bool {
	return r.Float64() < p
}

// ChunkSeed derives the seed key of the chunk at (x, z) in a world with the
// seed passed.
func ChunkSeed(worldSeed int64, x, z int32) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(worldSeed))
	binary.LittleEndian.PutUint32(buf[8:], uint32(x))
	binary.LittleEndian.PutUint32(buf[12:], uint32(z))
	return xxhash.Sum64(buf[:])
}
