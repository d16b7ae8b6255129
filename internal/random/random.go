// Package random is the simulation's explicitly threaded pseudo-random source.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// Source wraps a PCG generator. Not safe for concurrent use.
type Source struct {
	r    *rand.Rand
	seed uint64
}

func New(seed uint64) *Source {
	return &Source{
		r:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// FromEntropy seeds from the operating system.
func FromEntropy() *Source {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return New(rand.Uint64())
	}
	return New(binary.LittleEndian.Uint64(b[:]))
}

// FromString turns a configured seed into a Source. An empty string means
// entropy; a decimal number is used as is; anything else is hashed.
func FromString(seed string) *Source {
	if seed == "" {
		return FromEntropy()
	}
	if n, err := strconv.ParseUint(seed, 10, 64); err == nil {
		return New(n)
	}
	return New(xxhash.Sum64String(seed))
}

func (s *Source) Seed() uint64 { return s.seed }

// Int returns a uniform integer in [lo, hi].
func (s *Source) Int(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.r.IntN(hi-lo+1)
}

// Float32 returns a uniform real in [lo, hi).
func (s *Source) Float32(lo, hi float32) float32 {
	return lo + s.r.Float32()*(hi-lo)
}

// PointInSquare returns a uniform point within offset of center on each axis.
func (s *Source) PointInSquare(center mgl32.Vec2, offset float32) mgl32.Vec2 {
	return mgl32.Vec2{
		center.X() + s.Float32(-offset, offset),
		center.Y() + s.Float32(-offset, offset),
	}
}
