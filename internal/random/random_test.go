package random

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestSameSeedSameSequence(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Int(0, 1), b.Int(0, 1))
		assert.Equal(t, a.Float32(-1, 1), b.Float32(-1, 1))
	}
}

func TestFromString(t *testing.T) {
	assert.Equal(t, uint64(7), FromString("7").Seed())
	assert.Equal(t, FromString("octopus").Seed(), FromString("octopus").Seed())
	assert.NotEqual(t, FromString("octopus").Seed(), FromString("squid").Seed())
}

func TestRanges(t *testing.T) {
	s := New(1)
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		v := s.Int(0, 1)
		assert.True(t, v == 0 || v == 1)
		seen[v] = true

		p := s.PointInSquare(mgl32.Vec2{-5, 3}, 1)
		assert.True(t, p.X() >= -6 && p.X() <= -4)
		assert.True(t, p.Y() >= 2 && p.Y() <= 4)
	}
	assert.Len(t, seen, 2)
	assert.Equal(t, 3, s.Int(3, 3))
}
