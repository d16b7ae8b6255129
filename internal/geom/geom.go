// Package geom holds the 2D vector helpers shared by kinematics and behaviors.
package geom

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrZeroLength = errors.New("cannot normalize a zero-length vector")

func Distance(a, b mgl32.Vec2) float32 {
	return a.Sub(b).Len()
}

// Normalize returns v scaled to unit length.
func Normalize(v mgl32.Vec2) (mgl32.Vec2, error) {
	l := v.Len()
	if l == 0 {
		return mgl32.Vec2{}, ErrZeroLength
	}
	return v.Mul(1 / l), nil
}

// Direction is the unit vector pointing from one point to another.
func Direction(from, to mgl32.Vec2) (mgl32.Vec2, error) {
	return Normalize(to.Sub(from))
}
