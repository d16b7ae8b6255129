package component

import "github.com/go-gl/mathgl/mgl32"

// SimpleMovement is the kinematic state of an enemy: velocity is applied as
// is, and a vertical axis lets it jump. Gravity pulls Height back to zero.
// Pure data; systems and behaviors do all the mutation.
type SimpleMovement struct {
	Position         mgl32.Vec2
	Velocity         mgl32.Vec2
	Height           float32
	VerticalVelocity float32
	MaxSpeed         float32
	Gravity          float32
}

// SmoothMovement is the hero's kinematic state. Control is the steering input
// in [-1, 1] per axis; velocity ramps up and down over the given times.
type SmoothMovement struct {
	Position        mgl32.Vec2
	Velocity        mgl32.Vec2
	Control         mgl32.Vec2
	MaxSpeed        float32
	TimeToFullSpeed float32 // seconds
	TimeToFullStop  float32 // seconds
}

// Placement is the footprint of a static prop.
type Placement struct {
	Position mgl32.Vec2
	Radius   float32
}
