package component

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/octosim/octopus/internal/core/ecs"
	"github.com/octosim/octopus/internal/core/task"
)

// AI is the decision state of an autonomous entity. Brain is the root of its
// behavior task chain; removing the component destroys the chain.
type AI struct {
	Fear      float32
	HomePoint mgl32.Vec2
	Target    ecs.EntityID
	Brain     task.ID
	Fault     error // set once the brain failed; the brain is no longer stepped
}
