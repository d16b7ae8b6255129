// Package ai implements the scorpion behaviors as resumable task bodies.
//
// Every body re-reads the components it needs from the stores on each tick:
// dense stores relocate values on removal, so a pointer must never be kept
// across a suspension.
package ai

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/octosim/octopus/internal/component"
	"github.com/octosim/octopus/internal/config"
	"github.com/octosim/octopus/internal/core/ecs"
	"github.com/octosim/octopus/internal/core/event"
	"github.com/octosim/octopus/internal/random"
)

// Env is everything a behavior may touch.
type Env struct {
	Movers     *ecs.Store[component.SimpleMovement]
	Heroes     *ecs.Store[component.SmoothMovement]
	Placements *ecs.Store[component.Placement]
	AIs        *ecs.Store[component.AI]
	Events     *event.Channel
	Rand       *random.Source
	Tuning     config.AIConfig
	Log        *zap.Logger

	// OnDecide, when set, observes every branch Think takes.
	OnDecide func(e ecs.EntityID, behavior string)
}

// PositionOf finds an entity's ground position in whichever store holds it.
func (env *Env) PositionOf(e ecs.EntityID) (mgl32.Vec2, error) {
	if m, err := env.Movers.Get(e); err == nil {
		return m.Position, nil
	}
	if h, err := env.Heroes.Get(e); err == nil {
		return h.Position, nil
	}
	if env.Placements != nil {
		if p, err := env.Placements.Get(e); err == nil {
			return p.Position, nil
		}
	}
	return mgl32.Vec2{}, fmt.Errorf("position of entity %d: %w", e, ecs.ErrNoComponent)
}

func (env *Env) log() *zap.Logger {
	if env.Log == nil {
		return zap.NewNop()
	}
	return env.Log
}
