package system

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/octosim/octopus/internal/component"
	"github.com/octosim/octopus/internal/core/ecs"
	coresys "github.com/octosim/octopus/internal/core/system"
	"github.com/octosim/octopus/internal/geom"
	"github.com/octosim/octopus/internal/scripting"
)

// FearScript computes an entity's next fear level.
type FearScript interface {
	EvalFear(ctx scripting.FearContext) float32
}

// Locator resolves an entity's ground position.
type Locator func(ecs.EntityID) (mgl32.Vec2, error)

// FearSystem updates AI fear from a script, before the brains read it.
// Phase 1 (PreUpdate).
type FearSystem struct {
	ais    *ecs.Store[component.AI]
	movers *ecs.Store[component.SimpleMovement]
	locate Locator
	script FearScript
}

func NewFearSystem(ais *ecs.Store[component.AI], movers *ecs.Store[component.SimpleMovement], locate Locator, script FearScript) *FearSystem {
	return &FearSystem{ais: ais, movers: movers, locate: locate, script: script}
}

func (s *FearSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *FearSystem) Update(dt time.Duration) {
	sec := float32(dt.Seconds())
	ecs.Each2(s.ais, s.movers, func(id ecs.EntityID, ai *component.AI, mov *component.SimpleMovement) {
		if ai.Fault != nil {
			return
		}
		ctx := scripting.FearContext{
			Entity:       uint64(id),
			Fear:         ai.Fear,
			HomeDistance: geom.Distance(mov.Position, ai.HomePoint),
			Height:       mov.Height,
			Delta:        sec,
		}
		if target, err := s.locate(ai.Target); err == nil {
			ctx.HasTarget = true
			ctx.TargetDistance = geom.Distance(mov.Position, target)
		}
		ai.Fear = max(0, s.script.EvalFear(ctx))
	})
}
