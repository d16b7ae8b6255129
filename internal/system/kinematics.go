package system

import (
	"time"

	"github.com/octosim/octopus/internal/component"
	"github.com/octosim/octopus/internal/core/ecs"
	"github.com/octosim/octopus/internal/core/event"
	coresys "github.com/octosim/octopus/internal/core/system"
)

// HeroAcceleration and HeroDeceleration derive the ramp rates from the
// hero's tuning. Deceleration always applies, so acceleration includes it.
func HeroDeceleration(h *component.SmoothMovement) float32 {
	return h.MaxSpeed / h.TimeToFullStop
}

func HeroAcceleration(h *component.SmoothMovement) float32 {
	return HeroDeceleration(h) + h.MaxSpeed/h.TimeToFullSpeed
}

// IntegrateHero advances the hero by dt seconds from its control input.
func IntegrateHero(h *component.SmoothMovement, dt float32) {
	h.Velocity = h.Velocity.Add(h.Control.Mul(HeroAcceleration(h) * dt))

	if speed := h.Velocity.Len(); speed > 0 {
		desired := max(0, speed-HeroDeceleration(h)*dt)
		desired = min(desired, h.MaxSpeed)
		h.Velocity = h.Velocity.Mul(desired / speed)
	}

	h.Position = h.Position.Add(h.Velocity.Mul(dt))
}

// IntegrateSimple advances an enemy by dt seconds. Height never goes below
// ground, and touching the ground cancels vertical velocity.
func IntegrateSimple(m *component.SimpleMovement, dt float32) {
	m.Position = m.Position.Add(m.Velocity.Mul(dt))

	m.Height = max(0, m.Height+m.VerticalVelocity*dt)
	m.VerticalVelocity -= m.Gravity * dt
	if m.Height == 0 {
		m.VerticalVelocity = 0
	}
}

// HeroMovementSystem moves the hero from its control input.
// Phase 1 (PreUpdate).
type HeroMovementSystem struct {
	heroes *ecs.Store[component.SmoothMovement]
	events *event.Channel
}

func NewHeroMovementSystem(heroes *ecs.Store[component.SmoothMovement], events *event.Channel) *HeroMovementSystem {
	return &HeroMovementSystem{heroes: heroes, events: events}
}

func (s *HeroMovementSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *HeroMovementSystem) Update(dt time.Duration) {
	sec := float32(dt.Seconds())
	s.heroes.Each(func(id ecs.EntityID, h *component.SmoothMovement) {
		IntegrateHero(h, sec)
		event.Push(s.events, event.MoveObject{Entity: id, Position: h.Position})
	})
}

// MovementSystem integrates every enemy after the brains picked velocities.
// Phase 3 (PostUpdate).
type MovementSystem struct {
	movers *ecs.Store[component.SimpleMovement]
	events *event.Channel
}

func NewMovementSystem(movers *ecs.Store[component.SimpleMovement], events *event.Channel) *MovementSystem {
	return &MovementSystem{movers: movers, events: events}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *MovementSystem) Update(dt time.Duration) {
	sec := float32(dt.Seconds())
	s.movers.Each(func(id ecs.EntityID, m *component.SimpleMovement) {
		IntegrateSimple(m, sec)
		event.Push(s.events, event.MoveObject{
			Entity:   id,
			Position: m.Position,
			Height:   m.Height,
		})
	})
}
