package system

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/octosim/octopus/internal/component"
	"github.com/octosim/octopus/internal/core/ecs"
	coresys "github.com/octosim/octopus/internal/core/system"
)

// HeroCommand is one steering update for a hero entity.
type HeroCommand struct {
	Entity  ecs.EntityID
	Control mgl32.Vec2
}

// InputSystem drains queued steering commands into hero components.
// Submit may be called from any goroutine; Update runs on the game loop.
// Phase 0 (Input).
type InputSystem struct {
	queue      chan HeroCommand
	heroes     *ecs.Store[component.SmoothMovement]
	maxPerTick int
	log        *zap.Logger
}

func NewInputSystem(heroes *ecs.Store[component.SmoothMovement], maxPerTick int, log *zap.Logger) *InputSystem {
	return &InputSystem{
		queue:      make(chan HeroCommand, maxPerTick*4),
		heroes:     heroes,
		maxPerTick: maxPerTick,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

// Submit queues cmd for the next tick. It reports false when the queue is full.
func (s *InputSystem) Submit(cmd HeroCommand) bool {
	select {
	case s.queue <- cmd:
		return true
	default:
		return false
	}
}

func (s *InputSystem) Update(_ time.Duration) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case cmd := <-s.queue:
			h, err := s.heroes.Get(cmd.Entity)
			if err != nil {
				s.log.Debug("steering for missing hero dropped", zap.Uint64("entity", uint64(cmd.Entity)))
				continue
			}
			h.Control = ClampControl(cmd.Control)
		default:
			return
		}
	}
}

// ClampControl limits a steering input to [-1, 1] per axis.
func ClampControl(c mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{mgl32.Clamp(c.X(), -1, 1), mgl32.Clamp(c.Y(), -1, 1)}
}
