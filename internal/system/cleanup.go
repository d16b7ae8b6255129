package system

import (
	"time"

	"github.com/octosim/octopus/internal/core/ecs"
	"github.com/octosim/octopus/internal/core/event"
	coresys "github.com/octosim/octopus/internal/core/system"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end
// and announces every entity that left the world.
// Phase 4 (Cleanup).
type CleanupSystem struct {
	world  *ecs.World
	events *event.Channel
}

func NewCleanupSystem(world *ecs.World, events *event.Channel) *CleanupSystem {
	return &CleanupSystem{world: world, events: events}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	for _, id := range s.world.FlushDestroyQueue() {
		event.Push(s.events, event.RemoveObject{Entity: id})
	}
}
