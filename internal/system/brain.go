package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/octosim/octopus/internal/component"
	"github.com/octosim/octopus/internal/core/ecs"
	coresys "github.com/octosim/octopus/internal/core/system"
	"github.com/octosim/octopus/internal/core/task"
)

// BrainSystem steps every AI's task chain once per tick, in AI store order.
// A brain that faults is logged, recorded on its component and retired; the
// other entities keep thinking.
// Phase 2 (Update).
type BrainSystem struct {
	ais   *ecs.Store[component.AI]
	sched *task.Scheduler
	log   *zap.Logger
	order []ecs.EntityID
}

func NewBrainSystem(ais *ecs.Store[component.AI], sched *task.Scheduler, log *zap.Logger) *BrainSystem {
	return &BrainSystem{ais: ais, sched: sched, log: log}
}

func (s *BrainSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *BrainSystem) Update(dt time.Duration) {
	// behaviors may add or remove AI components while stepping
	s.order = append(s.order[:0], s.ais.Entities()...)
	for _, id := range s.order {
		ai, err := s.ais.Get(id)
		if err != nil || ai.Brain.IsZero() || ai.Fault != nil {
			continue
		}
		brain := ai.Brain
		// a child's fault reaches the root one step after the child failed,
		// so the leaf before stepping names the behavior that broke
		var behavior string
		if leaf, err := s.sched.Leaf(brain); err == nil {
			behavior = s.sched.Name(leaf)
		}
		stepErr := s.sched.Step(brain, dt)
		done := s.sched.Done(brain)
		if stepErr == nil && !done {
			continue
		}

		ai, err = s.ais.Get(id)
		if err != nil {
			continue
		}
		if stepErr != nil {
			ai.Fault = stepErr
			s.log.Error("brain faulted",
				zap.Uint64("entity", uint64(id)),
				zap.String("behavior", behavior),
				zap.Error(stepErr))
		} else {
			s.log.Debug("brain finished", zap.Uint64("entity", uint64(id)))
		}
		ai.Brain = 0
		_ = s.sched.Destroy(brain)
	}
}
