// Package world owns the simulation: the ECS stores, the task scheduler that
// runs every brain, and the ordered systems one Update advances.
package world

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/octosim/octopus/internal/ai"
	"github.com/octosim/octopus/internal/component"
	"github.com/octosim/octopus/internal/config"
	"github.com/octosim/octopus/internal/core/ecs"
	"github.com/octosim/octopus/internal/core/event"
	coresys "github.com/octosim/octopus/internal/core/system"
	"github.com/octosim/octopus/internal/core/task"
	"github.com/octosim/octopus/internal/random"
	"github.com/octosim/octopus/internal/system"
)

var (
	ErrNegativeDelta = errors.New("negative time delta")
	ErrNoHero        = errors.New("world has no hero")
	ErrHeroExists    = errors.New("world already has a hero")
	ErrInputFull     = errors.New("input queue full")
)

// inputPerTick bounds how many queued steering commands one tick applies.
const inputPerTick = 16

type Options struct {
	Tuning config.AIConfig
	// Fear, when set, re-evaluates every AI's fear each tick.
	Fear system.FearScript
	// OnDecide observes every branch a brain takes.
	OnDecide func(e ecs.EntityID, behavior string)
	Log      *zap.Logger
}

// World is the simulation root. Single goroutine only (game loop).
type World struct {
	log    *zap.Logger
	ecs    *ecs.World
	sched  *task.Scheduler
	events *event.Channel
	env    *ai.Env
	runner *coresys.Runner
	input  *system.InputSystem

	Heroes     *ecs.Store[component.SmoothMovement]
	Movers     *ecs.Store[component.SimpleMovement]
	Placements *ecs.Store[component.Placement]
	AIs        *ecs.Store[component.AI]

	hero  ecs.EntityID
	ticks uint64
	clock time.Duration
}

func New(events *event.Channel, rng *random.Source, opts Options) *World {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	ew := ecs.NewWorld()
	w := &World{
		log:        log,
		ecs:        ew,
		sched:      task.NewScheduler(),
		events:     events,
		runner:     coresys.NewRunner(),
		Heroes:     ecs.NewStore[component.SmoothMovement](ew, "smooth-movement"),
		Movers:     ecs.NewStore[component.SimpleMovement](ew, "simple-movement"),
		Placements: ecs.NewStore[component.Placement](ew, "placement"),
		AIs:        ecs.NewStore[component.AI](ew, "ai"),
	}
	w.AIs.OnRemove(func(_ ecs.EntityID, c *component.AI) {
		if !c.Brain.IsZero() {
			_ = w.sched.Destroy(c.Brain)
			c.Brain = 0
		}
	})

	w.env = &ai.Env{
		Movers:     w.Movers,
		Heroes:     w.Heroes,
		Placements: w.Placements,
		AIs:        w.AIs,
		Events:     events,
		Rand:       rng,
		Tuning:     opts.Tuning,
		Log:        log.Named("ai"),
		OnDecide:   opts.OnDecide,
	}

	w.input = system.NewInputSystem(w.Heroes, inputPerTick, log.Named("input"))
	w.runner.Register(w.input)
	w.runner.Register(system.NewHeroMovementSystem(w.Heroes, events))
	if opts.Fear != nil {
		w.runner.Register(system.NewFearSystem(w.AIs, w.Movers, w.env.PositionOf, opts.Fear))
	}
	w.runner.Register(system.NewBrainSystem(w.AIs, w.sched, log.Named("brain")))
	w.runner.Register(system.NewMovementSystem(w.Movers, events))
	w.runner.Register(system.NewCleanupSystem(ew, events))
	return w
}

// Update advances the simulation by delta: queued input, hero kinematics, fear, one step of
// every brain in AI store order, enemy kinematics, then deferred removals.
func (w *World) Update(delta time.Duration) error {
	if delta < 0 {
		return fmt.Errorf("update by %s: %w", delta, ErrNegativeDelta)
	}
	w.runner.Tick(delta)
	w.ticks++
	w.clock += delta
	return nil
}

// Hero returns the hero entity, or zero when there is none.
func (w *World) Hero() ecs.EntityID { return w.hero }

// SetHeroControl sets the hero's steering input, clamped to [-1, 1] per axis.
func (w *World) SetHeroControl(control mgl32.Vec2) error {
	h, err := w.Heroes.Get(w.hero)
	if err != nil {
		return fmt.Errorf("hero control: %w", ErrNoHero)
	}
	h.Control = system.ClampControl(control)
	return nil
}

// QueueHeroControl hands a steering input to the input phase of the next Update.
func (w *World) QueueHeroControl(control mgl32.Vec2) error {
	if w.hero.IsZero() {
		return fmt.Errorf("hero control: %w", ErrNoHero)
	}
	if !w.input.Submit(system.HeroCommand{Entity: w.hero, Control: control}) {
		return fmt.Errorf("hero control: %w", ErrInputFull)
	}
	return nil
}

// PositionOf returns an entity's ground position.
func (w *World) PositionOf(e ecs.EntityID) (mgl32.Vec2, error) {
	return w.env.PositionOf(e)
}

// Fault returns the error that retired e's brain, if any.
func (w *World) Fault(e ecs.EntityID) error {
	c, err := w.AIs.Get(e)
	if err != nil {
		return err
	}
	return c.Fault
}

// Kill removes e immediately. Use Despawn from inside a system or behavior.
func (w *World) Kill(e ecs.EntityID) error {
	if err := w.ecs.Kill(e); err != nil {
		return err
	}
	if e == w.hero {
		w.hero = 0
	}
	event.Push(w.events, event.RemoveObject{Entity: e})
	return nil
}

// Despawn queues e for removal at the end of the current tick.
func (w *World) Despawn(e ecs.EntityID) {
	if e == w.hero {
		w.hero = 0
	}
	w.ecs.MarkForDestruction(e)
}

func (w *World) Alive(e ecs.EntityID) bool { return w.ecs.Alive(e) }

func (w *World) Scheduler() *task.Scheduler { return w.sched }

func (w *World) Events() *event.Channel { return w.events }

// Stats is a snapshot for status logging.
type Stats struct {
	Entities int
	Brains   int
	Tasks    int
	Ticks    uint64
	Clock    time.Duration
}

func (w *World) Stats() Stats {
	return Stats{
		Entities: w.ecs.Pool().Len(),
		Brains:   w.AIs.Len(),
		Tasks:    w.sched.Stats().Live,
		Ticks:    w.ticks,
		Clock:    w.clock,
	}
}
