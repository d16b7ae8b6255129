package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/octosim/octopus/internal/ai"
	"github.com/octosim/octopus/internal/component"
	"github.com/octosim/octopus/internal/core/ecs"
	"github.com/octosim/octopus/internal/core/event"
	"github.com/octosim/octopus/internal/data"
)

type HeroParams struct {
	Position        mgl32.Vec2
	MaxSpeed        float32
	TimeToFullSpeed float32
	TimeToFullStop  float32
}

type ScorpionParams struct {
	Position mgl32.Vec2
	Home     mgl32.Vec2
	MaxSpeed float32
	Gravity  float32
	Fear     float32
}

type PropParams struct {
	Kind     event.ObjectKind
	Position mgl32.Vec2
	Radius   float32
}

func (w *World) SpawnHero(p HeroParams) (ecs.EntityID, error) {
	if !w.hero.IsZero() {
		return 0, ErrHeroExists
	}
	id := w.ecs.CreateEntity()
	if _, err := w.Heroes.Add(id, component.SmoothMovement{
		Position:        p.Position,
		MaxSpeed:        p.MaxSpeed,
		TimeToFullSpeed: p.TimeToFullSpeed,
		TimeToFullStop:  p.TimeToFullStop,
	}); err != nil {
		return 0, err
	}
	w.hero = id
	// scorpions that lost their hero hunt the new one
	w.AIs.Each(func(_ ecs.EntityID, c *component.AI) {
		if !w.ecs.Alive(c.Target) {
			c.Target = id
		}
	})
	event.Push(w.events, event.AddObject{Entity: id, Kind: event.KindHero, Position: p.Position})
	return id, nil
}

// SpawnScorpion creates a scorpion targeting the hero and starts its brain.
// A brain that fails on its very first decision is retired like any other.
func (w *World) SpawnScorpion(p ScorpionParams) (ecs.EntityID, error) {
	if w.hero.IsZero() {
		return 0, fmt.Errorf("spawn scorpion: %w", ErrNoHero)
	}
	id := w.ecs.CreateEntity()
	if _, err := w.Movers.Add(id, component.SimpleMovement{
		Position: p.Position,
		MaxSpeed: p.MaxSpeed,
		Gravity:  p.Gravity,
	}); err != nil {
		return 0, err
	}
	if _, err := w.AIs.Add(id, component.AI{
		Fear:      p.Fear,
		HomePoint: p.Home,
		Target:    w.hero,
	}); err != nil {
		return 0, err
	}
	event.Push(w.events, event.AddObject{Entity: id, Kind: event.KindScorpion, Position: p.Position})

	brain := w.sched.Spawn(ai.BehaviorThink, w.env.Think(id))
	c, err := w.AIs.Get(id)
	if err != nil {
		return 0, err
	}
	if w.sched.Done(brain) {
		c.Fault = w.sched.Err(brain)
		w.log.Error("brain faulted on spawn", zap.Uint64("entity", uint64(id)), zap.Error(c.Fault))
		_ = w.sched.Destroy(brain)
		return id, nil
	}
	c.Brain = brain
	return id, nil
}

func (w *World) SpawnProp(p PropParams) (ecs.EntityID, error) {
	id := w.ecs.CreateEntity()
	if _, err := w.Placements.Add(id, component.Placement{Position: p.Position, Radius: p.Radius}); err != nil {
		return 0, err
	}
	event.Push(w.events, event.AddObject{Entity: id, Kind: p.Kind, Position: p.Position})
	return id, nil
}

// Populate creates every object of the scene, the hero first so scorpions
// have a target regardless of file order.
func (w *World) Populate(scene *data.Scene) error {
	if err := scene.Validate(); err != nil {
		return fmt.Errorf("populate: %w", err)
	}
	ordered := make([]data.ObjectSpec, 0, len(scene.Objects))
	for _, o := range scene.Objects {
		if kind, _ := event.ParseObjectKind(o.Kind); kind == event.KindHero {
			ordered = append(ordered, o)
		}
	}
	for _, o := range scene.Objects {
		if kind, _ := event.ParseObjectKind(o.Kind); kind != event.KindHero {
			ordered = append(ordered, o)
		}
	}

	for i, o := range ordered {
		kind, _ := event.ParseObjectKind(o.Kind)
		var err error
		switch kind {
		case event.KindHero:
			_, err = w.SpawnHero(HeroParams{
				Position:        o.Position.Vec(),
				MaxSpeed:        o.MaxSpeed,
				TimeToFullSpeed: o.TimeToFullSpeed,
				TimeToFullStop:  o.TimeToFullStop,
			})
		case event.KindScorpion:
			home := o.Position.Vec()
			if o.Home != nil {
				home = o.Home.Vec()
			}
			_, err = w.SpawnScorpion(ScorpionParams{
				Position: o.Position.Vec(),
				Home:     home,
				MaxSpeed: o.MaxSpeed,
				Gravity:  o.Gravity,
				Fear:     o.Fear,
			})
		default:
			_, err = w.SpawnProp(PropParams{Kind: kind, Position: o.Position.Vec(), Radius: o.Radius})
		}
		if err != nil {
			return fmt.Errorf("populate object %d (%s): %w", i, o.Kind, err)
		}
	}
	w.log.Info("world populated", zap.Int("objects", len(ordered)), zap.Int("brains", w.AIs.Len()))
	return nil
}
