package ai

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/octosim/octopus/internal/core/ecs"
	"github.com/octosim/octopus/internal/core/task"
	"github.com/octosim/octopus/internal/geom"
)

// Behavior names as they appear in task names and decision traces.
const (
	BehaviorMoveTo       = "moveTo"
	BehaviorApproach     = "approach"
	BehaviorBackAwayFrom = "backAwayFrom"
	BehaviorHiss         = "hiss"
	BehaviorJumpAttack   = "jumpAttack"
	BehaviorFidget       = "fidget"
	BehaviorThink        = "think"
)

// Think is the scorpion's top-level brain. It never returns on its own: each
// pass reads fear and the distance to the target, awaits one behavior, and
// decides again. A scared scorpion backs off when close and hisses when far;
// a calm one closes in or fidgets at random, and jumps when within reach.
// Without a target it stands still and checks again every tick.
func (env *Env) Think(e ecs.EntityID) task.Body {
	return func(t task.Task) error {
		for {
			brain, err := env.AIs.Get(e)
			if err != nil {
				return err
			}
			fear, targetID := brain.Fear, brain.Target

			mov, err := env.Movers.Get(e)
			if err != nil {
				return err
			}
			target, err := env.PositionOf(targetID)
			if errors.Is(err, ecs.ErrNoComponent) {
				mov.Velocity = mgl32.Vec2{}
				t.Yield()
				continue
			}
			if err != nil {
				return err
			}
			dist := geom.Distance(mov.Position, target)

			var name string
			var body task.Body
			switch {
			case fear > env.Tuning.FearThreshold && dist < env.Tuning.FleeRadius:
				name, body = BehaviorBackAwayFrom, env.BackAwayFrom(e, target)
			case fear > env.Tuning.FearThreshold:
				name, body = BehaviorHiss, env.Hiss(e)
			case dist > env.Tuning.EngageDistance:
				if env.Rand.Int(0, 1) == 0 {
					name, body = BehaviorApproach, env.Approach(e, targetID, env.Tuning.ApproachDistance)
				} else {
					name, body = BehaviorFidget, env.Fidget(e)
				}
			default:
				name, body = BehaviorJumpAttack, env.JumpAttack(e, target)
			}

			env.log().Debug("think", zap.Uint64("entity", uint64(e)), zap.String("behavior", name),
				zap.Float32("fear", fear), zap.Float32("distance", dist))
			if env.OnDecide != nil {
				env.OnDecide(e, name)
			}
			if err := t.Await(name, body); err != nil {
				if env.lostTarget(e, targetID, err) {
					continue
				}
				return err
			}
		}
	}
}

// lostTarget reports whether err came from the target leaving the world
// while e itself is still around.
func (env *Env) lostTarget(e, target ecs.EntityID, err error) bool {
	if !errors.Is(err, ecs.ErrNoComponent) || !env.Movers.Has(e) {
		return false
	}
	_, perr := env.PositionOf(target)
	return perr != nil
}
