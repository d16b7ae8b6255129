package ai

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/octosim/octopus/internal/core/ecs"
	"github.com/octosim/octopus/internal/core/event"
	"github.com/octosim/octopus/internal/core/task"
	"github.com/octosim/octopus/internal/geom"
)

// MoveTo steers e straight at point at full speed until it is within the
// arrival epsilon. Velocity is left as is on arrival.
func (env *Env) MoveTo(e ecs.EntityID, point mgl32.Vec2) task.Body {
	return func(t task.Task) error {
		env.log().Debug("move to", zap.Uint64("entity", uint64(e)), zap.Float32s("point", point[:]))
		for {
			mov, err := env.Movers.Get(e)
			if err != nil {
				return err
			}
			if geom.Distance(mov.Position, point) <= env.Tuning.ArrivalEpsilon {
				return nil
			}
			dir, err := geom.Direction(mov.Position, point)
			if err != nil {
				return fmt.Errorf("move to: %w", err)
			}
			mov.Velocity = dir.Mul(mov.MaxSpeed)
			t.Yield()
		}
	}
}

// Approach chases target until e is within distance of it. The chase
// velocity stays set when it finishes.
func (env *Env) Approach(e, target ecs.EntityID, distance float32) task.Body {
	return func(t task.Task) error {
		for {
			mov, err := env.Movers.Get(e)
			if err != nil {
				return err
			}
			goal, err := env.PositionOf(target)
			if err != nil {
				return err
			}
			if geom.Distance(mov.Position, goal) <= distance {
				return nil
			}
			dir, err := geom.Direction(mov.Position, goal)
			if err != nil {
				return fmt.Errorf("approach: %w", err)
			}
			mov.Velocity = dir.Mul(mov.MaxSpeed)
			t.Yield()
		}
	}
}

// BackAwayFrom retreats from point to a spot BackAwayDistance away along the
// line from point through e's starting position.
func (env *Env) BackAwayFrom(e ecs.EntityID, point mgl32.Vec2) task.Body {
	return func(t task.Task) error {
		mov, err := env.Movers.Get(e)
		if err != nil {
			return err
		}
		away, err := geom.Direction(point, mov.Position)
		if err != nil {
			return fmt.Errorf("back away: %w", err)
		}
		flee := mov.Position.Add(away.Mul(env.Tuning.BackAwayDistance))

		for {
			mov, err := env.Movers.Get(e)
			if err != nil {
				return err
			}
			if geom.Distance(mov.Position, flee) <= env.Tuning.BackAwayProximity {
				return nil
			}
			dir, err := geom.Direction(mov.Position, flee)
			if err != nil {
				return fmt.Errorf("back away: %w", err)
			}
			mov.Velocity = dir.Mul(mov.MaxSpeed)
			t.Yield()
		}
	}
}

// Hiss announces a hiss, then waits HissDuration before finishing.
func (env *Env) Hiss(e ecs.EntityID) task.Body {
	return func(t task.Task) error {
		event.Push(env.Events, event.Hiss{Entity: e})
		t.Sleep(env.Tuning.HissDuration)
		return nil
	}
}

// JumpAttack leaps at point: an upward impulse plus the ground velocity that
// covers the distance in JumpTravelTime. Finishes on landing.
func (env *Env) JumpAttack(e ecs.EntityID, point mgl32.Vec2) task.Body {
	return func(t task.Task) error {
		mov, err := env.Movers.Get(e)
		if err != nil {
			return err
		}
		mov.VerticalVelocity = env.Tuning.JumpImpulse
		mov.Velocity = point.Sub(mov.Position).Mul(1 / env.Tuning.JumpTravelTime)

		// the impulse is positive, so the first check never passes
		var lost error
		t.WaitUntil(func() bool {
			mov, err := env.Movers.Get(e)
			if err != nil {
				lost = err
				return true
			}
			return mov.Height <= 0 && mov.VerticalVelocity == 0
		})
		return lost
	}
}

// Fidget wanders to FidgetMoves random points near the current position.
func (env *Env) Fidget(e ecs.EntityID) task.Body {
	return func(t task.Task) error {
		for i := 0; i < env.Tuning.FidgetMoves; i++ {
			mov, err := env.Movers.Get(e)
			if err != nil {
				return err
			}
			point := env.Rand.PointInSquare(mov.Position, env.Tuning.FidgetOffset)
			if err := t.Await("moveTo", env.MoveTo(e, point)); err != nil {
				return err
			}
		}
		return nil
	}
}
