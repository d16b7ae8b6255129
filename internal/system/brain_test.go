package system

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/octosim/octopus/internal/component"
	"github.com/octosim/octopus/internal/core/ecs"
	"github.com/octosim/octopus/internal/core/task"
)

func TestBrainSystemRetiresFaultedBrainAndNamesBehavior(t *testing.T) {
	w := ecs.NewWorld()
	ais := ecs.NewStore[component.AI](w, "ai")
	sched := task.NewScheduler()
	core, logs := observer.New(zap.ErrorLevel)
	s := NewBrainSystem(ais, sched, zap.New(core))

	errStuck := errors.New("stuck")
	broken := w.CreateEntity()
	brokenBrain := sched.Spawn("think", func(t task.Task) error {
		return t.Await("moveTo", func(t task.Task) error {
			t.Yield()
			return errStuck
		})
	})
	_, err := ais.Add(broken, component.AI{Brain: brokenBrain})
	require.NoError(t, err)

	steps := 0
	healthy := w.CreateEntity()
	_, err = ais.Add(healthy, component.AI{Brain: sched.Spawn("think", func(t task.Task) error {
		for {
			steps++
			t.Yield()
		}
	})})
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		s.Update(time.Second / 60)
	}

	c, err := ais.Get(broken)
	require.NoError(t, err)
	assert.ErrorIs(t, c.Fault, errStuck)
	assert.True(t, c.Brain.IsZero())
	assert.ErrorIs(t, sched.Err(brokenBrain), task.ErrInvalidTask)
	assert.Equal(t, 5, steps)

	entries := logs.FilterMessage("brain faulted").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "moveTo", entries[0].ContextMap()["behavior"])
}
