package world

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/octosim/octopus/internal/config"
	"github.com/octosim/octopus/internal/core/ecs"
	"github.com/octosim/octopus/internal/core/event"
	"github.com/octosim/octopus/internal/data"
	"github.com/octosim/octopus/internal/geom"
	"github.com/octosim/octopus/internal/random"
	"github.com/octosim/octopus/internal/scripting"
)

const frame = time.Second / 60

type recorder struct {
	adds    []event.AddObject
	moves   []event.MoveObject
	removes []event.RemoveObject
}

func newWorld(t *testing.T, opts Options) (*World, *recorder) {
	t.Helper()
	ch := event.NewChannel(zaptest.NewLogger(t))
	rec := &recorder{}
	event.Subscribe(ch, nil, func(ev event.AddObject) { rec.adds = append(rec.adds, ev) })
	event.Subscribe(ch, nil, func(ev event.MoveObject) { rec.moves = append(rec.moves, ev) })
	event.Subscribe(ch, nil, func(ev event.RemoveObject) { rec.removes = append(rec.removes, ev) })

	if opts.Tuning == (config.AIConfig{}) {
		opts.Tuning = config.DefaultAI()
	}
	opts.Log = zaptest.NewLogger(t)
	return New(ch, random.New(99), opts), rec
}

func TestPopulateDefaultScene(t *testing.T) {
	w, rec := newWorld(t, Options{})
	require.NoError(t, w.Populate(data.DefaultScene()))
	w.Events().Deliver()

	require.Len(t, rec.adds, 5)
	kinds := make([]event.ObjectKind, 0, 5)
	for _, a := range rec.adds {
		kinds = append(kinds, a.Kind)
	}
	assert.Equal(t, []event.ObjectKind{
		event.KindHero, event.KindScorpion, event.KindTree, event.KindChest, event.KindHouse,
	}, kinds)
	assert.Equal(t, mgl32.Vec2{-5, 3}, rec.adds[1].Position)
	assert.Equal(t, mgl32.Vec2{1, -5}, rec.adds[4].Position)
	assert.Equal(t, rec.adds[0].Entity, w.Hero())

	st := w.Stats()
	assert.Equal(t, 5, st.Entities)
	assert.Equal(t, 1, st.Brains)
	assert.GreaterOrEqual(t, st.Tasks, 2)
}

func TestUpdatePublishesMovesForKinematicEntities(t *testing.T) {
	w, rec := newWorld(t, Options{})
	require.NoError(t, w.Populate(data.DefaultScene()))
	w.Events().Deliver()

	for i := 0; i < 3; i++ {
		require.NoError(t, w.Update(frame))
	}
	w.Events().Deliver()

	require.Len(t, rec.moves, 6)
	assert.Equal(t, w.Hero(), rec.moves[0].Entity)
	assert.Equal(t, uint64(3), w.Stats().Ticks)
	assert.Equal(t, 3*frame, w.Stats().Clock)
}

func TestUpdateRejectsNegativeDelta(t *testing.T) {
	w, _ := newWorld(t, Options{})
	assert.ErrorIs(t, w.Update(-time.Millisecond), ErrNegativeDelta)
	assert.NoError(t, w.Update(0))
}

func TestHeroAcceleratesAndStops(t *testing.T) {
	w, _ := newWorld(t, Options{})
	hero, err := w.SpawnHero(HeroParams{MaxSpeed: 5, TimeToFullSpeed: 0.3, TimeToFullStop: 0.2})
	require.NoError(t, err)

	require.NoError(t, w.SetHeroControl(mgl32.Vec2{3, 0}))
	h, _ := w.Heroes.Get(hero)
	assert.Equal(t, mgl32.Vec2{1, 0}, h.Control)

	for i := 0; i < 60; i++ {
		require.NoError(t, w.Update(frame))
	}
	h, _ = w.Heroes.Get(hero)
	assert.InDelta(t, 5, h.Velocity.Len(), 1e-3)
	assert.Greater(t, h.Position.X(), float32(3.5))

	require.NoError(t, w.SetHeroControl(mgl32.Vec2{}))
	for i := 0; i < 15; i++ {
		require.NoError(t, w.Update(frame))
	}
	h, _ = w.Heroes.Get(hero)
	assert.Equal(t, float32(0), h.Velocity.Len())
}

func TestQueuedHeroControlAppliesOnNextUpdate(t *testing.T) {
	w, _ := newWorld(t, Options{})
	assert.ErrorIs(t, w.QueueHeroControl(mgl32.Vec2{1, 0}), ErrNoHero)

	hero, err := w.SpawnHero(HeroParams{MaxSpeed: 5, TimeToFullSpeed: 0.3, TimeToFullStop: 0.2})
	require.NoError(t, err)
	require.NoError(t, w.QueueHeroControl(mgl32.Vec2{0, 1}))
	require.NoError(t, w.QueueHeroControl(mgl32.Vec2{-2, 0}))

	h, _ := w.Heroes.Get(hero)
	assert.Equal(t, mgl32.Vec2{}, h.Control)

	require.NoError(t, w.Update(frame))
	h, _ = w.Heroes.Get(hero)
	assert.Equal(t, mgl32.Vec2{-1, 0}, h.Control)
	assert.Less(t, h.Velocity.X(), float32(0))
}

func TestSpawnRules(t *testing.T) {
	w, _ := newWorld(t, Options{})
	_, err := w.SpawnScorpion(ScorpionParams{MaxSpeed: 4, Gravity: 9})
	assert.ErrorIs(t, err, ErrNoHero)
	assert.ErrorIs(t, w.SetHeroControl(mgl32.Vec2{1, 0}), ErrNoHero)

	_, err = w.SpawnHero(HeroParams{MaxSpeed: 5, TimeToFullSpeed: 0.3, TimeToFullStop: 0.2})
	require.NoError(t, err)
	_, err = w.SpawnHero(HeroParams{MaxSpeed: 5, TimeToFullSpeed: 0.3, TimeToFullStop: 0.2})
	assert.ErrorIs(t, err, ErrHeroExists)
}

func TestFaultIsIsolatedPerEntity(t *testing.T) {
	decided := map[ecs.EntityID]int{}
	w, _ := newWorld(t, Options{OnDecide: func(e ecs.EntityID, _ string) { decided[e]++ }})
	_, err := w.SpawnHero(HeroParams{Position: mgl32.Vec2{1, 1}, MaxSpeed: 5, TimeToFullSpeed: 0.3, TimeToFullStop: 0.2})
	require.NoError(t, err)

	// scared and standing on the hero: cannot pick a direction to flee
	doomed, err := w.SpawnScorpion(ScorpionParams{Position: mgl32.Vec2{1, 1}, MaxSpeed: 4, Gravity: 9, Fear: 90})
	require.NoError(t, err)
	assert.ErrorIs(t, w.Fault(doomed), geom.ErrZeroLength)

	healthy, err := w.SpawnScorpion(ScorpionParams{Position: mgl32.Vec2{3, 1}, MaxSpeed: 4, Gravity: 9})
	require.NoError(t, err)
	broken, err := w.SpawnScorpion(ScorpionParams{Position: mgl32.Vec2{-1, 1}, MaxSpeed: 4, Gravity: 9})
	require.NoError(t, err)

	require.NoError(t, w.Update(frame))
	w.Movers.Remove(broken)
	for i := 0; i < 600; i++ {
		require.NoError(t, w.Update(frame))
	}

	assert.ErrorIs(t, w.Fault(broken), ecs.ErrNoComponent)
	assert.NoError(t, w.Fault(healthy))
	assert.Greater(t, decided[healthy], 3)
	assert.Equal(t, 1, decided[broken])

	c, err := w.AIs.Get(broken)
	require.NoError(t, err)
	assert.True(t, c.Brain.IsZero())
}

func TestScorpionsOutliveTheirHero(t *testing.T) {
	decided := 0
	w, _ := newWorld(t, Options{OnDecide: func(ecs.EntityID, string) { decided++ }})
	require.NoError(t, w.Populate(data.DefaultScene()))
	scorpion := w.AIs.Entities()[0]
	for i := 0; i < 10; i++ {
		require.NoError(t, w.Update(frame))
	}

	require.NoError(t, w.Kill(w.Hero()))
	for i := 0; i < 600; i++ {
		require.NoError(t, w.Update(frame))
	}
	require.NoError(t, w.Fault(scorpion))
	c, err := w.AIs.Get(scorpion)
	require.NoError(t, err)
	require.False(t, c.Brain.IsZero())

	hero, err := w.SpawnHero(HeroParams{Position: mgl32.Vec2{10, 10}, MaxSpeed: 5, TimeToFullSpeed: 0.3, TimeToFullStop: 0.2})
	require.NoError(t, err)
	c, err = w.AIs.Get(scorpion)
	require.NoError(t, err)
	assert.Equal(t, hero, c.Target)

	before := decided
	for i := 0; i < 600; i++ {
		require.NoError(t, w.Update(frame))
	}
	assert.Greater(t, decided, before)
	assert.NoError(t, w.Fault(scorpion))
}

func TestKillDestroysBrainChain(t *testing.T) {
	w, rec := newWorld(t, Options{})
	require.NoError(t, w.Populate(data.DefaultScene()))
	scorpion := w.AIs.Entities()[0]
	for i := 0; i < 10; i++ {
		require.NoError(t, w.Update(frame))
	}
	require.Positive(t, w.Scheduler().Stats().Live)

	require.NoError(t, w.Kill(scorpion))
	assert.Equal(t, 0, w.Scheduler().Stats().Live)
	assert.False(t, w.Alive(scorpion))
	assert.ErrorIs(t, w.Kill(scorpion), ecs.ErrNotAlive)

	w.Events().Deliver()
	require.Len(t, rec.removes, 1)
	assert.Equal(t, scorpion, rec.removes[0].Entity)
	require.NoError(t, w.Update(frame))
}

func TestDespawnHappensAtCleanup(t *testing.T) {
	w, rec := newWorld(t, Options{})
	require.NoError(t, w.Populate(data.DefaultScene()))
	tree := ecs.EntityID(0)
	for _, id := range w.Placements.Entities() {
		tree = id
		break
	}

	w.Despawn(tree)
	assert.True(t, w.Alive(tree))
	require.NoError(t, w.Update(frame))
	assert.False(t, w.Alive(tree))

	w.Events().Deliver()
	require.Len(t, rec.removes, 1)
	assert.Equal(t, tree, rec.removes[0].Entity)
}

type fixedFear float32

func (f fixedFear) EvalFear(scripting.FearContext) float32 { return float32(f) }

func TestFearScriptRunsBeforeBrains(t *testing.T) {
	var seen []string
	w, _ := newWorld(t, Options{
		Fear:     fixedFear(90),
		OnDecide: func(_ ecs.EntityID, behavior string) { seen = append(seen, behavior) },
	})
	require.NoError(t, w.Populate(data.DefaultScene()))
	scorpion := w.AIs.Entities()[0]

	require.NoError(t, w.Update(frame))
	c, err := w.AIs.Get(scorpion)
	require.NoError(t, err)
	assert.Equal(t, float32(90), c.Fear)
	require.NotEmpty(t, seen)
}
