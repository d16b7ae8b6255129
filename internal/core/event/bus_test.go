package event

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/octosim/octopus/internal/core/ecs"
)

func TestPushIsDeferredUntilDeliver(t *testing.T) {
	c := NewChannel(zaptest.NewLogger(t))
	var got []Hiss
	Subscribe(c, nil, func(ev Hiss) { got = append(got, ev) })

	Push(c, Hiss{Entity: 7})
	assert.Empty(t, got)
	assert.Equal(t, 1, c.Pending())

	assert.Equal(t, 1, c.Deliver())
	assert.Equal(t, []Hiss{{Entity: 7}}, got)
	assert.Equal(t, 0, c.Pending())

	assert.Equal(t, 0, c.Deliver())
	assert.Len(t, got, 1)
}

func TestDeliverKeepsPushOrderAcrossTypes(t *testing.T) {
	c := NewChannel(nil)
	var log []string
	Subscribe(c, nil, func(ev AddObject) { log = append(log, "add:"+ev.Kind.String()) })
	Subscribe(c, nil, func(ev MoveObject) { log = append(log, "move") })
	Subscribe(c, nil, func(ev AddObject) { log = append(log, "add2:"+ev.Kind.String()) })

	Push(c, AddObject{Entity: 1, Kind: KindHero})
	Push(c, MoveObject{Entity: 1, Position: mgl32.Vec2{1, 1}})
	Push(c, AddObject{Entity: 2, Kind: KindTree})

	assert.Equal(t, 5, c.Deliver())
	assert.Equal(t, []string{"add:hero", "add2:hero", "move", "add:tree", "add2:tree"}, log)
}

func TestLateSubscriberMissesQueuedEvents(t *testing.T) {
	c := NewChannel(nil)
	Push(c, Hiss{Entity: 1})

	var got []ecs.EntityID
	Subscribe(c, nil, func(ev Hiss) { got = append(got, ev.Entity) })
	Push(c, Hiss{Entity: 2})

	c.Deliver()
	assert.Equal(t, []ecs.EntityID{2}, got)
}

func TestEndedLifetimeStopsDeliveryAndIsPruned(t *testing.T) {
	c := NewChannel(nil)
	owner := NewLifetime()
	calls := 0
	sub := Subscribe(c, owner, func(Hiss) { calls++ })
	require.True(t, sub.Active())
	require.Equal(t, 1, Subscribers[Hiss](c))

	Push(c, Hiss{})
	c.Deliver()
	require.Equal(t, 1, calls)

	owner.End()
	Push(c, Hiss{})
	assert.Equal(t, 0, c.Deliver())
	assert.Equal(t, 1, calls)
	assert.False(t, sub.Active())
	assert.Empty(t, c.handlers)
}

func TestCancelledSubscriptionKeepsOthersInOrder(t *testing.T) {
	c := NewChannel(nil)
	var log []int
	subs := make([]*Subscription, 4)
	for i := range subs {
		i := i
		subs[i] = Subscribe(c, nil, func(Hiss) { log = append(log, i) })
	}
	assert.NotEqual(t, subs[0].ID(), subs[1].ID())

	c.Unsubscribe(subs[1])
	Push(c, Hiss{})
	c.Deliver()
	Push(c, Hiss{})
	c.Deliver()

	assert.Equal(t, []int{0, 2, 3, 0, 2, 3}, log)
	assert.Equal(t, 3, Subscribers[Hiss](c))
}

func TestEventsPushedDuringDeliverWaitForNextPass(t *testing.T) {
	c := NewChannel(nil)
	var hisses []ecs.EntityID
	Subscribe(c, nil, func(ev AddObject) {
		Push(c, Hiss{Entity: ev.Entity})
	})
	Subscribe(c, nil, func(ev Hiss) { hisses = append(hisses, ev.Entity) })

	Push(c, AddObject{Entity: 3})
	assert.Equal(t, 1, c.Deliver())
	assert.Empty(t, hisses)
	assert.Equal(t, 1, c.Pending())

	assert.Equal(t, 1, c.Deliver())
	assert.Equal(t, []ecs.EntityID{3}, hisses)
}

func TestNestedDeliverIsIgnored(t *testing.T) {
	c := NewChannel(nil)
	var order []ecs.EntityID
	nested := -1
	Subscribe(c, nil, func(ev Hiss) {
		order = append(order, ev.Entity)
		if ev.Entity == 1 {
			Push(c, Hiss{Entity: 10})
			nested = c.Deliver()
		}
	})

	Push(c, Hiss{Entity: 1})
	Push(c, Hiss{Entity: 2})
	assert.Equal(t, 2, c.Deliver())
	assert.Equal(t, 0, nested)
	assert.Equal(t, []ecs.EntityID{1, 2}, order)

	assert.Equal(t, 1, c.Deliver())
	assert.Equal(t, []ecs.EntityID{1, 2, 10}, order)
}

func TestSubscribeAndCancelDuringDeliver(t *testing.T) {
	c := NewChannel(nil)
	owner := NewLifetime()
	lateCalls, selfCalls := 0, 0
	var self *Subscription
	self = Subscribe(c, owner, func(Hiss) {
		selfCalls++
		self.Cancel()
		Subscribe(c, nil, func(Hiss) { lateCalls++ })
	})

	Push(c, Hiss{})
	Push(c, Hiss{})
	c.Deliver()
	assert.Equal(t, 1, selfCalls)
	assert.Equal(t, 0, lateCalls)

	Push(c, Hiss{})
	c.Deliver()
	assert.Equal(t, 1, selfCalls)
	assert.Equal(t, 1, lateCalls)
}

func TestParseObjectKind(t *testing.T) {
	k, err := ParseObjectKind("Scorpion")
	require.NoError(t, err)
	assert.Equal(t, KindScorpion, k)

	_, err = ParseObjectKind("dragon")
	assert.Error(t, err)
	assert.Equal(t, "kind(9)", ObjectKind(9).String())
}
