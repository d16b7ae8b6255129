package event

import (
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Channel is a deferred, type-indexed event bus. Push only queues; handlers
// run in Deliver, in global push order, each event going to its type's live
// subscribers in subscription order. Events pushed while delivering wait for
// the next Deliver. Single goroutine only (game loop).
type Channel struct {
	queue    []envelope
	spare    []envelope
	handlers map[reflect.Type][]*Subscription
	seq      uint64
	log      *zap.Logger

	delivering bool
}

type envelope struct {
	typ reflect.Type
	seq uint64
	ev  any
}

// Subscription is the token returned by Subscribe. Cancel revokes it; a
// subscription also dies when its owner's Lifetime ends.
type Subscription struct {
	id        uuid.UUID
	typ       reflect.Type
	owner     *Lifetime
	since     uint64
	call      func(any)
	cancelled bool
}

func (s *Subscription) ID() uuid.UUID { return s.id }

func (s *Subscription) Cancel() { s.cancelled = true }

// Active reports whether the handler will still be invoked.
func (s *Subscription) Active() bool {
	return !s.cancelled && s.owner.Alive()
}

func NewChannel(log *zap.Logger) *Channel {
	if log == nil {
		log = zap.NewNop()
	}
	return &Channel{
		queue:    make([]envelope, 0, 64),
		spare:    make([]envelope, 0, 64),
		handlers: make(map[reflect.Type][]*Subscription),
		log:      log,
	}
}

// Push queues an event for the next Deliver.
func Push[T any](c *Channel, event T) {
	c.seq++
	c.queue = append(c.queue, envelope{typ: typeOf[T](), seq: c.seq, ev: event})
}

// Subscribe registers fn for events of type T pushed from now on, for as long
// as owner is alive. A nil owner never ends.
func Subscribe[T any](c *Channel, owner *Lifetime, fn func(T)) *Subscription {
	t := typeOf[T]()
	s := &Subscription{
		id:    uuid.New(),
		typ:   t,
		owner: owner,
		since: c.seq,
		call:  func(ev any) { fn(ev.(T)) },
	}
	c.handlers[t] = append(c.handlers[t], s)
	return s
}

// Unsubscribe revokes a subscription; it is dropped at the next Deliver.
func (c *Channel) Unsubscribe(s *Subscription) {
	if s != nil {
		s.Cancel()
	}
}

// Deliver dispatches every queued event and returns the number of handler
// invocations. Dead subscriptions are pruned afterwards, keeping the order of
// the survivors. Called from inside a handler it does nothing.
func (c *Channel) Deliver() int {
	if c.delivering {
		return 0
	}
	c.delivering = true
	defer func() { c.delivering = false }()

	batch := c.queue
	c.queue = c.spare[:0]

	calls := 0
	for i := range batch {
		env := &batch[i]
		subs := c.handlers[env.typ]
		for _, s := range subs {
			if s.since >= env.seq || !s.Active() {
				continue
			}
			s.call(env.ev)
			calls++
		}
		env.ev = nil
	}
	c.spare = batch[:0]

	pruned := c.prune()
	if pruned > 0 {
		c.log.Debug("pruned event subscriptions", zap.Int("count", pruned))
	}
	return calls
}

// Pending returns the number of queued events.
func (c *Channel) Pending() int { return len(c.queue) }

// Subscribers returns the number of active subscriptions for T.
func Subscribers[T any](c *Channel) int {
	n := 0
	for _, s := range c.handlers[typeOf[T]()] {
		if s.Active() {
			n++
		}
	}
	return n
}

func (c *Channel) prune() int {
	pruned := 0
	for t, subs := range c.handlers {
		kept := subs[:0]
		for _, s := range subs {
			if s.Active() {
				kept = append(kept, s)
			}
		}
		for i := len(kept); i < len(subs); i++ {
			subs[i] = nil
		}
		pruned += len(subs) - len(kept)
		if len(kept) == 0 {
			delete(c.handlers, t)
			continue
		}
		c.handlers[t] = kept
	}
	return pruned
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
