package task

import "time"

// Task is the handle a running body uses to suspend itself and to await
// sub-tasks. It is only meaningful inside the body it was passed to.
type Task struct {
	s  *Scheduler
	id ID
}

func (t Task) ID() ID { return t.id }

// Root returns the ID of the chain root this task belongs to.
func (t Task) Root() ID {
	return t.node().root
}

// Yield suspends the task until the next Step of its chain.
func (t Task) Yield() {
	if !t.node().yield(struct{}{}) {
		panic(cancelled{})
	}
}

// Await runs body as a child of t. A child that finishes without suspending
// returns its fault synchronously; otherwise t stays dormant until the child
// completes and a later Step collapses it.
func (t Task) Await(name string, body Body) error {
	s := t.s
	self := t.node()
	root := s.nodes[self.root.Index()]

	id, child := s.alloc(name)
	child.root = self.root
	child.parent = t.id
	root.leaf = id
	s.start(id, child, body)

	if child.done {
		root.leaf = t.id
		err := child.err
		s.release(id)
		return err
	}

	t.Yield()
	err := self.childErr
	self.childErr = nil
	return err
}

// Elapsed is the simulated time accumulated by the chain's root.
func (t Task) Elapsed() time.Duration {
	return t.s.nodes[t.node().root.Index()].elapsed
}

// Sleep suspends for at least one step and until d of simulated time passed.
func (t Task) Sleep(d time.Duration) {
	deadline := t.Elapsed() + d
	for {
		t.Yield()
		if t.Elapsed() >= deadline {
			return
		}
	}
}

// WaitUntil yields until cond reports true. cond is checked before the
// first suspension.
func (t Task) WaitUntil(cond func() bool) {
	for !cond() {
		t.Yield()
	}
}

func (t Task) node() *node {
	nd, err := t.s.lookup(t.id)
	if err != nil {
		panic(err)
	}
	return nd
}
