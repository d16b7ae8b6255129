package task

import (
	"errors"
	"fmt"
	"iter"
	"time"
)

var (
	ErrInvalidTask = errors.New("invalid task handle")
	ErrNotRoot     = errors.New("task is not a chain root")
)

// ID encodes a 32-bit arena index in the lower bits and a 32-bit generation
// in the upper bits. Generations start at 1, so the zero ID never names a task.
type ID uint64

func newID(index uint32, generation uint32) ID {
	return ID(uint64(generation)<<32 | uint64(index))
}

func (id ID) Index() uint32      { return uint32(id) }
func (id ID) Generation() uint32 { return uint32(id >> 32) }
func (id ID) IsZero() bool       { return id == 0 }

// Body is the sequential logic of a task. It suspends by calling t.Yield
// (directly or through Sleep/Await) and completes by returning.
type Body func(t Task) error

// cancelled unwinds a suspended body when its chain is destroyed.
type cancelled struct{}

type node struct {
	gen   uint32
	live  bool
	name  string
	next  func() (struct{}, bool)
	stop  func()
	yield func(struct{}) bool

	root   ID
	parent ID

	// root only
	leaf     ID
	elapsed  time.Duration
	reported bool

	done     bool
	err      error
	childErr error
}

// Stats is a snapshot of scheduler counters.
type Stats struct {
	Live      int
	Resumes   uint64
	Collapses uint64
}

// Scheduler owns every task node in an arena addressed by generational IDs.
// Not safe for concurrent use: the whole simulation runs on one goroutine and
// the coroutines hand control back and forth strictly.
type Scheduler struct {
	nodes []*node
	free  []uint32
	live  int

	active  int
	pending []ID

	resumes   uint64
	collapses uint64
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		nodes: make([]*node, 0, 64),
		free:  make([]uint32, 0, 16),
	}
}

// Spawn creates a new chain root and runs body immediately up to its first
// suspension.
func (s *Scheduler) Spawn(name string, body Body) ID {
	id, nd := s.alloc(name)
	nd.root = id
	nd.leaf = id
	s.start(id, nd, body)
	return id
}

// Step advances the chain rooted at root by one unit of work. Completed leaves
// are collapsed into their parents first, then the current leaf is resumed
// exactly once. The root's fault is returned by the step in which the root
// finished; Err keeps it afterwards.
func (s *Scheduler) Step(root ID, delta time.Duration) error {
	r, err := s.lookup(root)
	if err != nil {
		return err
	}
	if r.root != root {
		return fmt.Errorf("step %d: %w", root, ErrNotRoot)
	}
	r.elapsed += delta

	leaf := r.leaf
	nd := s.nodes[leaf.Index()]
	for nd.done && !nd.parent.IsZero() {
		parent := s.nodes[nd.parent.Index()]
		parent.childErr = nd.err
		r.leaf = nd.parent
		s.release(leaf)
		s.collapses++
		leaf, nd = r.leaf, parent
	}
	if nd.done {
		return nil
	}

	s.resume(nd)
	if r.live && r.done && !r.reported {
		r.reported = true
		return r.err
	}
	return nil
}

// Destroy tears down the whole chain, leaf first, unwinding every suspended
// body. Called from inside a running task it takes effect once control
// returns to the scheduler's caller.
func (s *Scheduler) Destroy(root ID) error {
	r, err := s.lookup(root)
	if err != nil {
		return err
	}
	if r.root != root {
		return fmt.Errorf("destroy %d: %w", root, ErrNotRoot)
	}
	if s.active > 0 {
		s.pending = append(s.pending, root)
		return nil
	}
	for cur := r.leaf; !cur.IsZero(); {
		parent := s.nodes[cur.Index()].parent
		s.release(cur)
		cur = parent
	}
	return nil
}

// Done reports whether the task finished. Released handles report true: a
// node is only released once it completed or its chain was destroyed.
func (s *Scheduler) Done(id ID) bool {
	nd, err := s.lookup(id)
	if err != nil {
		return true
	}
	return nd.done
}

// Err returns the fault captured by a live task, if any.
func (s *Scheduler) Err(id ID) error {
	nd, err := s.lookup(id)
	if err != nil {
		return err
	}
	return nd.err
}

// Leaf returns the node the next Step of root will resume (or collapse).
func (s *Scheduler) Leaf(root ID) (ID, error) {
	r, err := s.lookup(root)
	if err != nil {
		return 0, err
	}
	if r.root != root {
		return 0, fmt.Errorf("leaf %d: %w", root, ErrNotRoot)
	}
	return r.leaf, nil
}

// Depth returns the number of nodes in the chain from root to its leaf.
func (s *Scheduler) Depth(root ID) (int, error) {
	leaf, err := s.Leaf(root)
	if err != nil {
		return 0, err
	}
	n := 0
	for cur := leaf; !cur.IsZero(); cur = s.nodes[cur.Index()].parent {
		n++
	}
	return n, nil
}

// Name returns the name the task was spawned or awaited with.
func (s *Scheduler) Name(id ID) string {
	nd, err := s.lookup(id)
	if err != nil {
		return ""
	}
	return nd.name
}

func (s *Scheduler) Stats() Stats {
	return Stats{Live: s.live, Resumes: s.resumes, Collapses: s.collapses}
}

func (s *Scheduler) lookup(id ID) (*node, error) {
	idx := id.Index()
	if id.IsZero() || int(idx) >= len(s.nodes) {
		return nil, fmt.Errorf("task %d: %w", id, ErrInvalidTask)
	}
	nd := s.nodes[idx]
	if !nd.live || nd.gen != id.Generation() {
		return nil, fmt.Errorf("task %d: %w", id, ErrInvalidTask)
	}
	return nd, nil
}

func (s *Scheduler) alloc(name string) (ID, *node) {
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		idx = uint32(len(s.nodes))
		s.nodes = append(s.nodes, &node{})
	}
	nd := s.nodes[idx]
	nd.gen++
	nd.live = true
	nd.name = name
	s.live++
	return newID(idx, nd.gen), nd
}

func (s *Scheduler) release(id ID) {
	nd := s.nodes[id.Index()]
	if nd.stop != nil {
		nd.stop()
	}
	*nd = node{gen: nd.gen}
	s.free = append(s.free, id.Index())
	s.live--
}

func (s *Scheduler) start(id ID, nd *node, body Body) {
	seq := func(yield func(struct{}) bool) {
		nd.yield = yield
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(cancelled); !ok {
					nd.err = fmt.Errorf("task %q panicked: %v", nd.name, r)
				}
			}
			nd.done = true
		}()
		if err := body(Task{s: s, id: id}); err != nil {
			nd.err = fmt.Errorf("task %q: %w", nd.name, err)
		}
	}
	nd.next, nd.stop = iter.Pull(seq)
	s.resume(nd)
}

func (s *Scheduler) resume(nd *node) {
	s.resumes++
	s.active++
	nd.next()
	s.active--
	if s.active == 0 && len(s.pending) > 0 {
		pending := s.pending
		s.pending = nil
		for _, root := range pending {
			_ = s.Destroy(root)
		}
	}
}
