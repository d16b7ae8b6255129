package ecs

import "fmt"

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// Store is a dense typed component store. values and owners are index-aligned
// and always the same length; index maps an owner back to its slot. Removal
// moves the last slot into the hole, so storage order is not insertion order.
//
// Pointers returned by Add and Get stay valid until the next Add or Remove on
// the same store.
type Store[T any] struct {
	name     string
	world    *World
	values   []T
	owners   []EntityID
	index    map[EntityID]int
	onRemove func(EntityID, *T)
}

// NewStore creates a store for T owned by the world.
func NewStore[T any](w *World, name string) *Store[T] {
	s := &Store[T]{
		name:   name,
		world:  w,
		values: make([]T, 0, 16),
		owners: make([]EntityID, 0, 16),
		index:  make(map[EntityID]int, 16),
	}
	return s
}

func (s *Store[T]) Name() string { return s.name }

// OnRemove installs a hook called with the component just before it leaves
// the store, whether by Remove or by World.Kill.
func (s *Store[T]) OnRemove(fn func(EntityID, *T)) {
	s.onRemove = fn
}

func (s *Store[T]) Add(id EntityID, c T) (*T, error) {
	if !s.world.Alive(id) {
		return nil, fmt.Errorf("add %s to entity %d: %w", s.name, id, ErrNotAlive)
	}
	if _, ok := s.index[id]; ok {
		return nil, fmt.Errorf("add %s to entity %d: %w", s.name, id, ErrDuplicateComponent)
	}
	s.index[id] = len(s.values)
	s.values = append(s.values, c)
	s.owners = append(s.owners, id)
	s.world.registry.track(id, s)
	return &s.values[len(s.values)-1], nil
}

func (s *Store[T]) Get(id EntityID) (*T, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("get %s of entity %d: %w", s.name, id, ErrNoComponent)
	}
	return &s.values[i], nil
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.index[id]
	return ok
}

// Remove drops the entity's component. Missing components are ignored.
func (s *Store[T]) Remove(id EntityID) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	if s.onRemove != nil {
		s.onRemove(id, &s.values[i])
	}
	// the hook may have touched this store
	i, ok = s.index[id]
	if !ok {
		return
	}
	last := len(s.values) - 1
	if i != last {
		s.values[i] = s.values[last]
		s.owners[i] = s.owners[last]
		s.index[s.owners[i]] = i
	}
	var zero T
	s.values[last] = zero
	s.values = s.values[:last]
	s.owners = s.owners[:last]
	delete(s.index, id)
	s.world.registry.untrack(id, s)
}

func (s *Store[T]) Len() int {
	return len(s.values)
}

// Values exposes the dense components in storage order. The slice aliases the
// store and is invalidated by Add and Remove.
func (s *Store[T]) Values() []T { return s.values }

// Entities returns the owners parallel to Values.
func (s *Store[T]) Entities() []EntityID { return s.owners }

// Each calls fn for every component in storage order.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for i := range s.values {
		fn(s.owners[i], &s.values[i])
	}
}
