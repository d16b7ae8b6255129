package ecs

import (
	"errors"
	"fmt"
)

var (
	ErrNotAlive           = errors.New("entity is not alive")
	ErrNoComponent        = errors.New("entity has no such component")
	ErrDuplicateComponent = errors.New("entity already has this component")
)

// World is the top-level ECS container. It owns the entity pool, the component
// registry, and a deferred destruction queue flushed by CleanupSystem each tick.
type World struct {
	pool         *EntityPool
	registry     *Registry
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 16),
	}
}

func (w *World) Pool() *EntityPool { return w.pool }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Kill removes the entity's components from every store it was added to and
// then recycles its id.
func (w *World) Kill(id EntityID) error {
	if !w.pool.Alive(id) {
		return fmt.Errorf("kill entity %d: %w", id, ErrNotAlive)
	}
	w.registry.RemoveAll(id)
	w.pool.Destroy(id)
	return nil
}

// MarkForDestruction queues an entity for end-of-tick cleanup.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// FlushDestroyQueue kills all queued entities that are still alive and
// returns the ones it killed. Called by CleanupSystem at the end of each tick.
func (w *World) FlushDestroyQueue() []EntityID {
	if len(w.destroyQueue) == 0 {
		return nil
	}
	killed := make([]EntityID, 0, len(w.destroyQueue))
	for _, id := range w.destroyQueue {
		if w.Kill(id) == nil {
			killed = append(killed, id)
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
	return killed
}
