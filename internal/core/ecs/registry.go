package ecs

// Registry tracks which component stores each entity was added to, so an
// entity can be cleared from exactly those stores on destroy.
type Registry struct {
	members map[EntityID][]Removable
}

func NewRegistry() *Registry {
	return &Registry{
		members: make(map[EntityID][]Removable, 64),
	}
}

func (r *Registry) track(id EntityID, store Removable) {
	r.members[id] = append(r.members[id], store)
}

func (r *Registry) untrack(id EntityID, store Removable) {
	list := r.members[id]
	for i, s := range list {
		if s == store {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(r.members, id)
		return
	}
	r.members[id] = list
}

// RemoveAll clears the given entity from every store it holds a component in,
// in the order the components were added.
func (r *Registry) RemoveAll(id EntityID) {
	list := r.members[id]
	delete(r.members, id)
	for _, s := range list {
		s.Remove(id)
	}
}
