package ecs

// Each2 iterates over entities that have both component A and B, in the
// storage order of sa.
func Each2[A, B any](sa *Store[A], sb *Store[B], fn func(EntityID, *A, *B)) {
	for i := 0; i < len(sa.values); i++ {
		id := sa.owners[i]
		j, ok := sb.index[id]
		if !ok {
			continue
		}
		fn(id, &sa.values[i], &sb.values[j])
	}
}
