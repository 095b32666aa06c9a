package gdl

// invalidate drops the cached derivation for key and for every predicate
// that transitively requires it, per spec.md §4.2: defining a new fact or
// rule under key can change the answer any rule referencing key (directly
// or through a chain of other rules) would produce.
func (db *Database) invalidate(key PredicateKey) {
	visited := map[PredicateKey]bool{key: true}
	queue := []PredicateKey{key}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		delete(db.derived, cur)

		for dependent := range db.requirements[cur] {
			if !visited[dependent] {
				visited[dependent] = true
				queue = append(queue, dependent)
			}
		}
	}
}
