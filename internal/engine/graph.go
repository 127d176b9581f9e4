package engine

import "golang.org/x/exp/maps"

// validateEdit implements Phase 1 of the edit protocol (spec.md §4.5): it
// rejects a prospective new referenced set refs for the cell at p without
// mutating any state. Self-reference and general cycles are both cast as
// the same reachability question (a self-reference is just the
// zero-length case of "p is reachable from q").
func validateEdit(store CellStore, p Position, refs []Position) error {
	for _, q := range refs {
		if !q.IsValid() {
			return ErrInvalidFormula
		}
	}
	for _, q := range refs {
		if reaches(store, q, p) {
			return ErrCircularDependency
		}
	}
	return nil
}

// reaches reports whether target is reachable from start by following
// existing forward (referenced) edges, start included. It visits each
// cell at most once; the current graph is acyclic (invariant P2), so the
// visited set is a safety net rather than a strict requirement.
func reaches(store CellStore, start, target Position) bool {
	visited := make(map[Position]struct{})
	var visit func(cur Position) bool
	visit = func(cur Position) bool {
		if cur == target {
			return true
		}
		if _, seen := visited[cur]; seen {
			return false
		}
		visited[cur] = struct{}{}
		cell, ok := store.Get(cur)
		if !ok {
			return false
		}
		for ref := range cell.referenced {
			if visit(ref) {
				return true
			}
		}
		return false
	}
	return visit(start)
}

// commitEdges implements Phase 2: it rewires p's forward/reverse edges to
// match newRefs, materializing any referenced position not yet present in
// the store as an Empty cell. Materializing a new cell here never runs
// Phase 3 for it: a brand new cell has no cached value and no dependents
// to invalidate.
func commitEdges(store CellStore, p Position, newRefs []Position) {
	self, ok := store.Get(p)
	if !ok {
		return
	}

	for q := range self.referenced {
		if neighbor, ok := store.Get(q); ok {
			delete(neighbor.dependents, p)
		}
	}

	maps.Clear(self.referenced)
	for _, q := range newRefs {
		neighbor := store.GetOrCreate(q)
		neighbor.dependents[p] = struct{}{}
		self.referenced[q] = struct{}{}
	}
}

// invalidateCache implements Phase 3: it clears p's own cached value, then
// clears cached_value on every cell transitively reachable via dependents
// (reverse) edges, visiting each cell at most once so the traversal
// terminates even under repeated paths.
func invalidateCache(store CellStore, p Position) {
	self, ok := store.Get(p)
	if !ok {
		return
	}
	self.cachedValue = nil

	visited := map[Position]struct{}{p: {}}
	queue := make([]Position, 0, len(self.dependents))
	for d := range self.dependents {
		queue = append(queue, d)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if _, seen := visited[cur]; seen {
			continue
		}
		visited[cur] = struct{}{}
		cell, ok := store.Get(cur)
		if !ok {
			continue
		}
		cell.cachedValue = nil
		for d := range cell.dependents {
			if _, seen := visited[d]; !seen {
				queue = append(queue, d)
			}
		}
	}
}
