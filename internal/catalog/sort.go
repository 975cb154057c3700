package catalog

// TopologicalOrder returns service ids in dependency order using Kahn's algorithm:
// prerequisites come before the services that depend on them. Ties keep id order,
// so the result is stable for a given catalog.
func (g *Graph) TopologicalOrder() []int {
	inDegree := make([]int, len(g.services))
	for _, svc := range g.services {
		seen := make(map[int]bool, len(svc.Dependencies))
		for _, depID := range svc.Dependencies {
			// Dangling dependencies never resolve, so they do not hold a node back.
			// Duplicates count once, matching the deduplicated reverse edges.
			if depID >= 0 && depID < len(g.services) && !seen[depID] {
				seen[depID] = true
				inDegree[svc.ID]++
			}
		}
	}

	queue := []int{}
	for id, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	sorted := make([]int, 0, len(g.services))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, current)

		for _, dependent := range g.dependents[current] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	return sorted
}
