package catalog

// Colour states for the depth-first search.
const (
	white = iota // unvisited
	grey         // on the current path
	black        // fully processed
)

// HasCycles checks if the graph contains any circular dependencies.
// A graph returned by NewGraph never does; the check is exposed for the
// validate command and tests.
func (g *Graph) HasCycles() bool {
	return g.FindCycle() != nil
}

// FindCycle returns one dependency cycle as a path of ids, first id repeated
// at the end, or nil if the graph is acyclic. Dangling dependencies are ignored.
func (g *Graph) FindCycle() []int {
	color := make([]int, len(g.services))
	parent := make([]int, len(g.services))
	for i := range parent {
		parent[i] = -1
	}

	for id := range g.services {
		if color[id] == white {
			if path := g.findCycleDFS(id, color, parent); path != nil {
				return path
			}
		}
	}
	return nil
}

func (g *Graph) findCycleDFS(id int, color, parent []int) []int {
	color[id] = grey

	for _, depID := range g.services[id].Dependencies {
		if depID < 0 || depID >= len(g.services) {
			continue
		}

		if color[depID] == grey {
			// Walk back from id to depID to rebuild the path
			path := []int{depID}
			for current := id; current != depID && current != -1; current = parent[current] {
				path = append([]int{current}, path...)
			}
			return append([]int{depID}, path...)
		}

		if color[depID] == white {
			parent[depID] = id
			if cycle := g.findCycleDFS(depID, color, parent); cycle != nil {
				return cycle
			}
		}
	}

	color[id] = black
	return nil
}
