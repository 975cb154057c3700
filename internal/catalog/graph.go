// Package catalog holds the static service definitions of the booking form and
// the dependency graph between them.
package catalog

import (
	"fmt"
	"sort"
)

// Graph is the immutable dependency graph of the catalog services.
// Service ids double as slice indexes.
type Graph struct {
	services []Service

	// dependents stores the reverse edges.
	// Key: service id, Value: ids of services that list it as a dependency
	dependents map[int][]int

	dangling []Dangling
}

// NewGraph builds a graph from services listed in id order.
// It rejects non-dense ids, negative costs and dependency cycles. Dependencies
// on ids outside the list are kept and reported through Dangling.
func NewGraph(services []Service) (*Graph, error) {
	g := &Graph{
		services:   make([]Service, len(services)),
		dependents: make(map[int][]int, len(services)),
	}

	for i, svc := range services {
		if svc.ID != i {
			return nil, &InvalidServiceError{Position: i, Reason: fmt.Sprintf("id %d does not match its position", svc.ID)}
		}
		if svc.Cost < 0 {
			return nil, &InvalidServiceError{Position: i, Reason: fmt.Sprintf("negative cost %d", svc.Cost)}
		}
		if svc.Name == "" {
			return nil, &InvalidServiceError{Position: i, Reason: "empty name"}
		}

		svc.Dependencies = append([]int(nil), svc.Dependencies...)
		g.services[i] = svc
	}

	for _, svc := range g.services {
		for _, depID := range svc.Dependencies {
			if depID < 0 || depID >= len(g.services) {
				g.dangling = append(g.dangling, Dangling{ServiceID: svc.ID, DependencyID: depID})
				continue
			}
			// Edge: depID -> svc.ID (svc.ID depends on depID)
			if !containsInt(g.dependents[depID], svc.ID) {
				g.dependents[depID] = append(g.dependents[depID], svc.ID)
			}
		}
	}

	if cycle := g.FindCycle(); cycle != nil {
		return nil, &CycleError{Path: cycle}
	}

	return g, nil
}

// Len returns the number of services.
func (g *Graph) Len() int {
	return len(g.services)
}

// ByID returns the service with the given id.
func (g *Graph) ByID(id int) (Service, error) {
	if id < 0 || id >= len(g.services) {
		return Service{}, fmt.Errorf("%w: id %d", ErrUnknownService, id)
	}
	return g.services[id], nil
}

// Services returns the services in id order.
func (g *Graph) Services() []Service {
	out := make([]Service, len(g.services))
	copy(out, g.services)
	return out
}

// Dependents returns the ids of services that directly depend on id, in id order.
func (g *Graph) Dependents(id int) []int {
	return append([]int(nil), g.dependents[id]...)
}

// Dangling returns every dependency that points outside the catalog.
func (g *Graph) Dangling() []Dangling {
	return append([]Dangling(nil), g.dangling...)
}

// Sections returns the distinct section keys in order of first use.
func (g *Graph) Sections() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, svc := range g.services {
		if !seen[svc.Section] {
			seen[svc.Section] = true
			keys = append(keys, svc.Section)
		}
	}
	return keys
}

// Groups maps each exclusivity tag to its member ids.
func (g *Graph) Groups() map[string][]int {
	groups := make(map[string][]int)
	for _, svc := range g.services {
		if svc.Kind() == KindExclusive {
			groups[svc.Group] = append(groups[svc.Group], svc.ID)
		}
	}
	return groups
}

// Roots returns the ids of services without dependencies.
func (g *Graph) Roots() []int {
	var roots []int
	for _, svc := range g.services {
		if svc.IsRoot() {
			roots = append(roots, svc.ID)
		}
	}
	sort.Ints(roots)
	return roots
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
