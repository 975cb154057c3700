package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownService is returned when a service id is outside the catalog.
var ErrUnknownService = errors.New("unknown service")

// CycleError reports a dependency cycle found while building a graph.
type CycleError struct {
	Path []int
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "dependency cycle: " + strings.Join(parts, " -> ")
}

// InvalidServiceError reports a service definition the graph cannot accept.
type InvalidServiceError struct {
	Position int
	Reason   string
}

func (e *InvalidServiceError) Error() string {
	return fmt.Sprintf("service at position %d: %s", e.Position, e.Reason)
}
