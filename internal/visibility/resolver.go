// Package visibility decides which services of the form are shown.
package visibility

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring"
	"github.com/chis/servicebook/internal/catalog"
	"github.com/chis/servicebook/internal/logging"
)

// SelectionSource answers "is this service selected" from wherever selection
// state lives. The rendered view.Document is the production source.
type SelectionSource interface {
	Selected(id int) (bool, error)
}

// DanglingDependencyError reports a dependency whose control cannot be found.
type DanglingDependencyError struct {
	ServiceID    int
	DependencyID int
	Err          error
}

func (e *DanglingDependencyError) Error() string {
	return fmt.Sprintf("service %d depends on service %d which does not exist: %v", e.ServiceID, e.DependencyID, e.Err)
}

func (e *DanglingDependencyError) Unwrap() error { return e.Err }

// Resolver computes visibility. It keeps no state between calls, so every
// answer reflects the selection at the time of the call.
type Resolver struct {
	graph     *catalog.Graph
	selection SelectionSource
	log       *logging.Logger
}

// New creates a resolver over graph reading selection from sel.
func New(graph *catalog.Graph, sel SelectionSource, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{graph: graph, selection: sel, log: logger}
}

// Visible reports whether service id should be shown: it has no dependencies,
// or at least one dependency is selected.
//
// Dependencies whose control is missing count as unselected. Each one is
// logged and returned joined in err; the boolean is valid regardless.
func (r *Resolver) Visible(id int) (bool, error) {
	svc, err := r.graph.ByID(id)
	if err != nil {
		r.log.Error("Cannot resolve visibility: %v", err)
		return false, err
	}

	if svc.IsRoot() {
		return true, nil
	}

	var errs []error
	for _, depID := range svc.Dependencies {
		selected, err := r.selection.Selected(depID)
		if err != nil {
			dangling := &DanglingDependencyError{ServiceID: svc.ID, DependencyID: depID, Err: err}
			r.log.Error("%v", dangling)
			errs = append(errs, dangling)
			continue
		}
		if selected {
			return true, errors.Join(errs...)
		}
	}

	return false, errors.Join(errs...)
}

// VisibleSet evaluates every service and returns the visible ids.
func (r *Resolver) VisibleSet() *roaring.Bitmap {
	bm := roaring.New()
	for id := 0; id < r.graph.Len(); id++ {
		if visible, _ := r.Visible(id); visible {
			bm.Add(uint32(id))
		}
	}
	return bm
}
