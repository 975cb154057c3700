// Package propagate ripples a selection change to the services that depend on it.
package propagate

import (
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring"
	"github.com/chis/servicebook/internal/catalog"
	"github.com/chis/servicebook/internal/logging"
)

// Mode selects how far a change is propagated.
type Mode string

const (
	// ModeShallow refreshes direct dependents only.
	ModeShallow Mode = "shallow"
	// ModeFixedPoint keeps refreshing until nothing changes.
	ModeFixedPoint Mode = "fixed-point"
)

// ParseMode parses a mode name. Empty means fixed-point.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeFixedPoint:
		return ModeFixedPoint, nil
	case ModeShallow:
		return ModeShallow, nil
	default:
		return "", fmt.Errorf("unknown propagation mode %q (want %s or %s)", s, ModeShallow, ModeFixedPoint)
	}
}

// Surface is the rendered form the propagator drives.
type Surface interface {
	// Has reports whether service id was rendered.
	Has(id int) bool
	// Refresh recomputes and applies the visibility of one service.
	Refresh(id int)
	// Checked returns the ids of checked controls.
	Checked() *roaring.Bitmap
	// Hidden returns the ids of hidden labels.
	Hidden() *roaring.Bitmap
}

// Propagator reacts to control changes.
type Propagator struct {
	graph   *catalog.Graph
	surface Surface
	mode    Mode
	log     *logging.Logger
}

// New creates a propagator. The surface may be attached later with Attach,
// since the surface usually needs the propagator's handler to render.
func New(graph *catalog.Graph, surface Surface, mode Mode, logger *logging.Logger) *Propagator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Propagator{
		graph:   graph,
		surface: surface,
		mode:    mode,
		log:     logger.WithField("component", "propagate"),
	}
}

// Attach sets the surface to drive.
func (p *Propagator) Attach(surface Surface) {
	p.surface = surface
}

// Mode returns the configured mode.
func (p *Propagator) Mode() Mode {
	return p.mode
}

// Changed handles a change of service id's control: every direct dependent is
// refreshed. In fixed-point mode the whole form is then settled.
func (p *Propagator) Changed(id int) {
	if p.surface == nil {
		p.log.Error("Change of service %d with no surface attached", id)
		return
	}

	for _, dependent := range p.graph.Dependents(id) {
		p.surface.Refresh(dependent)
	}

	if p.mode == ModeFixedPoint {
		p.Settle()
	}
}

// Settle refreshes every service in dependency order until neither the set of
// checked controls nor the set of hidden labels changes. An acyclic graph
// settles within one pass per service; the bound only guards the loop.
func (p *Propagator) Settle() int {
	order := p.graph.TopologicalOrder()
	maxPasses := p.graph.Len() + 1

	for pass := 1; pass <= maxPasses; pass++ {
		checkedBefore := p.surface.Checked()
		hiddenBefore := p.surface.Hidden()

		for _, id := range order {
			if p.surface.Has(id) {
				p.surface.Refresh(id)
			}
		}

		if checkedBefore.Equals(p.surface.Checked()) && hiddenBefore.Equals(p.surface.Hidden()) {
			p.log.Debug("Settled after %d pass(es)", pass)
			return pass
		}
	}

	p.log.Warn("Form did not settle after %d passes", maxPasses)
	return maxPasses
}
