// Package render builds the control tree of the booking form from the service
// graph and keeps label and section visibility in sync with the selection.
package render

import (
	"strconv"

	"github.com/RoaringBitmap/roaring"
	"github.com/chis/servicebook/internal/catalog"
	"github.com/chis/servicebook/internal/logging"
	"github.com/chis/servicebook/internal/view"
	"github.com/chis/servicebook/internal/visibility"
)

// Renderer owns the rendered document of one form instance.
type Renderer struct {
	graph    *catalog.Graph
	log      *logging.Logger
	doc      *view.Document
	resolver *visibility.Resolver
}

// New creates a renderer for graph.
func New(graph *catalog.Graph, logger *logging.Logger) *Renderer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Renderer{graph: graph, log: logger.WithField("component", "render")}
}

// Render creates one labeled control per service inside the host containers
// described by sections, wires onChange to every control and applies the
// initial visibility. A service whose section is missing is logged and skipped.
func (r *Renderer) Render(sections []view.SectionSpec, onChange func(id int)) *view.Document {
	r.doc = view.NewDocument(sections)
	r.resolver = visibility.New(r.graph, r.doc, r.log)

	for _, svc := range r.graph.Services() {
		ctrl := controlFor(svc)
		ctrl.OnChange = onChange

		label := &view.Label{For: svc.ID, Text: svc.Name, Control: ctrl}
		if err := r.doc.Append(svc.Section, label); err != nil {
			r.log.Error("Service %d is attached to a container which does not exist: %v", svc.ID, err)
			continue
		}
	}

	// Visibility is applied after every control exists, so a dependency on a
	// later service resolves instead of being reported missing.
	for _, sec := range r.doc.Sections() {
		for _, label := range sec.Labels {
			visible, _ := r.resolver.Visible(label.For)
			label.Hidden = !visible
		}
	}

	for _, sec := range r.doc.Sections() {
		r.refreshSection(sec)
	}

	return r.doc
}

// Document returns the rendered document, nil before Render.
func (r *Renderer) Document() *view.Document {
	return r.doc
}

// Resolver returns the visibility resolver bound to the rendered document.
func (r *Renderer) Resolver() *visibility.Resolver {
	return r.resolver
}

// Refresh recomputes the visibility of service id and applies it to its label.
// An exclusive control forced hidden is unchecked. The containing section is
// re-evaluated afterwards.
func (r *Renderer) Refresh(id int) {
	if r.doc == nil {
		r.log.Error("Refresh of service %d before render", id)
		return
	}

	label, err := r.doc.Label(id)
	if err != nil {
		r.log.Error("Service %d does not exist in the form: %v", id, err)
		return
	}
	sec, err := r.doc.Parent(id)
	if err != nil {
		r.log.Error("Parent element of service %d does not exist: %v", id, err)
		return
	}

	visible, _ := r.resolver.Visible(id)
	label.Hidden = !visible

	if !visible && label.Control.Kind == view.Radio && label.Control.Checked {
		if _, err := r.doc.SetChecked(id, false); err != nil {
			r.log.Error("Cannot clear hidden choice %d: %v", id, err)
		}
	}

	r.refreshSection(sec)
}

// RefreshAll refreshes every rendered service in id order.
func (r *Renderer) RefreshAll() {
	for id := 0; id < r.graph.Len(); id++ {
		// Services skipped at render time were already reported there.
		if r.Has(id) {
			r.Refresh(id)
		}
	}
}

// Has reports whether service id has a control in the document.
func (r *Renderer) Has(id int) bool {
	if r.doc == nil {
		return false
	}
	_, err := r.doc.Label(id)
	return err == nil
}

// Checked returns the ids of checked controls.
func (r *Renderer) Checked() *roaring.Bitmap {
	return r.doc.Snapshot()
}

// Hidden returns the ids of hidden labels.
func (r *Renderer) Hidden() *roaring.Bitmap {
	return r.doc.HiddenLabels()
}

// refreshSection hides a section when none of its services is visible.
func (r *Renderer) refreshSection(sec *view.Section) {
	visibleCount := 0
	for _, label := range sec.Labels {
		if visible, _ := r.resolver.Visible(label.For); visible {
			visibleCount++
		}
	}
	sec.Hidden = visibleCount == 0
}

// controlFor picks the native control for the service variant.
func controlFor(svc catalog.Service) *view.Control {
	switch svc.Kind() {
	case catalog.KindExclusive:
		return &view.Control{ID: svc.ID, Kind: view.Radio, Name: svc.Group}
	default:
		return &view.Control{ID: svc.ID, Kind: view.Checkbox, Name: strconv.Itoa(svc.ID)}
	}
}
