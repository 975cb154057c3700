// Package booking wires the service graph, the rendered form and the quote
// calculator into one booking form with user-facing entry points.
package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chis/servicebook/internal/catalog"
	"github.com/chis/servicebook/internal/events"
	"github.com/chis/servicebook/internal/logging"
	"github.com/chis/servicebook/internal/propagate"
	"github.com/chis/servicebook/internal/quote"
	"github.com/chis/servicebook/internal/render"
	"github.com/chis/servicebook/internal/view"
	"github.com/google/uuid"
)

// ErrNotInteractable is returned for a click on a hidden control.
var ErrNotInteractable = errors.New("control is not interactable")

// Options configures a form.
type Options struct {
	// Catalog defaults to the built-in catalog.
	Catalog *catalog.Catalog
	// Mode defaults to fixed-point propagation.
	Mode   propagate.Mode
	Logger *logging.Logger
	// Bus receives form events when set.
	Bus *events.Bus
	// DisplayTemplate overrides the catalog's result display.
	DisplayTemplate string
}

// Form is one page load of the booking form.
type Form struct {
	mu sync.Mutex

	session  string
	ctx      context.Context
	catalog  *catalog.Catalog
	doc      *view.Document
	renderer *render.Renderer
	prop     *propagate.Propagator
	calc     *quote.Calculator
	bus      *events.Bus
	log      *logging.Logger
	template string
	display  string
}

// New renders a form for the catalog in opts.
func New(opts Options) (*Form, error) {
	cat := opts.Catalog
	if cat == nil {
		var err error
		if cat, err = catalog.Default(); err != nil {
			return nil, fmt.Errorf("failed to load built-in catalog: %w", err)
		}
	}

	mode, err := propagate.ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	tmpl := opts.DisplayTemplate
	if tmpl == "" {
		tmpl = cat.DisplayTemplate
	}

	session := uuid.NewString()
	f := &Form{
		session:  session,
		ctx:      logging.WithSessionID(context.Background(), session),
		catalog:  cat,
		bus:      opts.Bus,
		log:      logger,
		template: tmpl,
	}

	graph := cat.Graph
	for _, d := range graph.Dangling() {
		logger.Warn("Service %d depends on service %d which is not in the catalog", d.ServiceID, d.DependencyID)
	}

	f.prop = propagate.New(graph, nil, mode, logger)
	f.renderer = render.New(graph, logger)
	f.doc = f.renderer.Render(sectionSpecs(cat.Sections), f.changed)
	f.prop.Attach(f.renderer)
	f.calc = quote.NewCalculator(graph, f.renderer.Resolver(), f.doc, cat.Currency, logger)

	logger.InfoContext(f.ctx, "Form rendered with %d services in %d sections (%s propagation)",
		graph.Len(), len(cat.Sections), mode)
	return f, nil
}

// Toggle clicks the control of service id: a checkbox flips, a radio is
// chosen. Hidden controls are not interactable.
func (f *Form) Toggle(id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	label, err := f.doc.Label(id)
	if err != nil {
		return err
	}
	sec, err := f.doc.Parent(id)
	if err != nil {
		return err
	}
	if label.Hidden || sec.Hidden {
		return fmt.Errorf("service %d: %w", id, ErrNotInteractable)
	}

	_, err = f.doc.Click(id)
	return err
}

// changed is the change handler of every control. It runs inside Toggle.
func (f *Form) changed(id int) {
	checked, _ := f.doc.Selected(id)
	f.log.Debug("Service %d changed (checked=%t)", id, checked)
	f.prop.Changed(id)
	f.bus.Publish(events.ServiceChanged(f.session, id, checked))
}

// OnSubmit prices the current selection. The result display is cleared
// first and only filled when in passes the input policy.
func (f *Form) OnSubmit(in quote.Input) (*quote.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.display = ""

	q, err := f.calc.Submit(in)
	if err != nil {
		f.log.InfoContext(f.ctx, "Submission rejected: %v", err)
		f.bus.Publish(events.FormSubmitted(f.session, false, 0))
		return nil, err
	}

	text, err := q.Render(f.template)
	if err != nil {
		return nil, err
	}
	f.display = text
	f.bus.Publish(events.FormSubmitted(f.session, true, q.Total))
	return q, nil
}

// OnReset clears the display and every selection, then reapplies
// visibility to all services.
func (f *Form) OnReset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.display = ""
	f.doc.ClearAll()
	f.renderer.RefreshAll()
	f.log.InfoContext(f.ctx, "Form reset")
	f.bus.Publish(events.FormReset(f.session))
}

// Total returns the current price without submitting.
func (f *Form) Total() (int, []quote.LineItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calc.Total()
}

// Display returns the result display, empty when nothing was submitted.
func (f *Form) Display() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.display
}

// Document returns the rendered document. Callers must not mutate it
// concurrently with form methods.
func (f *Form) Document() *view.Document {
	return f.doc
}

// Catalog returns the catalog the form was rendered from.
func (f *Form) Catalog() *catalog.Catalog {
	return f.catalog
}

// Session returns the id of this page load.
func (f *Form) Session() string {
	return f.session
}

// Mode returns the propagation mode in use.
func (f *Form) Mode() propagate.Mode {
	return f.prop.Mode()
}

func sectionSpecs(defs []catalog.SectionDef) []view.SectionSpec {
	specs := make([]view.SectionSpec, len(defs))
	for i, d := range defs {
		specs[i] = view.SectionSpec{Key: d.Key, Title: d.Title}
	}
	return specs
}
