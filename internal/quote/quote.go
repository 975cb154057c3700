// Package quote prices the current selection and produces the result display.
package quote

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/chis/servicebook/internal/catalog"
	"github.com/chis/servicebook/internal/logging"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DefaultTemplate prints the three lines of the result display.
const DefaultTemplate = "Name: {{ .Name }}\nVisit date: {{ .Date }}\nEstimate: {{ .Total }}{{ .Currency }}"

// ErrIncompleteInput is returned by Submit when the name or date is missing.
var ErrIncompleteInput = errors.New("incomplete booking input")

// VisibilitySource answers whether a service is currently shown.
type VisibilitySource interface {
	Visible(id int) (bool, error)
}

// SelectionSource answers whether a service's control is checked.
type SelectionSource interface {
	Selected(id int) (bool, error)
}

// Input holds the two free-text fields of the form.
type Input struct {
	Name string `validate:"min=3"`
	Date string `validate:"required"`
}

// LineItem is one priced service.
type LineItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Cost int    `json:"cost"`
}

// Quote is the outcome of a valid submission.
type Quote struct {
	Reference uuid.UUID  `json:"reference"`
	Name      string     `json:"name"`
	Date      string     `json:"date"`
	Total     int        `json:"total"`
	Currency  string     `json:"currency"`
	Lines     []LineItem `json:"lines"`
	CreatedAt time.Time  `json:"created_at"`
}

// Calculator sums the cost of visible and selected services.
type Calculator struct {
	graph     *catalog.Graph
	visible   VisibilitySource
	selection SelectionSource
	currency  string
	validate  *validator.Validate
	log       *logging.Logger
}

// NewCalculator creates a calculator. Visibility is always asked from vis at
// calculation time; the checked flag alone never counts.
func NewCalculator(graph *catalog.Graph, vis VisibilitySource, sel SelectionSource, currency string, logger *logging.Logger) *Calculator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Calculator{
		graph:     graph,
		visible:   vis,
		selection: sel,
		currency:  currency,
		validate:  validator.New(),
		log:       logger.WithField("component", "quote"),
	}
}

// Total returns the sum and the services that make it up, in id order.
func (c *Calculator) Total() (int, []LineItem) {
	total := 0
	var lines []LineItem

	for _, svc := range c.graph.Services() {
		if visible, _ := c.visible.Visible(svc.ID); !visible {
			continue
		}
		selected, err := c.selection.Selected(svc.ID)
		if err != nil {
			// Skipped at render time and already reported there.
			c.log.Debug("Service %d not priced: %v", svc.ID, err)
			continue
		}
		if !selected {
			continue
		}
		total += svc.Cost
		lines = append(lines, LineItem{ID: svc.ID, Name: svc.Name, Cost: svc.Cost})
	}

	return total, lines
}

// Submit prices the selection for in. The name is trimmed before checking;
// a name of fewer than three characters or an empty date yields
// ErrIncompleteInput and no quote.
func (c *Calculator) Submit(in Input) (*Quote, error) {
	checked := Input{Name: strings.TrimSpace(in.Name), Date: in.Date}
	if err := c.validate.Struct(checked); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return nil, fmt.Errorf("%w: %s", ErrIncompleteInput, strings.Join(fields, ", "))
		}
		return nil, fmt.Errorf("%w: %v", ErrIncompleteInput, err)
	}

	total, lines := c.Total()
	q := &Quote{
		Reference: uuid.New(),
		Name:      in.Name,
		Date:      in.Date,
		Total:     total,
		Currency:  c.currency,
		Lines:     lines,
		CreatedAt: time.Now(),
	}
	c.log.Info("Quote %s: %d%s for %d service(s)", q.Reference, total, c.currency, len(lines))
	return q, nil
}

// Render executes tmpl against the quote. An empty tmpl uses DefaultTemplate.
func (q *Quote) Render(tmpl string) (string, error) {
	if tmpl == "" {
		tmpl = DefaultTemplate
	}
	t, err := template.New("display").Funcs(sprig.TxtFuncMap()).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse display template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, q); err != nil {
		return "", fmt.Errorf("failed to render display: %w", err)
	}
	return buf.String(), nil
}
