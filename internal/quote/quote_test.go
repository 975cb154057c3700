package quote

import (
	"errors"
	"strings"
	"testing"

	"github.com/chis/servicebook/internal/catalog"
	"github.com/chis/servicebook/internal/logging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeForm struct {
	visible  map[int]bool
	selected map[int]bool
	missing  map[int]bool
}

func (f fakeForm) Visible(id int) (bool, error) { return f.visible[id], nil }

func (f fakeForm) Selected(id int) (bool, error) {
	if f.missing[id] {
		return false, errors.New("no control")
	}
	return f.selected[id], nil
}

func abGraph(t *testing.T) *catalog.Graph {
	t.Helper()
	g, err := catalog.NewGraph([]catalog.Service{
		{ID: 0, Name: "A", Cost: 100, Section: "main"},
		{ID: 1, Name: "B", Cost: 50, Section: "main", Dependencies: []int{0}},
	})
	require.NoError(t, err)
	return g
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name      string
		form      fakeForm
		wantTotal int
		wantIDs   []int
	}{
		{
			name:      "nothing selected",
			form:      fakeForm{visible: map[int]bool{0: true}},
			wantTotal: 0,
		},
		{
			name:      "visible and selected",
			form:      fakeForm{visible: map[int]bool{0: true, 1: true}, selected: map[int]bool{0: true, 1: true}},
			wantTotal: 150,
			wantIDs:   []int{0, 1},
		},
		{
			// B was selected, then A deselected which hid B.
			name:      "hidden but checked does not count",
			form:      fakeForm{visible: map[int]bool{0: true}, selected: map[int]bool{1: true}},
			wantTotal: 0,
		},
		{
			name:      "missing control is skipped",
			form:      fakeForm{visible: map[int]bool{0: true, 1: true}, selected: map[int]bool{1: true}, missing: map[int]bool{0: true}},
			wantTotal: 50,
			wantIDs:   []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCalculator(abGraph(t), tt.form, tt.form, "zł", logging.Discard())
			total, lines := c.Total()

			assert.Equal(t, tt.wantTotal, total)
			var ids []int
			for _, l := range lines {
				ids = append(ids, l.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestSubmitPolicy(t *testing.T) {
	form := fakeForm{visible: map[int]bool{0: true}, selected: map[int]bool{0: true}}

	tests := []struct {
		name  string
		input Input
		ok    bool
	}{
		{"valid", Input{Name: "Jan", Date: "2024-05-01"}, true},
		{"name too short", Input{Name: "Jo", Date: "2024-05-01"}, false},
		{"name padded with spaces", Input{Name: "  Jo  ", Date: "2024-05-01"}, false},
		{"empty date", Input{Name: "Anna", Date: ""}, false},
		{"both missing", Input{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCalculator(abGraph(t), form, form, "zł", logging.Discard())
			q, err := c.Submit(tt.input)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrIncompleteInput)
				assert.Nil(t, q)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 100, q.Total)
			assert.Equal(t, "zł", q.Currency)
			assert.NotEqual(t, uuid.Nil, q.Reference)
		})
	}
}

func TestSubmitReportsFields(t *testing.T) {
	c := NewCalculator(abGraph(t), fakeForm{}, fakeForm{}, "", logging.Discard())

	_, err := c.Submit(Input{Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name (min)")
	assert.Contains(t, err.Error(), "Date (required)")
}

func TestRender(t *testing.T) {
	q := &Quote{Name: "Jan", Date: "2024-05-01", Total: 150, Currency: "zł"}

	out, err := q.Render("")
	require.NoError(t, err)
	assert.Equal(t, "Name: Jan\nVisit date: 2024-05-01\nEstimate: 150zł", out)

	out, err = q.Render(`{{ .Name | upper }} {{ .Total }}`)
	require.NoError(t, err)
	assert.Equal(t, "JAN 150", out)

	_, err = q.Render("{{ .Nope")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to parse display template"))
}
