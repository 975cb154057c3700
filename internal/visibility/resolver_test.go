package visibility

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/chis/servicebook/internal/catalog"
	"github.com/chis/servicebook/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSelection is an in-memory SelectionSource; ids outside known are missing.
type fakeSelection struct {
	known    map[int]bool
	selected map[int]bool
}

func (f fakeSelection) Selected(id int) (bool, error) {
	if !f.known[id] {
		return false, fmt.Errorf("no control %d", id)
	}
	return f.selected[id], nil
}

func graphOf(t *testing.T, deps ...[]int) *catalog.Graph {
	t.Helper()
	services := make([]catalog.Service, len(deps))
	for i, d := range deps {
		services[i] = catalog.Service{ID: i, Name: fmt.Sprintf("s%d", i), Section: "main", Dependencies: d}
	}
	g, err := catalog.NewGraph(services)
	require.NoError(t, err)
	return g
}

func allKnown(n int, selected ...int) fakeSelection {
	f := fakeSelection{known: map[int]bool{}, selected: map[int]bool{}}
	for i := 0; i < n; i++ {
		f.known[i] = true
	}
	for _, id := range selected {
		f.selected[id] = true
	}
	return f
}

func TestRootIsAlwaysVisible(t *testing.T) {
	g := graphOf(t, nil, []int{0})

	for _, sel := range []fakeSelection{allKnown(2), allKnown(2, 0), allKnown(2, 0, 1)} {
		r := New(g, sel, logging.Discard())
		visible, err := r.Visible(0)
		assert.NoError(t, err)
		assert.True(t, visible)
	}
}

func TestAnyDependencySatisfies(t *testing.T) {
	// 2 depends on 0 OR 1
	g := graphOf(t, nil, nil, []int{0, 1})

	tests := []struct {
		name     string
		selected []int
		visible  bool
	}{
		{"none selected", nil, false},
		{"first selected", []int{0}, true},
		{"second selected", []int{1}, true},
		{"both selected", []int{0, 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(g, allKnown(3, tt.selected...), logging.Discard())
			visible, err := r.Visible(2)
			assert.NoError(t, err)
			assert.Equal(t, tt.visible, visible)
		})
	}
}

func TestMissingDependencyControl(t *testing.T) {
	// 2 depends on 0 and 1; the control of 0 was never rendered.
	g := graphOf(t, nil, nil, []int{0, 1})
	sel := allKnown(3, 1)
	delete(sel.known, 0)

	var buf bytes.Buffer
	r := New(g, sel, logging.NewWithWriter(&buf, logging.LevelDebug, false))

	visible, err := r.Visible(2)
	assert.True(t, visible, "a missing dependency must not hide a service whose other dependency is met")

	var dangling *DanglingDependencyError
	require.True(t, errors.As(err, &dangling))
	assert.Equal(t, 2, dangling.ServiceID)
	assert.Equal(t, 0, dangling.DependencyID)
	assert.Contains(t, buf.String(), "depends on service 0 which does not exist")
}

func TestDanglingDependencyOutsideCatalog(t *testing.T) {
	g := graphOf(t, nil, []int{99})

	r := New(g, allKnown(2, 0), logging.Discard())
	visible, err := r.Visible(1)

	assert.False(t, visible)
	var dangling *DanglingDependencyError
	assert.True(t, errors.As(err, &dangling))
}

func TestUnknownService(t *testing.T) {
	g := graphOf(t, nil)
	r := New(g, allKnown(1), logging.Discard())

	visible, err := r.Visible(5)
	assert.False(t, visible)
	assert.ErrorIs(t, err, catalog.ErrUnknownService)
}

func TestVisibleSet(t *testing.T) {
	g := graphOf(t, nil, []int{0}, nil, []int{2})
	r := New(g, allKnown(4, 2), logging.Discard())

	assert.Equal(t, []uint32{0, 2, 3}, r.VisibleSet().ToArray())
}

func TestResolverHasNoMemory(t *testing.T) {
	g := graphOf(t, nil, []int{0})
	sel := allKnown(2)
	r := New(g, sel, logging.Discard())

	visible, _ := r.Visible(1)
	assert.False(t, visible)

	sel.selected[0] = true
	visible, _ = r.Visible(1)
	assert.True(t, visible)

	sel.selected[0] = false
	visible, _ = r.Visible(1)
	assert.False(t, visible)
}
