// Package view is the rendered control tree of the booking form. It plays the
// role a DOM plays in a browser: sections contain labels, labels contain one
// input control each, and the controls are the only place selection state lives.
package view

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

// ControlKind selects the native behaviour of a control.
type ControlKind int

const (
	// Checkbox controls toggle independently.
	Checkbox ControlKind = iota
	// Radio controls sharing a name are mutually exclusive.
	Radio
)

// Control is one input element.
type Control struct {
	ID      int
	Kind    ControlKind
	Name    string
	Checked bool

	// OnChange is invoked after a user interaction changes Checked.
	// Script-driven changes never invoke it.
	OnChange func(id int)
}

// Label wraps a control with its display text. Hidden is presentational only.
type Label struct {
	For     int
	Text    string
	Hidden  bool
	Control *Control
}

// Section is a host container. Hidden is presentational only.
type Section struct {
	Key    string
	Title  string
	Hidden bool
	Labels []*Label
}

// SectionSpec declares a container the host page provides.
type SectionSpec struct {
	Key   string
	Title string
}

// Document is the whole form tree.
type Document struct {
	sections  []*Section
	byKey     map[string]*Section
	labels    map[int]*Label
	sectionOf map[int]*Section
}

// NewDocument creates an empty document with one container per SectionSpec.
// Duplicate keys resolve to the first container, as a selector would.
func NewDocument(specs []SectionSpec) *Document {
	d := &Document{
		byKey:     make(map[string]*Section, len(specs)),
		labels:    make(map[int]*Label),
		sectionOf: make(map[int]*Section),
	}
	for _, spec := range specs {
		if _, exists := d.byKey[spec.Key]; exists {
			continue
		}
		sec := &Section{Key: spec.Key, Title: spec.Title}
		d.sections = append(d.sections, sec)
		d.byKey[spec.Key] = sec
	}
	return d
}

// Append adds a label to the section with the given key.
func (d *Document) Append(sectionKey string, label *Label) error {
	sec, err := d.Section(sectionKey)
	if err != nil {
		return err
	}
	if label.Control == nil {
		return fmt.Errorf("label for %d has no control", label.For)
	}
	if _, exists := d.labels[label.Control.ID]; exists {
		return fmt.Errorf("control %d already rendered", label.Control.ID)
	}

	sec.Labels = append(sec.Labels, label)
	d.labels[label.Control.ID] = label
	d.sectionOf[label.Control.ID] = sec
	return nil
}

// Sections returns the containers in declaration order.
func (d *Document) Sections() []*Section {
	return d.sections
}

// Section looks up a container by key.
func (d *Document) Section(key string) (*Section, error) {
	sec, ok := d.byKey[key]
	if !ok {
		return nil, &MissingElementError{Element: "section", Selector: "#" + key}
	}
	return sec, nil
}

// Label looks up the label wrapping control id.
func (d *Document) Label(id int) (*Label, error) {
	label, ok := d.labels[id]
	if !ok {
		return nil, &MissingElementError{Element: "label", Selector: fmt.Sprintf("[for='%d']", id)}
	}
	return label, nil
}

// Control looks up a control by id.
func (d *Document) Control(id int) (*Control, error) {
	label, ok := d.labels[id]
	if !ok {
		return nil, &MissingElementError{Element: "control", Selector: fmt.Sprintf("[id='%d']", id)}
	}
	return label.Control, nil
}

// Parent returns the section containing control id.
func (d *Document) Parent(id int) (*Section, error) {
	sec, ok := d.sectionOf[id]
	if !ok {
		return nil, &MissingElementError{Element: "parent", Selector: fmt.Sprintf("[id='%d']", id)}
	}
	return sec, nil
}

// Selected reports whether control id is checked.
func (d *Document) Selected(id int) (bool, error) {
	ctrl, err := d.Control(id)
	if err != nil {
		return false, err
	}
	return ctrl.Checked, nil
}

// Snapshot returns the ids of all checked controls.
func (d *Document) Snapshot() *roaring.Bitmap {
	bm := roaring.New()
	for id, label := range d.labels {
		if label.Control.Checked {
			bm.Add(uint32(id))
		}
	}
	return bm
}

// HiddenLabels returns the ids of all controls whose label is hidden.
func (d *Document) HiddenLabels() *roaring.Bitmap {
	bm := roaring.New()
	for id, label := range d.labels {
		if label.Hidden {
			bm.Add(uint32(id))
		}
	}
	return bm
}
