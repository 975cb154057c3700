package view

import "fmt"

// MissingElementError reports a section, label or control the caller expected
// in the document but that was never rendered.
type MissingElementError struct {
	Element  string
	Selector string
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("missing %s element %s", e.Element, e.Selector)
}
