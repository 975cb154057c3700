package view

// Click performs a user click on control id: a checkbox flips, a radio becomes
// checked and its same-name siblings are cleared. The control's OnChange
// handler runs only if its own state changed; siblings cleared by the native
// grouping get no notification, as in a browser.
func (d *Document) Click(id int) (bool, error) {
	ctrl, err := d.Control(id)
	if err != nil {
		return false, err
	}

	var changed bool
	switch ctrl.Kind {
	case Radio:
		changed = !ctrl.Checked
		if changed {
			d.check(ctrl)
		}
	default:
		ctrl.Checked = !ctrl.Checked
		changed = true
	}

	if changed && ctrl.OnChange != nil {
		ctrl.OnChange(ctrl.ID)
	}
	return changed, nil
}

// SetChecked sets control id from script. Radio grouping still applies.
// It returns the ids whose checked state changed. No handler is invoked.
func (d *Document) SetChecked(id int, checked bool) ([]int, error) {
	ctrl, err := d.Control(id)
	if err != nil {
		return nil, err
	}
	if ctrl.Checked == checked {
		return nil, nil
	}
	if !checked {
		ctrl.Checked = false
		return []int{id}, nil
	}
	if ctrl.Kind == Radio {
		return d.check(ctrl), nil
	}
	ctrl.Checked = true
	return []int{id}, nil
}

// ClearAll unchecks every control without notifying handlers.
func (d *Document) ClearAll() {
	for _, label := range d.labels {
		label.Control.Checked = false
	}
}

// check marks a radio checked and clears its siblings, returning every
// id whose state changed.
func (d *Document) check(ctrl *Control) []int {
	changed := []int{ctrl.ID}
	for _, sec := range d.sections {
		for _, label := range sec.Labels {
			other := label.Control
			if other == ctrl || other.Kind != Radio || other.Name != ctrl.Name || !other.Checked {
				continue
			}
			other.Checked = false
			changed = append(changed, other.ID)
		}
	}
	ctrl.Checked = true
	return changed
}
