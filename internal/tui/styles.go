package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/chis/servicebook/internal/view"
)

// Shared color scheme
var (
	ColorSuccess = lipgloss.Color("42")  // Green
	ColorWarning = lipgloss.Color("226") // Yellow
	ColorError   = lipgloss.Color("196") // Red
	ColorInfo    = lipgloss.Color("39")  // Blue
	ColorMuted   = lipgloss.Color("240") // Gray

	ColorSelected   = lipgloss.Color("212") // Pink
	ColorUnselected = lipgloss.Color("250") // Light gray
	ColorBorder     = lipgloss.Color("240") // Gray
	ColorFocus      = lipgloss.Color("212") // Pink
	ColorTitle      = lipgloss.Color("212") // Pink
)

// Shared styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorTitle).
			MarginBottom(1)

	BadgeStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true)

	SuccessBadge = BadgeStyle.
			Background(ColorSuccess).
			Foreground(lipgloss.Color("0"))

	ErrorBadge = BadgeStyle.
			Background(ColorError).
			Foreground(lipgloss.Color("255"))

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(ColorSelected).
				Bold(true)

	UnselectedItemStyle = lipgloss.NewStyle().
				Foreground(ColorUnselected)

	// Section boxes
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	FocusedBoxStyle = BoxStyle.
			BorderForeground(ColorFocus)

	SectionTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorInfo)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1)
)

// formatControl renders the marker of a control: a box for checkboxes and
// a round marker for radios.
func formatControl(ctrl *view.Control) string {
	switch {
	case ctrl.Kind == view.Radio && ctrl.Checked:
		return "(•)"
	case ctrl.Kind == view.Radio:
		return "( )"
	case ctrl.Checked:
		return "[✓]"
	default:
		return "[ ]"
	}
}

// formatServiceLine formats one service row
func formatServiceLine(label *view.Label, cost int, currency string, isCursor bool) string {
	style := UnselectedItemStyle
	if label.Control.Checked {
		style = SelectedItemStyle
	}

	line := fmt.Sprintf("%s %s", formatControl(label.Control), label.Text)
	if cost > 0 {
		line += MutedStyle.Render(fmt.Sprintf(" %d%s", cost, currency))
	}

	if isCursor {
		return "> " + style.Render(line)
	}
	return "  " + style.Render(line)
}

// formatHelpLine formats a help line showing keybindings
func formatHelpLine(keys, description string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(ColorInfo).
		Bold(true)

	return fmt.Sprintf("%s %s", keyStyle.Render(keys), MutedStyle.Render(description))
}

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// formatHelp formats multiple keybindings as a help footer
func formatHelp(bindings []KeyBinding) string {
	lines := make([]string, len(bindings))
	for i, binding := range bindings {
		lines[i] = formatHelpLine(binding.Key, binding.Description)
	}
	return HelpStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
