// Package tui hosts the booking form in the terminal.
package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chis/servicebook/internal/booking"
	"github.com/chis/servicebook/internal/events"
	"github.com/chis/servicebook/internal/logging"
	"github.com/chis/servicebook/internal/quote"
)

// logQueueSize bounds the log lines waiting for the diagnostics pane
const logQueueSize = 256

// focusArea is the part of the screen receiving keys
type focusArea int

const (
	focusServices focusArea = iota
	focusName
	focusDate
)

// EventMsg carries a form event from the bus into the program
type EventMsg struct {
	Event events.Event
}

// FormModel is the booking screen. All form logic lives in booking.Form;
// the model only routes keys and draws the document.
type FormModel struct {
	form   *booking.Form
	events events.Subscriber

	// UI state
	cursor    int   // position in visible
	visible   []int // ids of interactable services in document order
	focus     focusArea
	nameInput textinput.Model
	dateInput textinput.Model
	status    string
	error     string

	// Diagnostics
	logs    []LogMsg
	maxLogs int

	width  int
	height int
}

// NewFormModel creates the booking screen for form. sub may be nil.
func NewFormModel(form *booking.Form, sub events.Subscriber) FormModel {
	name := textinput.New()
	name.Placeholder = "Name"
	name.CharLimit = 64

	date := textinput.New()
	date.Placeholder = "YYYY-MM-DD"
	date.CharLimit = 32

	m := FormModel{
		form:      form,
		events:    sub,
		nameInput: name,
		dateInput: date,
		maxLogs:   8,
	}
	m.rebuildVisibleList()
	return m
}

// Init starts listening for form events
func (m FormModel) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// waitForEvent blocks on the next bus event. A closed channel ends the loop.
func waitForEvent(sub events.Subscriber) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-sub
		if !ok {
			return nil
		}
		return EventMsg{Event: e}
	}
}

// Update handles messages and updates the model
func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case EventMsg:
		m.status = describeEvent(msg.Event)
		return m, waitForEvent(m.events)

	case LogMsg:
		m.logs = append(m.logs, msg)
		if len(m.logs) > m.maxLogs {
			m.logs = m.logs[len(m.logs)-m.maxLogs:]
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input
func (m FormModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab":
		return m, m.setFocus((m.focus + 1) % 3)

	case "shift+tab":
		return m, m.setFocus((m.focus + 2) % 3)

	case "enter":
		m.submit()
		return m, nil

	case "ctrl+r":
		m.form.OnReset()
		m.nameInput.Reset()
		m.dateInput.Reset()
		m.error = ""
		m.rebuildVisibleList()
		return m, nil
	}

	if m.focus != focusServices {
		var cmd tea.Cmd
		if m.focus == focusName {
			m.nameInput, cmd = m.nameInput.Update(msg)
		} else {
			m.dateInput, cmd = m.dateInput.Update(msg)
		}
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

	case " ", "space":
		if len(m.visible) == 0 {
			return m, nil
		}
		id := m.visible[m.cursor]
		if err := m.form.Toggle(id); err != nil {
			m.error = err.Error()
		} else {
			m.error = ""
		}
		m.rebuildVisibleList()
	}

	return m, nil
}

// setFocus moves keyboard focus, blurring the inputs that lose it
func (m *FormModel) setFocus(area focusArea) tea.Cmd {
	m.focus = area
	m.nameInput.Blur()
	m.dateInput.Blur()

	switch area {
	case focusName:
		return m.nameInput.Focus()
	case focusDate:
		return m.dateInput.Focus()
	}
	return nil
}

// submit hands the inputs to the form
func (m *FormModel) submit() {
	_, err := m.form.OnSubmit(quote.Input{Name: m.nameInput.Value(), Date: m.dateInput.Value()})
	switch {
	case errors.Is(err, quote.ErrIncompleteInput):
		m.error = "Enter a name of at least 3 characters and a visit date"
	case err != nil:
		m.error = err.Error()
	default:
		m.error = ""
	}
}

// rebuildVisibleList collects the services that can be interacted with and
// keeps the cursor in range
func (m *FormModel) rebuildVisibleList() {
	visible := make([]int, 0)
	for _, sec := range m.form.Document().Sections() {
		if sec.Hidden {
			continue
		}
		for _, label := range sec.Labels {
			if !label.Hidden {
				visible = append(visible, label.For)
			}
		}
	}
	m.visible = visible

	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the booking screen
func (m FormModel) View() string {
	var sections []string

	sections = append(sections, TitleStyle.Render("Car Service Booking"))
	sections = append(sections, m.renderServices())
	sections = append(sections, m.renderInputs())

	total, lines := m.form.Total()
	sections = append(sections, lipgloss.NewStyle().
		Foreground(ColorInfo).
		MarginTop(1).
		Render(fmt.Sprintf("Current estimate: %d%s (%d services)", total, m.form.Catalog().Currency, len(lines))))

	if display := m.form.Display(); display != "" {
		sections = append(sections, SuccessBadge.Render("Booked"), BoxStyle.Render(display))
	}

	if m.error != "" {
		sections = append(sections, ErrorBadge.Render(m.error))
	}

	if m.status != "" {
		sections = append(sections, MutedStyle.Render(m.status))
	}

	if len(m.logs) > 0 {
		sections = append(sections, m.renderDiagnostics())
	}

	sections = append(sections, m.renderHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderServices draws every visible section as a box
func (m FormModel) renderServices() string {
	currency := m.form.Catalog().Currency
	graph := m.form.Catalog().Graph

	boxes := make([]string, 0)
	for _, sec := range m.form.Document().Sections() {
		if sec.Hidden {
			continue
		}

		title := sec.Title
		if title == "" {
			title = sec.Key
		}
		lines := []string{SectionTitleStyle.Render(title)}

		for _, label := range sec.Labels {
			if label.Hidden {
				continue
			}
			cost := 0
			if svc, err := graph.ByID(label.For); err == nil {
				cost = svc.Cost
			}
			isCursor := m.focus == focusServices && m.cursorID() == label.For
			lines = append(lines, formatServiceLine(label, cost, currency, isCursor))
		}

		style := BoxStyle
		if m.focus == focusServices {
			style = FocusedBoxStyle
		}
		boxes = append(boxes, style.Render(strings.Join(lines, "\n")))
	}

	if len(boxes) == 0 {
		return MutedStyle.Render("No services available.")
	}
	return lipgloss.JoinVertical(lipgloss.Left, boxes...)
}

// renderInputs draws the name and date fields
func (m FormModel) renderInputs() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		"Name:       "+m.nameInput.View(),
		"Visit date: "+m.dateInput.View(),
	)
}

// renderDiagnostics shows the last captured log lines
func (m FormModel) renderDiagnostics() string {
	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(ColorWarning).Render("Diagnostics")}
	for _, l := range m.logs {
		lines = append(lines, MutedStyle.Render(fmt.Sprintf("%s %s", l.Timestamp.Format("15:04:05"), l.Message)))
	}
	return lipgloss.NewStyle().MarginTop(1).Render(strings.Join(lines, "\n"))
}

// renderHelp shows keyboard shortcuts
func (m FormModel) renderHelp() string {
	bindings := []KeyBinding{
		{"↑/k ↓/j", "navigate"},
		{"space", "toggle service"},
		{"tab", "switch between services, name and date"},
		{"enter", "get estimate"},
		{"ctrl+r", "reset form"},
		{"q", "quit"},
	}
	return formatHelp(bindings)
}

func (m FormModel) cursorID() int {
	if len(m.visible) == 0 {
		return -1
	}
	return m.visible[m.cursor]
}

func describeEvent(e events.Event) string {
	switch e.Type {
	case events.EventServiceChanged:
		return fmt.Sprintf("Service %v changed", e.Payload["id"])
	case events.EventFormSubmitted:
		if valid, _ := e.Payload["valid"].(bool); valid {
			return fmt.Sprintf("Estimate ready: %v", e.Payload["total"])
		}
		return "Estimate rejected"
	case events.EventFormReset:
		return "Form cleared"
	default:
		return e.Type
	}
}

// Run shows the booking screen until the user quits. Log output of logger is
// redirected to the diagnostics pane while the program runs.
func Run(form *booking.Form, bus *events.Bus, logger *logging.Logger) error {
	var sub events.Subscriber
	if bus != nil {
		var unsubscribe func()
		sub, unsubscribe = bus.Subscribe(events.Wildcard)
		defer unsubscribe()
	}

	program := tea.NewProgram(NewFormModel(form, sub), tea.WithAltScreen())
	if logger != nil {
		queue := newQueueSender(program, logQueueSize)
		logger.SetOutput(NewLogWriter(queue))
		defer func() {
			logger.SetOutput(os.Stderr)
			queue.Close()
		}()
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("form UI failed: %w", err)
	}
	return nil
}
