package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chis/servicebook/internal/booking"
	"github.com/chis/servicebook/internal/events"
	"github.com/chis/servicebook/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyReset = tea.KeyMsg{Type: tea.KeyCtrlR}
)

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(t *testing.T) FormModel {
	t.Helper()
	form, err := booking.New(booking.Options{Logger: logging.Discard()})
	require.NoError(t, err)
	return NewFormModel(form, nil)
}

func send(m FormModel, msgs ...tea.Msg) FormModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(FormModel)
	}
	return m
}

func TestInitialVisibleList(t *testing.T) {
	m := newModel(t)

	assert.Equal(t, []int{0, 1, 4, 5, 6, 9}, m.visible)
	assert.Equal(t, 0, m.cursor)
	assert.Nil(t, m.Init(), "no bus, no event loop")
}

func TestToggleRevealsDependents(t *testing.T) {
	m := newModel(t)

	m = send(m, keyDown, keySpace)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 9}, m.visible)
	assert.Equal(t, 1, m.cursor)

	// Choose aluminium rims.
	m = send(m, keyDown, keySpace)
	assert.Contains(t, m.View(), "(•) Aluminiowe")

	// Unchecking rims hides the rim type again.
	m = send(m, tea.KeyMsg{Type: tea.KeyUp}, keySpace)
	assert.Equal(t, []int{0, 1, 4, 5, 6, 9}, m.visible)
	assert.Empty(t, m.form.Document().Snapshot().ToArray())
}

func TestCursorStaysInRange(t *testing.T) {
	m := newModel(t)

	// Select wash (last visible), reveal its two extras, then go to the end.
	for i := 0; i < 5; i++ {
		m = send(m, keyDown)
	}
	m = send(m, keySpace)
	require.Equal(t, []int{0, 1, 4, 5, 6, 9, 10, 11}, m.visible)

	m = send(m, keyDown, keyDown, keyDown)
	assert.Equal(t, 7, m.cursor)

	// Deselecting wash through reset shrinks the list under the cursor.
	m = send(m, keyReset)
	assert.Equal(t, 5, m.cursor)
}

func TestSubmitFromInputs(t *testing.T) {
	m := newModel(t)
	m = send(m, keySpace) // tyres, 100

	m = send(m, keyTab, typeText("Jan"), keyTab, typeText("2024-05-01"), keyEnter)

	assert.Empty(t, m.error)
	assert.Equal(t, "Imię: Jan\nData wizyty: 2024-05-01\nWycena: 100zł", m.form.Display())
	assert.Contains(t, m.View(), "Booked")
}

func TestSubmitWithoutInputs(t *testing.T) {
	m := newModel(t)

	m = send(m, keyEnter)
	assert.Contains(t, m.error, "at least 3 characters")
	assert.Empty(t, m.form.Display())
}

func TestTypingQInInputDoesNotQuit(t *testing.T) {
	m := newModel(t)

	m = send(m, keyTab, typeText("q"))
	assert.Equal(t, "q", m.nameInput.Value())

	_, cmd := send(m, keyTab, keyTab).Update(typeText("q"))
	require.NotNil(t, cmd)
	_, quit := cmd().(tea.QuitMsg)
	assert.True(t, quit, "q quits from the service list")
}

func TestResetClearsInputs(t *testing.T) {
	m := newModel(t)
	m = send(m, keySpace, keyTab, typeText("Jan"), keyReset)

	assert.Empty(t, m.nameInput.Value())
	assert.Empty(t, m.form.Document().Snapshot().ToArray())
}

func TestDiagnosticsKeepLastLines(t *testing.T) {
	m := newModel(t)

	for i := 0; i < 12; i++ {
		m = send(m, LogMsg{Timestamp: time.Now(), Message: strings.Repeat("x", i+1)})
	}

	require.Len(t, m.logs, m.maxLogs)
	assert.Equal(t, strings.Repeat("x", 12), m.logs[len(m.logs)-1].Message)
	assert.Contains(t, m.View(), "Diagnostics")
}

func TestEventLoop(t *testing.T) {
	bus := events.NewBus()
	sub, unsubscribe := bus.Subscribe(events.Wildcard)
	defer unsubscribe()

	form, err := booking.New(booking.Options{Logger: logging.Discard(), Bus: bus})
	require.NoError(t, err)
	m := NewFormModel(form, sub)

	m = send(m, keySpace)
	msg := m.Init()()
	require.IsType(t, EventMsg{}, msg)

	next, cmd := m.Update(msg)
	assert.Equal(t, "Service 0 changed", next.(FormModel).status)
	assert.NotNil(t, cmd, "the model keeps listening")
}

type recorder struct {
	msgs []tea.Msg
}

func (r *recorder) Send(msg tea.Msg) { r.msgs = append(r.msgs, msg) }

func TestLogWriterSplitsLines(t *testing.T) {
	rec := &recorder{}
	w := NewLogWriter(rec)

	n, err := w.Write([]byte("first\n\n  second  \n"))
	require.NoError(t, err)
	assert.Equal(t, 18, n)

	require.Len(t, rec.msgs, 2)
	assert.Equal(t, "first", rec.msgs[0].(LogMsg).Message)
	assert.Equal(t, "second", rec.msgs[1].(LogMsg).Message)
}

func TestQueueSenderKeepsOrder(t *testing.T) {
	rec := &recorder{}
	q := newQueueSender(rec, 64)
	w := NewLogWriter(q)

	for i := 0; i < 20; i++ {
		_, err := fmt.Fprintf(w, "line %d\n", i)
		require.NoError(t, err)
	}
	q.Close()

	require.Len(t, rec.msgs, 20)
	for i, msg := range rec.msgs {
		assert.Equal(t, fmt.Sprintf("line %d", i), msg.(LogMsg).Message)
	}

	q.Send(LogMsg{Message: "after close"})
	assert.Len(t, rec.msgs, 20)
}

// gatedRecorder blocks every Send until gate is closed
type gatedRecorder struct {
	recorder
	gate chan struct{}
}

func (g *gatedRecorder) Send(msg tea.Msg) {
	<-g.gate
	g.recorder.Send(msg)
}

func TestQueueSenderNeverBlocks(t *testing.T) {
	target := &gatedRecorder{gate: make(chan struct{})}
	q := newQueueSender(target, 2)

	for i := 0; i < 10; i++ {
		q.Send(i)
	}

	close(target.gate)
	q.Close()

	assert.LessOrEqual(t, len(target.msgs), 3, "overflow is dropped")
	for i := 1; i < len(target.msgs); i++ {
		assert.Less(t, target.msgs[i-1].(int), target.msgs[i].(int))
	}
}
