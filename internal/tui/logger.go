package tui

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// LogMsg is sent when a log line is captured
type LogMsg struct {
	Timestamp time.Time
	Message   string
}

// Sender is the part of *tea.Program the log writer needs
type Sender interface {
	Send(msg tea.Msg)
}

// queueSender hands messages to a single forwarding goroutine. Log lines are
// written from inside Update, where a direct Send would block the program's
// own loop. Lines keep their order; when the queue is full they are dropped.
type queueSender struct {
	target Sender
	queue  chan tea.Msg
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

func newQueueSender(target Sender, size int) *queueSender {
	q := &queueSender{
		target: target,
		queue:  make(chan tea.Msg, size),
		done:   make(chan struct{}),
	}
	go q.forward()
	return q
}

func (q *queueSender) forward() {
	defer close(q.done)
	for msg := range q.queue {
		q.target.Send(msg)
	}
}

// Send enqueues msg without blocking
func (q *queueSender) Send(msg tea.Msg) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	select {
	case q.queue <- msg:
	default:
	}
}

// Close stops accepting messages and waits until the queued ones are forwarded
func (q *queueSender) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.queue)
	}
	q.mu.Unlock()
	<-q.done
}

// LogWriter is an io.Writer that turns log output into LogMsg values for the
// diagnostics pane, one message per line.
type LogWriter struct {
	program Sender
	mu      sync.Mutex
}

// NewLogWriter creates a log writer that sends to program
func NewLogWriter(program Sender) *LogWriter {
	return &LogWriter{
		program: program,
	}
}

// Write implements io.Writer
func (w *LogWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.program == nil {
		return len(p), nil
	}

	for _, line := range strings.Split(string(p), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		w.program.Send(LogMsg{
			Timestamp: time.Now(),
			Message:   line,
		})
	}

	return len(p), nil
}
