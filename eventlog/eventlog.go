// Package eventlog records user-interaction events for later analysis of
// annotation sessions. Logging is fire-and-forget: callers never block and
// never observe a failure.
package eventlog

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const queueSize = 256

type event struct {
	typ      string
	row, col int
	tool     string
	attrs    []slog.Attr
}

// Logger serializes interaction events onto a background goroutine and emits
// them through slog. When the queue is full events are dropped rather than
// blocking the interactive path.
type Logger struct {
	log     *slog.Logger
	session string

	mu         sync.Mutex
	activeTool string
	closed     bool

	ch   chan event
	done chan struct{}
}

// New starts a logger writing to log. A nil slog logger yields a no-op Logger.
func New(log *slog.Logger) *Logger {
	l := &Logger{
		log:        log,
		session:    uuid.NewString(),
		activeTool: "none",
		ch:         make(chan event, queueSize),
		done:       make(chan struct{}),
	}
	go l.drain()
	return l
}

// SetActiveTool records the tool id attached to subsequent events.
// Display names are normalized to lower_snake ids, e.g. "Flood Add Tool".
func (l *Logger) SetActiveTool(name string) {
	if l == nil {
		return
	}
	id := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	l.mu.Lock()
	l.activeTool = id
	l.mu.Unlock()
}

// Log enqueues an event for the patch at grid position (row, col).
// Never blocks; events are dropped when the queue is full or after Close.
// The send happens under the mutex so it cannot race a concurrent Close:
// background fills may still log while the app is shutting down.
func (l *Logger) Log(eventType string, row, col int, attrs ...slog.Attr) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	select {
	case l.ch <- event{typ: eventType, row: row, col: col, tool: l.activeTool, attrs: attrs}:
	default:
	}
}

// Close stops the drain goroutine after flushing queued events. Further Log
// calls are silent no-ops; Close itself is idempotent.
func (l *Logger) Close() {
	if l == nil {
		return
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.ch)
	l.mu.Unlock()
	<-l.done
}

func (l *Logger) drain() {
	defer close(l.done)
	for e := range l.ch {
		if l.log == nil {
			continue
		}
		args := make([]any, 0, 4+len(e.attrs))
		args = append(args,
			slog.String("session", l.session),
			slog.String("patch", gridCoord(e.row, e.col)),
			slog.String("active_tool", e.tool),
		)
		for _, a := range e.attrs {
			args = append(args, a)
		}
		l.log.Info(e.typ, args...)
	}
}

func gridCoord(row, col int) string {
	return fmt.Sprintf("(%d,%d)", row, col)
}
