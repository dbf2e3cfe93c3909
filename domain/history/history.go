// Package history provides a bounded, generic undo/redo snapshot stack.
// It stores opaque snapshots with string operation tags and never inspects
// the snapshot type beyond holding it.
package history

import "sync"

// DefaultLimit bounds both stacks when no explicit limit is given. Snapshots
// are full deep copies of patch state, so the bound keeps memory predictable.
const DefaultLimit = 20

// Entry pairs a state snapshot with the tag of the operation that produced it.
type Entry[T any] struct {
	Snapshot T
	Tag      string
}

// Manager keeps two bounded stacks of entries. Push records a pre-mutation
// snapshot; Undo and Redo move the caller-supplied live state to the opposite
// stack so the pair is symmetric and lossless.
type Manager[T any] struct {
	mu    sync.Mutex
	undo  []Entry[T]
	redo  []Entry[T]
	limit int
}

// NewManager returns a manager bounded to limit entries per stack.
// Non-positive limits fall back to DefaultLimit.
func NewManager[T any](limit int) *Manager[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager[T]{limit: limit}
}

// Push records a snapshot taken before a mutation. Any redo future is
// invalidated; the oldest entry is evicted once the stack is full.
func (m *Manager[T]) Push(snapshot T, tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redo = m.redo[:0]
	m.undo = appendBounded(m.undo, Entry[T]{Snapshot: snapshot, Tag: tag}, m.limit)
}

// Undo pops the most recent entry. The live argument must be a snapshot of
// the current state; it is stored on the redo stack under the popped tag.
// Returns ok=false with zero values when there is nothing to undo.
func (m *Manager[T]) Undo(live T) (T, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.undo) == 0 {
		var zero T
		return zero, "", false
	}
	e := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = appendBounded(m.redo, Entry[T]{Snapshot: live, Tag: e.Tag}, m.limit)
	return e.Snapshot, e.Tag, true
}

// Redo pops the most recent undone entry, storing live on the undo stack.
// Returns ok=false with zero values when there is nothing to redo.
func (m *Manager[T]) Redo(live T) (T, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.redo) == 0 {
		var zero T
		return zero, "", false
	}
	e := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = appendBounded(m.undo, Entry[T]{Snapshot: live, Tag: e.Tag}, m.limit)
	return e.Snapshot, e.Tag, true
}

// PeekTag returns the tag of the entry Undo would pop next.
func (m *Manager[T]) PeekTag() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.undo) == 0 {
		return "", false
	}
	return m.undo[len(m.undo)-1].Tag, true
}

// CanUndo reports whether the undo stack is non-empty.
func (m *Manager[T]) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo) > 0
}

// CanRedo reports whether the redo stack is non-empty.
func (m *Manager[T]) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo) > 0
}

// Clear empties both stacks.
func (m *Manager[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo = nil
	m.redo = nil
}

func appendBounded[T any](s []Entry[T], e Entry[T], limit int) []Entry[T] {
	s = append(s, e)
	if len(s) > limit {
		// Shift in place so evicted snapshots become collectable.
		copy(s, s[1:])
		var zero Entry[T]
		s[len(s)-1] = zero
		s = s[:len(s)-1]
	}
	return s
}
