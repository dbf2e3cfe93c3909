package model

import (
	"sync/atomic"
	"time"
)

// MarkupModel tracks display-relevant editing state between presenter ticks.
// Concurrency-safe via atomics because edit notifications may arrive from
// background fill goroutines while the UI thread polls.
type MarkupModel struct {
	loaded   atomic.Bool
	dirty    atomic.Bool
	pending  atomic.Bool
	lastEdit atomic.Int64 // unix nanos of the most recent edit
}

// NewMarkupModel returns a pointer to a ready-to-use MarkupModel.
func NewMarkupModel() *MarkupModel { return &MarkupModel{} }

// Loaded reports whether an image is loaded.
func (m *MarkupModel) Loaded() bool {
	if m == nil {
		return false
	}
	return m.loaded.Load()
}

// SetLoaded stores the loaded flag. Loading clears dirty and pending state.
func (m *MarkupModel) SetLoaded(b bool) {
	if m == nil {
		return
	}
	m.loaded.Store(b)
	m.dirty.Store(false)
	m.pending.Store(true)
}

// Dirty reports whether the mask has unsaved edits.
func (m *MarkupModel) Dirty() bool {
	if m == nil {
		return false
	}
	return m.dirty.Load()
}

// MarkSaved clears the dirty flag after a successful mask export.
func (m *MarkupModel) MarkSaved() {
	if m == nil {
		return
	}
	m.dirty.Store(false)
}

// MarkEdited records an edit: the display is stale, the mask is unsaved, and
// the preview debounce clock restarts.
func (m *MarkupModel) MarkEdited(now time.Time) {
	if m == nil {
		return
	}
	m.dirty.Store(true)
	m.pending.Store(true)
	m.lastEdit.Store(now.UnixNano())
}

// Refresh requests a re-render without marking the mask edited, e.g. after
// a save updates the status line.
func (m *MarkupModel) Refresh() {
	if m == nil {
		return
	}
	m.pending.Store(true)
}

// TakePending reports and clears the stale-display flag. The presenter calls
// this once per tick so each burst of edits costs one render.
func (m *MarkupModel) TakePending() bool {
	if m == nil {
		return false
	}
	return m.pending.Swap(false)
}

// QuietSince reports whether no edit happened in the last d, i.e. the
// debounced preview may refresh.
func (m *MarkupModel) QuietSince(now time.Time, d time.Duration) bool {
	if m == nil {
		return false
	}
	last := m.lastEdit.Load()
	if last == 0 {
		return true
	}
	return now.UnixNano()-last >= int64(d)
}
