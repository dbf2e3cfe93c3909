package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It calls Tick on the sub-presenters and invokes a scheduler callback.
// The zero value is usable (methods are nil-safe).
type Loop struct {
	Markup   *MarkupPresenter
	Preview  *PreviewPresenter
	Session  *SessionPresenter
	Schedule func()
}

func NewLoop(markup *MarkupPresenter, preview *PreviewPresenter, sess *SessionPresenter, schedule func()) *Loop {
	return &Loop{Markup: markup, Preview: preview, Session: sess, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	// Markup first so the patch render reflects this tick's edits before the
	// preview debounce check runs.
	if l.Markup != nil {
		l.Markup.Tick(now)
	}
	if l.Preview != nil {
		l.Preview.Tick(now)
	}
	if l.Session != nil {
		l.Session.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
