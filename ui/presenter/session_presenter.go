package presenter

import (
	"time"

	"github.com/soocke/rootmark-go/ui/model"
)

// LoadedModel reports whether an image is open for editing.
type LoadedModel interface{ Loaded() bool }

// SessionView displays formatted session and total durations.
type SessionView interface {
	SetSession(session, total time.Duration)
}

// SessionPresenter formats session and total durations from the model to the view.
type SessionPresenter struct {
	sess   *model.SessionModel
	loaded LoadedModel
	view   SessionView
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, loaded LoadedModel, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, loaded: loaded, view: view}
}

// Tick updates the presenter: advance the session model and push values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.loaded == nil || p.view == nil {
		return
	}
	p.sess.OnTick(p.loaded.Loaded(), now)
	s, t := p.sess.Values()
	p.view.SetSession(s, t)
}
