package discord

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/jose-valero/scrim-matchmaker/internal/app/service"
	"github.com/jose-valero/scrim-matchmaker/internal/domain"
	"github.com/jose-valero/scrim-matchmaker/internal/infra/metrics"
)

const (
	// sessionIdleTimeout tears down a /scrims session after no clicks at all.
	sessionIdleTimeout = 30 * time.Minute
	// confirmTimeout abandons single-shot confirm flows (find-scrim,
	// cancel-scrims) and deletes their message.
	confirmTimeout = time.Hour
)

// uiSession is one live /scrims invocation: the service session plus the
// ephemeral followup messages rendering each sub-flow.
type uiSession struct {
	mu     sync.Mutex
	id     string
	userID string
	sess   *service.Session
	root   *discordgo.Interaction // owns the followup messages
	msgIDs []string               // one per flow + trailing controls message
	timer  *time.Timer
}

// pendingConfirm is a single-shot flow awaiting one decision: either a
// find-scrim confirmation or a cancel-scrims selection.
type pendingConfirm struct {
	userID string
	ic     *discordgo.Interaction
	msgID  string
	timer  *time.Timer

	scrim    domain.Scrim   // find-scrim: the not-yet-persisted request
	scrims   []domain.Scrim // cancel-scrims: the listing that was shown
	selected []string       // cancel-scrims: currently selected indexes
}

type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*uiSession
	pending  map[string]*pendingConfirm
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{
		sessions: map[string]*uiSession{},
		pending:  map[string]*pendingConfirm{},
	}
}

func (r *sessionRegistry) addSession(us *uiSession, onExpire func(*uiSession)) string {
	us.id = uuid.NewString()
	us.timer = time.AfterFunc(sessionIdleTimeout, func() {
		if r.removeSession(us.id) != nil {
			onExpire(us)
		}
	})
	r.mu.Lock()
	r.sessions[us.id] = us
	r.mu.Unlock()
	metrics.ActiveSessions.Inc()
	return us.id
}

// session looks up a live session and pushes its idle deadline back.
func (r *sessionRegistry) session(id string) *uiSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	us, ok := r.sessions[id]
	if !ok {
		return nil
	}
	us.timer.Reset(sessionIdleTimeout)
	return us
}

func (r *sessionRegistry) removeSession(id string) *uiSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	us, ok := r.sessions[id]
	if !ok {
		return nil
	}
	delete(r.sessions, id)
	us.timer.Stop()
	metrics.ActiveSessions.Dec()
	return us
}

func (r *sessionRegistry) addPending(p *pendingConfirm, onExpire func(*pendingConfirm)) string {
	id := uuid.NewString()
	p.timer = time.AfterFunc(confirmTimeout, func() {
		if r.removePending(id) != nil {
			onExpire(p)
		}
	})
	r.mu.Lock()
	r.pending[id] = p
	r.mu.Unlock()
	return id
}

func (r *sessionRegistry) peekPending(id string) *pendingConfirm {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending[id]
}

func (r *sessionRegistry) removePending(id string) *pendingConfirm {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pending[id]
	if !ok {
		return nil
	}
	delete(r.pending, id)
	p.timer.Stop()
	return p
}
