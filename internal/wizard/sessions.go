package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownSession is returned for a session that is neither live nor stored.
var ErrUnknownSession = errors.New("wizard: unknown session")

type session struct {
	ctrl     *Controller
	lastSeen time.Time
	inflight int // requests currently using ctrl
}

// Manager owns the live sessions. Idle sessions are evicted from memory; their drafts stay in the
// store and are resumed on the next request.
type Manager struct {
	deps        Dependencies
	idleTimeout time.Duration

	mu       sync.Mutex
	sessions map[string]*session
	newID    func() string
}

// NewManager creates a manager. A non-positive idleTimeout disables eviction.
func NewManager(deps Dependencies, idleTimeout time.Duration) *Manager {
	return &Manager{
		deps:        deps.withDefaults(),
		idleTimeout: idleTimeout,
		sessions:    make(map[string]*session),
		newID:       uuid.NewString,
	}
}

// Create starts a fresh session with the catalog loaded.
func (m *Manager) Create(ctx context.Context) *Controller {
	ctrl := NewController(m.newID(), m.deps)
	ctrl.RefreshCatalog(ctx)
	ctrl.mu.Lock()
	ctrl.persist(ctx)
	ctrl.mu.Unlock()
	m.track(ctrl)
	return ctrl
}

// Get returns a live session, or resumes one from its stored draft. Callers that go on to act on
// the session should use Use instead so it cannot be evicted mid-request.
func (m *Manager) Get(ctx context.Context, id string) (*Controller, error) {
	s, err := m.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	m.release(s)
	return s.ctrl, nil
}

// Use runs fn on the session, resuming it when needed. Sweep leaves the session alone until fn
// returns.
func (m *Manager) Use(ctx context.Context, id string, fn func(*Controller)) error {
	s, err := m.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer m.release(s)
	fn(s.ctrl)
	return nil
}

// Delete resets a session, clearing its stored draft, and forgets it.
func (m *Manager) Delete(ctx context.Context, id string) error {
	s, err := m.acquire(ctx, id)
	if err != nil {
		return err
	}
	s.ctrl.Reset(ctx)
	m.release(s)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[id] == s {
		delete(m.sessions, id)
	}
	m.deps.Metrics.SetActiveSessions(len(m.sessions))
	return nil
}

func (m *Manager) acquire(ctx context.Context, id string) (*session, error) {
	m.mu.Lock()
	if s, ok := m.sessions[id]; ok {
		s.lastSeen = m.deps.Now()
		s.inflight++
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	ctrl := NewController(id, m.deps)
	found, err := ctrl.Restore(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrUnknownSession
	}
	ctrl.RefreshCatalog(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		// A concurrent request resumed it first.
		s.lastSeen = m.deps.Now()
		s.inflight++
		return s, nil
	}
	s := &session{ctrl: ctrl, lastSeen: m.deps.Now(), inflight: 1}
	m.sessions[id] = s
	m.deps.Metrics.SetActiveSessions(len(m.sessions))
	m.deps.Logger.Info("wizard: session resumed", "session_id", id, "step", ctrl.Step().String())
	return s, nil
}

func (m *Manager) release(s *session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.inflight--
	s.lastSeen = m.deps.Now()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle for longer than the idle timeout and returns how many were removed.
// Sessions with a request in flight are kept.
func (m *Manager) Sweep() int {
	if m.idleTimeout <= 0 {
		return 0
	}
	cutoff := m.deps.Now().Add(-m.idleTimeout)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.inflight > 0 || s.ctrl.isBusy() || !s.lastSeen.Before(cutoff) {
			continue
		}
		delete(m.sessions, id)
		removed++
	}
	if removed > 0 {
		m.deps.Metrics.SetActiveSessions(len(m.sessions))
		m.deps.Logger.Debug("wizard: evicted idle sessions", "count", removed)
	}
	return removed
}

// StartJanitor sweeps on every interval until ctx is cancelled.
func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration) {
	if m.idleTimeout <= 0 {
		return
	}
	if interval <= 0 {
		interval = m.idleTimeout / 4
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Sweep()
			}
		}
	}()
}

func (m *Manager) track(ctrl *Controller) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[ctrl.ID()] = &session{ctrl: ctrl, lastSeen: m.deps.Now()}
	m.deps.Metrics.SetActiveSessions(len(m.sessions))
}
