package viewer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var (
	ErrNotRunning      = errors.New("session manager is not running")
	ErrSessionNotFound = errors.New("session not found")
)

type entry struct {
	session  *Session
	cancel   context.CancelFunc
	lastSeen time.Time
}

// Manager holds live sessions keyed by id and expires idle ones.
type Manager struct {
	deps  Deps
	ttl   time.Duration
	clock clockwork.Clock

	mu       sync.Mutex
	ctx      context.Context
	sessions map[string]*entry
}

// NewManager creates a manager whose sessions share deps. Sessions idle for
// longer than ttl are closed. A nil clock uses real time.
func NewManager(deps Deps, ttl time.Duration, clock clockwork.Clock) *Manager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Manager{
		deps:     deps.withDefaults(),
		ttl:      ttl,
		clock:    clock,
		sessions: make(map[string]*entry),
	}
}

// CheckReadiness reports whether the manager accepts sessions.
func (m *Manager) CheckReadiness(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctx == nil || m.ctx.Err() != nil {
		return ErrNotRunning
	}
	return nil
}

// Run sweeps idle sessions until ctx is cancelled, then closes them all.
func (m *Manager) Run(ctx context.Context) error {
	interval := m.ttl / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := m.clock.NewTicker(interval)
	defer ticker.Stop()

	m.mu.Lock()
	m.ctx = ctx
	m.mu.Unlock()

	m.deps.Logger.Info("session manager started", "ttl", m.ttl)
	for {
		select {
		case <-ctx.Done():
			closed := m.closeAll()
			m.deps.Logger.Info("session manager stopping", "closed_sessions", closed, "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			if n := m.Sweep(); n > 0 {
				m.deps.Logger.Info("expired idle sessions", "count", n)
			}
		}
	}
}

// Create starts a new session.
func (m *Manager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx == nil || m.ctx.Err() != nil {
		return nil, ErrNotRunning
	}

	s := NewSession(uuid.NewString(), m.deps)
	ctx, cancel := context.WithCancel(m.ctx)
	m.sessions[s.ID()] = &entry{session: s, cancel: cancel, lastSeen: m.clock.Now()}
	m.deps.Metrics.ActiveSessions.Inc()

	go func() {
		if err := s.Run(ctx); err != nil {
			m.deps.Logger.Error("session failed", "session", s.ID(), "error", err)
		}
	}()
	m.deps.Logger.Debug("session created", "session", s.ID())
	return s, nil
}

// Get returns the session and marks it as used.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastSeen = m.clock.Now()
	return e.session, nil
}

// Delete closes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	m.remove(id, e)
	return nil
}

// Sweep closes sessions idle for longer than the ttl and returns how many
// were closed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	n := 0
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) > m.ttl {
			m.remove(id, e)
			n++
		}
	}
	return n
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) closeAll() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.sessions)
	for id, e := range m.sessions {
		m.remove(id, e)
	}
	return n
}

// remove must be called with mu held.
func (m *Manager) remove(id string, e *entry) {
	e.cancel()
	delete(m.sessions, id)
	m.deps.Metrics.ActiveSessions.Dec()
}
