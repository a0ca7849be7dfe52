package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/affibot/internal/core"
	"github.com/sandevgo/affibot/pkg/keylock"
	"github.com/sandevgo/affibot/pkg/log"
)

const defaultIdleTimeout = 30 * time.Minute

// Bootstrapper creates the user record a session belongs to.
type Bootstrapper interface {
	EnsureUser(ctx context.Context, username string) error
}

type Manager struct {
	users       Bootstrapper
	locks       *keylock.Locker
	idleTimeout time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
	byUser   map[string]string
	onChange func(active int)
}

func NewManager(users Bootstrapper, locks *keylock.Locker, idleTimeout time.Duration) *Manager {
	if idleTimeout <= 0 {
		idleTimeout = defaultIdleTimeout
	}
	return &Manager{
		users:       users,
		locks:       locks,
		idleTimeout: idleTimeout,
		sessions:    make(map[string]*Session),
		byUser:      make(map[string]string),
	}
}

// SetActiveHook is called with the number of open sessions after every change.
func (m *Manager) SetActiveHook(hook func(active int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = hook
}

// Open bootstraps the user and starts a fresh session with an empty transcript.
func (m *Manager) Open(ctx context.Context, username string) (*Session, error) {
	unlock, err := m.locks.Lock(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to lock user: %w", err)
	}
	defer unlock()

	return m.open(ctx, username)
}

// open must be called with the user's lock held.
func (m *Manager) open(ctx context.Context, username string) (*Session, error) {
	if err := m.users.EnsureUser(ctx, username); err != nil {
		return nil, err
	}

	s := newSession(uuid.NewString(), username)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.byUser[username] = s.ID
	hook, active := m.onChange, len(m.sessions)
	m.mu.Unlock()

	if hook != nil {
		hook(active)
	}

	log.FromCtx(log.WithSession(ctx, s.ID, username)).Info().Msg("session opened")
	return s, nil
}

// Resume returns the user's most recent live session, opening one if needed.
// Concurrent calls for the same user share a single session.
func (m *Manager) Resume(ctx context.Context, username string) (*Session, error) {
	if s := m.current(username); s != nil {
		s.Touch()
		return s, nil
	}

	unlock, err := m.locks.Lock(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to lock user: %w", err)
	}
	defer unlock()

	// Another caller may have opened it while we waited.
	if s := m.current(username); s != nil {
		s.Touch()
		return s, nil
	}
	return m.open(ctx, username)
}

func (m *Manager) current(username string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byUser[username]
	if !ok {
		return nil
	}
	return m.sessions[id]
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return s, nil
}

// End drops the session and its transcript. The stored summary is untouched.
func (m *Manager) End(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return core.ErrSessionNotFound
	}
	m.remove(s)
	hook, active := m.onChange, len(m.sessions)
	m.mu.Unlock()

	if hook != nil {
		hook(active)
	}
	return nil
}

func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StartJanitor expires idle sessions until ctx is done.
func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.expireIdle(time.Now().UTC()); n > 0 {
					log.FromCtx(ctx).Debug().Int("expired", n).Msg("idle sessions closed")
				}
			}
		}
	}()
}

func (m *Manager) expireIdle(now time.Time) int {
	m.mu.Lock()
	expired := 0
	for _, s := range m.sessions {
		if now.Sub(s.LastActivity()) < m.idleTimeout {
			continue
		}
		m.remove(s)
		expired++
	}
	hook, active := m.onChange, len(m.sessions)
	m.mu.Unlock()

	if expired > 0 && hook != nil {
		hook(active)
	}
	return expired
}

// remove must be called with m.mu held.
func (m *Manager) remove(s *Session) {
	delete(m.sessions, s.ID)
	if m.byUser[s.Username] == s.ID {
		delete(m.byUser, s.Username)
	}
}
