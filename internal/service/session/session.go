package session

import (
	"sync"
	"time"

	"github.com/sandevgo/affibot/internal/core"
)

// Session is one conversation of a user with the assistant. Its transcript is
// what the front-end shows and is never persisted; only the user's rolling
// summary outlives the session.
type Session struct {
	ID        string
	Username  string
	StartedAt time.Time

	mu           sync.RWMutex
	lastActivity time.Time
	transcript   []core.Message
}

func newSession(id, username string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           id,
		Username:     username,
		StartedAt:    now,
		lastActivity: now,
	}
}

// Append adds messages to the transcript in order.
func (s *Session) Append(msgs ...core.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for _, m := range msgs {
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		s.transcript = append(s.transcript, m)
	}
	s.lastActivity = now
}

// Transcript returns a copy of the messages exchanged so far.
func (s *Session) Transcript() []core.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now().UTC()
}

func (s *Session) LastActivity() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActivity
}
