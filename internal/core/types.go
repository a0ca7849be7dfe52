package core

import "time"

const (
	AffiName          = "AffiBot"
	AffiUserAgent     = "AffiBot/0.1"
	AffiRepositoryURL = "https://github.com/sandevgo/affibot"
	AffiVersion       = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry of a session transcript.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// UserRecord is the only entity this system persists. Summary is the whole
// durable memory of the user and is replaced, never appended, on every turn.
type UserRecord struct {
	Username  string    `json:"username"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Turn is the transient (query, context, reply) triple of one exchange.
type Turn struct {
	Query   string
	Context string
	Reply   string
}

type Model struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContextLength int    `json:"context_length,omitempty"`
}
