package llm

import "context"

// Roles the generateContent API accepts.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is one message in a conversation.
type Turn struct {
	Role string
	Text string
}

// Client generates a reply for an ordered conversation. Implementations
// never mutate or retain the turns slice.
type Client interface {
	Generate(ctx context.Context, turns []Turn) (string, error)
}
