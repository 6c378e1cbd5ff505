// Package types provides the wire types shared by the gateway endpoints
// and the upstream chat-completion API.
package types

// Role constants for conversation turns.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is one message in a conversation. Order is meaningful.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewUserTurn wraps free text as a single user turn.
func NewUserTurn(content string) ChatTurn {
	return ChatTurn{Role: RoleUser, Content: content}
}

// GenerationRequest is the canonical payload sent to the upstream model
// API after a client request has been normalized. Must contain at least
// one turn.
type GenerationRequest struct {
	Turns       []ChatTurn
	Model       string
	MaxTokens   int
	Temperature float64
}
