package nlp

import (
	"context"

	"github.com/soundprediction/verity/pkg/types"
)

// Client defines the interface for language model operations.
type Client interface {
	// Chat sends a chat completion request and returns the response.
	// A nil opts uses the client's configured defaults.
	Chat(ctx context.Context, messages []types.Message, opts *types.CompletionOptions) (*types.Response, error)

	// Close cleans up any resources.
	Close() error
}

const (
	// RoleSystem represents a system message.
	RoleSystem types.Role = "system"
	// RoleUser represents a user message.
	RoleUser types.Role = "user"
	// RoleAssistant represents an assistant message.
	RoleAssistant types.Role = "assistant"
)

// NewMessage creates a new message with the specified role and content.
func NewMessage(role types.Role, content string) types.Message {
	return types.Message{
		Role:    role,
		Content: content,
	}
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) types.Message {
	return NewMessage(RoleSystem, content)
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) types.Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) types.Message {
	return NewMessage(RoleAssistant, content)
}
