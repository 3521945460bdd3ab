package types

// Role identifies the author of a chat message.
type Role string

// Message is a single chat message sent to a completion service.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TokenUsage reports token consumption for one completion.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a completion service reply.
type Response struct {
	Content      string      `json:"content"`
	FinishReason string      `json:"finish_reason,omitempty"`
	Model        string      `json:"model,omitempty"`
	TokensUsed   *TokenUsage `json:"tokens_used,omitempty"`
}

// CompletionOptions are per-call sampling settings.
type CompletionOptions struct {
	Temperature float32
	MaxTokens   int
}

type contextKey string

// Context keys set by the HTTP layer and read by telemetry.
const (
	ContextKeyUserID        contextKey = "user_id"
	ContextKeySessionID     contextKey = "session_id"
	ContextKeyRequestSource contextKey = "request_source"
)
