package nlp

import "time"

// Default configuration values
const (
	DefaultModel       = "gpt-4o-mini"
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.3
	DefaultTimeout     = 60 * time.Second
)

// LLMConfig holds configuration for LLM clients.
type LLMConfig struct {
	// APIKey is the authentication key for accessing the LLM API.
	// Excluded from JSON serialization to prevent accidental exposure in logs/responses.
	APIKey string `json:"-"`

	// Model is the specific LLM model to use for generating responses
	Model string `json:"model,omitempty"`

	// BaseURL is the base URL of an OpenAI-compatible API service
	BaseURL string `json:"base_url,omitempty"`

	// Temperature controls randomness in generation (0.0 to 2.0)
	Temperature float32 `json:"temperature,omitempty"`

	// MaxTokens is the maximum number of tokens to generate
	MaxTokens int `json:"max_tokens,omitempty"`

	// Timeout bounds a single HTTP round trip to the provider
	Timeout time.Duration `json:"timeout,omitempty"`
}

// NewLLMConfig creates a new LLMConfig with default values
func NewLLMConfig() *LLMConfig {
	return &LLMConfig{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Timeout:     DefaultTimeout,
	}
}

// WithAPIKey sets the API key
func (c *LLMConfig) WithAPIKey(apiKey string) *LLMConfig {
	c.APIKey = apiKey
	return c
}

// WithModel sets the model
func (c *LLMConfig) WithModel(model string) *LLMConfig {
	c.Model = model
	return c
}

// WithBaseURL sets the base URL
func (c *LLMConfig) WithBaseURL(baseURL string) *LLMConfig {
	c.BaseURL = baseURL
	return c
}

// WithTemperature sets the temperature
func (c *LLMConfig) WithTemperature(temperature float32) *LLMConfig {
	c.Temperature = temperature
	return c
}

// WithMaxTokens sets the max tokens
func (c *LLMConfig) WithMaxTokens(maxTokens int) *LLMConfig {
	c.MaxTokens = maxTokens
	return c
}

// WithTimeout sets the request timeout
func (c *LLMConfig) WithTimeout(timeout time.Duration) *LLMConfig {
	c.Timeout = timeout
	return c
}
