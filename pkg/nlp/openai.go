package nlp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sashabaranov/go-openai"
	"github.com/soundprediction/verity/pkg/types"
)

// OpenAIClient implements the Client interface for OpenAI's language models.
// Supports OpenAI-compatible services through a custom BaseURL.
type OpenAIClient struct {
	client *openai.Client
	config LLMConfig
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(config *LLMConfig) (*OpenAIClient, error) {
	if config == nil {
		config = NewLLMConfig()
	}
	cfg := *config

	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, ErrMissingAPIKey
	}

	var clientConfig openai.ClientConfig
	if cfg.BaseURL != "" {
		if err := validateBaseURL(cfg.BaseURL); err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}

		// Use dummy API key if none provided (some services don't require authentication)
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "dummy-key"
		}

		clientConfig = openai.DefaultConfig(apiKey)
		clientConfig.BaseURL = cfg.BaseURL

		// Many services expect "/v1" to be appended to the base URL
		if !hasAPIPath(cfg.BaseURL) {
			clientConfig.BaseURL = cfg.BaseURL + "/v1"
		}
	} else {
		clientConfig = openai.DefaultConfig(cfg.APIKey)
	}

	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

// Chat sends a chat completion request to OpenAI or OpenAI-compatible service.
func (c *OpenAIClient) Chat(ctx context.Context, messages []types.Message, opts *types.CompletionOptions) (*types.Response, error) {
	req := c.buildChatRequest(messages, opts)

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		if c.config.BaseURL != "" {
			return nil, fmt.Errorf("openai-compatible chat completion failed: %w", err)
		}
		return nil, fmt.Errorf("openai chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, NewEmptyResponseError("no choices returned from openai")
	}

	choice := resp.Choices[0]
	response := &types.Response{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Model:        resp.Model,
	}

	// Some OpenAI-compatible services do not report usage
	if resp.Usage.TotalTokens > 0 {
		response.TokensUsed = &types.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return response, nil
}

// Close cleans up resources (no-op for OpenAI client).
func (c *OpenAIClient) Close() error {
	return nil
}

// Model returns the configured model name.
func (c *OpenAIClient) Model() string {
	return c.config.Model
}

func (c *OpenAIClient) buildChatRequest(messages []types.Message, opts *types.CompletionOptions) openai.ChatCompletionRequest {
	openaiMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		openaiMessages[i] = openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	req := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    openaiMessages,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}

	if opts != nil {
		req.Temperature = opts.Temperature
		if opts.MaxTokens > 0 {
			req.MaxTokens = opts.MaxTokens
		}
	}

	return req
}

// validateBaseURL validates the base URL format.
func validateBaseURL(baseURL string) error {
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid baseURL format: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("baseURL must use http:// or https:// scheme")
	}

	return nil
}

// hasAPIPath checks if the base URL already includes an API path component.
func hasAPIPath(baseURL string) bool {
	commonPaths := []string{"/v1", "/api", "/v1/", "/api/"}
	for _, path := range commonPaths {
		if len(baseURL) >= len(path) && baseURL[len(baseURL)-len(path):] == path {
			return true
		}
	}
	return false
}
