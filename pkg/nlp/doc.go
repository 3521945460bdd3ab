// Package nlp provides the completion capability used to translate prompts
// into graph queries.
//
// This package defines the Client interface and an implementation for OpenAI
// and OpenAI-compatible APIs (Ollama, vLLM, etc.) built on go-openai.
//
// # Client Wrappers
//
// The package provides several wrapper clients for enhanced functionality:
//   - RetryClient: Automatic retry with exponential backoff
//   - TokenTrackingClient: Record token usage to Parquet files
//   - CircuitBreakerClient: Circuit breaker pattern for fault tolerance
//
// None of the wrappers are installed by default; the server enables each one
// from configuration.
//
// # Usage
//
//	client, err := nlp.NewOpenAIClient(nlp.NewLLMConfig().WithAPIKey(apiKey))
//	resp, err := client.Chat(ctx, []types.Message{
//	    nlp.NewSystemMessage(instruction),
//	    nlp.NewUserMessage(prompt),
//	}, &types.CompletionOptions{Temperature: 0.3, MaxTokens: 1000})
//
// # Error Handling
//
// The package defines specific error types for common failure modes:
//   - RateLimitError: API rate limit exceeded
//   - AuthError: API key missing, invalid or lacking permission
//   - EmptyResponseError: Model returned no choices
//
// These errors support errors.Is() for type checking. Classify maps any
// error returned by a Client onto a coarse types.ErrorCategory.
package nlp
