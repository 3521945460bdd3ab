package prompts

import (
	"log/slog"

	"github.com/soundprediction/verity/pkg/types"
)

// PromptFunction is a function that generates prompt messages from context.
type PromptFunction func(context map[string]interface{}) ([]types.Message, error)

// PromptVersion represents a versioned prompt function.
type PromptVersion interface {
	Call(context map[string]interface{}) ([]types.Message, error)
}

type promptVersionImpl struct {
	fn PromptFunction
}

func (p *promptVersionImpl) Call(context map[string]interface{}) ([]types.Message, error) {
	return p.fn(context)
}

// NewPromptVersion wraps fn as a PromptVersion.
func NewPromptVersion(fn PromptFunction) PromptVersion {
	return &promptVersionImpl{fn: fn}
}

func logPrompts(logger *slog.Logger, sysPrompt, userPrompt string) {
	if logger == nil {
		return
	}
	logger.Debug("prompt composed", "system_chars", len(sysPrompt), "user", userPrompt)
}

func loggerFrom(context map[string]interface{}) *slog.Logger {
	if l, ok := context["logger"].(*slog.Logger); ok {
		return l
	}
	return nil
}
