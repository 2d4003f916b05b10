package rewrite

import (
	"context"
	"fmt"
	"strings"

	"dairy-assistant-be/internal/constant"
	"dairy-assistant-be/internal/pkg/logger"
	"dairy-assistant-be/pkg/llm"
)

// Rewriter turns follow-up questions into standalone ones using the
// recent chat history. It fails open: on empty history, model failure
// or an empty rewrite, the original input is returned unchanged.
type Rewriter struct {
	provider  llm.Provider
	logger    logger.ILogger
	temp      float64
	maxTokens int
}

func NewRewriter(provider llm.Provider, log logger.ILogger, temp float64, maxTokens int) *Rewriter {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Rewriter{provider: provider, logger: log, temp: temp, maxTokens: maxTokens}
}

func (r *Rewriter) Rewrite(ctx context.Context, userInput string, history []llm.Message) string {
	if len(history) == 0 {
		r.logger.Info("rewrite", "no history, returning original query", map[string]interface{}{
			"query": userInput,
		})
		return userInput
	}

	prompt := fmt.Sprintf(constant.RewritePromptFormat, renderHistory(history), userInput)

	out, err := r.provider.Generate(ctx, prompt,
		llm.WithTemperature(r.temp),
		llm.WithMaxOutputTokens(r.maxTokens),
	)
	if err != nil {
		r.logger.Error("rewrite", "query rewrite failed", map[string]interface{}{
			"query": userInput,
			"error": err.Error(),
		})
		return userInput
	}

	rewritten := strings.TrimSpace(strings.Trim(strings.TrimSpace(out), `"`))
	if rewritten == "" {
		r.logger.Warn("rewrite", "empty rewrite response", map[string]interface{}{
			"query": userInput,
		})
		return userInput
	}

	r.logger.Info("rewrite", "rewrite successful", map[string]interface{}{
		"original":  userInput,
		"rewritten": rewritten,
	})
	return rewritten
}

func renderHistory(history []llm.Message) string {
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		speaker := "Assistant"
		if msg.Role == llm.RoleUser {
			speaker = "User"
		}
		lines = append(lines, speaker+": "+msg.Content)
	}
	return strings.Join(lines, "\n")
}
