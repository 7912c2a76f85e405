package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/schema"
)

// LangChain talks to any langchaingo model. System messages are folded into
// the first user turn because not every provider accepts a system role.
type LangChain struct {
	Model   llms.Model
	Timeout time.Duration
}

func NewLangChain(model llms.Model, timeout time.Duration) *LangChain {
	return &LangChain{Model: model, Timeout: timeout}
}

// NewGoogleAI builds a LangChain client over Gemini.
func NewGoogleAI(ctx context.Context, apiKey, model string, timeout time.Duration) (*LangChain, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create googleai client: %w", err)
	}
	return NewLangChain(llm, timeout), nil
}

func (c *LangChain) Invoke(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("no messages to send")
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	resp, err := c.Model.GenerateContent(ctx, toLangChain(messages), llms.WithTemperature(0.4))
	if err != nil {
		return "", fmt.Errorf("advisory call failed: %w", err)
	}
	if resp == nil {
		return "", invalid("nil response")
	}
	if len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", invalid("no choices")
	}
	return validText(resp.Choices[0].Content)
}

func toLangChain(messages []Message) []llms.MessageContent {
	var system []string
	out := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		text := truncate(m.Content)
		switch m.Role {
		case RoleSystem:
			system = append(system, text)
		case RoleAssistant:
			out = append(out, llms.TextParts(schema.ChatMessageTypeAI, text))
		default:
			if len(system) > 0 {
				text = strings.Join(system, "\n\n") + "\n\n" + text
				system = nil
			}
			out = append(out, llms.TextParts(schema.ChatMessageTypeHuman, text))
		}
	}
	if len(system) > 0 {
		out = append(out, llms.TextParts(schema.ChatMessageTypeHuman, strings.Join(system, "\n\n")))
	}
	return out
}
