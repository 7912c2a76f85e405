package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini uses the Gemini SDK directly, with a real system instruction and chat history.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{client: client, model: model, timeout: timeout}, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

func (g *Gemini) Invoke(ctx context.Context, messages []Message) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.4)

	system, history, last, err := splitConversation(messages)
	if err != nil {
		return "", err
	}
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	cs := model.StartChat()
	cs.History = history
	resp, err := cs.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return "", fmt.Errorf("advisory call failed: %w", err)
	}
	return geminiText(resp)
}

// splitConversation turns messages into a system instruction, prior turns and the final user prompt.
func splitConversation(messages []Message) (string, []*genai.Content, string, error) {
	var system []string
	var turns []*genai.Content
	for _, m := range messages {
		text := truncate(m.Content)
		switch m.Role {
		case RoleSystem:
			system = append(system, text)
		case RoleAssistant:
			turns = append(turns, &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(text)}})
		default:
			turns = append(turns, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(text)}})
		}
	}
	if len(turns) == 0 || turns[len(turns)-1].Role != "user" {
		return "", nil, "", errors.New("conversation must end with a user message")
	}
	last := turns[len(turns)-1]
	return strings.Join(system, "\n\n"), turns[:len(turns)-1], string(last.Parts[0].(genai.Text)), nil
}

func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", invalid("no candidates")
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", invalid("candidate has no parts")
	}
	var b strings.Builder
	for _, part := range content.Parts {
		text, ok := part.(genai.Text)
		if !ok {
			return "", invalid(fmt.Sprintf("unexpected part type %T", part))
		}
		b.WriteString(string(text))
	}
	return validText(b.String())
}
