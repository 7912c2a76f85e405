package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/justsurfingit/carreira-ia/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

type fakeModel struct {
	resp *llms.ContentResponse
	err  error
	got  []llms.MessageContent
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.got = messages
	return f.resp, f.err
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func textOf(t *testing.T, mc llms.MessageContent) string {
	t.Helper()
	var b strings.Builder
	for _, p := range mc.Parts {
		tc, ok := p.(llms.TextContent)
		require.True(t, ok)
		b.WriteString(tc.Text)
	}
	return b.String()
}

func TestLangChainInvoke_ResponseShapes(t *testing.T) {
	tests := []struct {
		name    string
		resp    *llms.ContentResponse
		want    string
		invalid bool
	}{
		{"nil response", nil, "", true},
		{"no choices", &llms.ContentResponse{}, "", true},
		{"nil choice", &llms.ContentResponse{Choices: []*llms.ContentChoice{nil}}, "", true},
		{"blank content", &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "  \n "}}}, "", true},
		{"fenced blank", &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "```markdown\n```"}}}, "", true},
		{"plain text", &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: " ok "}}}, "ok", false},
		{"fenced text", &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "```markdown\n# CV\nbody\n```"}}}, "# CV\nbody", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewLangChain(&fakeModel{resp: tt.resp}, 0)
			got, err := c.Invoke(context.Background(), AnalysisMessages("résumé"))
			if tt.invalid {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrInvalidAdvisoryResponse)
				var ire *InvalidResponseError
				assert.True(t, errors.As(err, &ire))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLangChainInvoke_TransportErrorIsNotInvalidResponse(t *testing.T) {
	c := NewLangChain(&fakeModel{err: errors.New("quota")}, 0)
	_, err := c.Invoke(context.Background(), AnalysisMessages("x"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrInvalidAdvisoryResponse)
}

func TestLangChainInvoke_FoldsSystemPromptIntoFirstHumanTurn(t *testing.T) {
	m := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "done"}}}}
	_, err := NewLangChain(m, 0).Invoke(context.Background(), ImprovementMessages("ORIGINAL TEXT", "SUGGESTIONS TEXT"))
	require.NoError(t, err)

	require.Len(t, m.got, 1)
	assert.Equal(t, schema.ChatMessageTypeHuman, m.got[0].Role)
	body := textOf(t, m.got[0])
	assert.True(t, strings.HasPrefix(body, improvementSystemPrompt))
	assert.Contains(t, body, "ORIGINAL TEXT")
	assert.Contains(t, body, "SUGGESTIONS TEXT")
}

func TestLangChainInvoke_TruncatesLongInput(t *testing.T) {
	m := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "done"}}}}
	long := strings.Repeat("á", MaxInputChars+500)
	_, err := NewLangChain(m, 0).Invoke(context.Background(), []Message{{Role: RoleUser, Content: long}})
	require.NoError(t, err)
	assert.Equal(t, MaxInputChars, len([]rune(textOf(t, m.got[0]))))
}

func TestLangChainInvoke_RejectsEmptyConversation(t *testing.T) {
	_, err := NewLangChain(&fakeModel{}, 0).Invoke(context.Background(), nil)
	assert.Error(t, err)
}

func TestGeminiText(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		invalid bool
	}{
		{"nil", nil, "", true},
		{"no candidates", &genai.GenerateContentResponse{}, "", true},
		{"no content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}, "", true},
		{"no parts", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{}}}}, "", true},
		{"non-text part", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}}}}}, "", true},
		{"blank", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Text("   ")}}}}}, "", true},
		{"joined parts", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Text("a"), genai.Text("b")}}}}}, "ab", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := geminiText(tt.resp)
			if tt.invalid {
				assert.ErrorIs(t, err, apperrors.ErrInvalidAdvisoryResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitConversation(t *testing.T) {
	system, history, last, err := splitConversation([]Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "reply"},
		{Role: RoleUser, Content: "second"},
	})
	require.NoError(t, err)
	assert.Equal(t, "sys", system)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[1].Role)
	assert.Equal(t, "second", last)

	_, _, _, err = splitConversation([]Message{{Role: RoleSystem, Content: "only"}})
	assert.Error(t, err)
}

func TestCleanFences(t *testing.T) {
	assert.Equal(t, "plain", cleanFences("plain"))
	assert.Equal(t, "x", cleanFences("```\nx\n```"))
	assert.Equal(t, "{\"a\":1}", cleanFences("```json\n{\"a\":1}\n```"))
}
