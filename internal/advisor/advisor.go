// Package advisor wraps the text-completion providers used for résumé
// analysis. Every client returns either validated non-blank text or an error;
// malformed upstream shapes surface as *InvalidResponseError.
package advisor

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/justsurfingit/carreira-ia/internal/apperrors"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MaxInputChars bounds every message sent upstream.
const MaxInputChars = 20000

type Message struct {
	Role    Role
	Content string
}

type Client interface {
	Invoke(ctx context.Context, messages []Message) (string, error)
}

type InvalidResponseError struct {
	Reason string
}

func (e *InvalidResponseError) Error() string {
	return "invalid advisory response: " + e.Reason
}

func (e *InvalidResponseError) Is(target error) bool {
	return target == apperrors.ErrInvalidAdvisoryResponse
}

func invalid(reason string) error {
	return &InvalidResponseError{Reason: reason}
}

// validText strips markdown fences and rejects blank output.
func validText(raw string) (string, error) {
	text := cleanFences(raw)
	if text == "" {
		return "", invalid("blank message content")
	}
	return text, nil
}

// cleanFences removes a ```lang ... ``` wrapper if the model added one.
func cleanFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	if i := strings.IndexByte(content, '\n'); i >= 0 && !strings.ContainsAny(content[:i], " \t") {
		content = content[i+1:]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxInputChars {
		return s
	}
	return string([]rune(s)[:MaxInputChars])
}
