package pdftext

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/justsurfingit/carreira-ia/internal/apperrors"
	"github.com/ledongthuc/pdf"
)

// MinLength is the shortest text accepted as a readable document.
const MinLength = 10

var whitespace = regexp.MustCompile(`\s+`)

// Extract returns the plain text of a PDF document with whitespace collapsed.
func Extract(data []byte) (text string, err error) {
	defer func() {
		// the parser panics on some malformed xref tables
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: malformed document: %v", apperrors.ErrExtractionFailed, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrExtractionFailed, err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrExtractionFailed, err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrExtractionFailed, err)
	}
	return Normalize(string(raw))
}

// Normalize collapses whitespace runs and rejects text shorter than MinLength.
func Normalize(raw string) (string, error) {
	// Postgres text columns reject NUL and invalid UTF-8.
	raw = strings.ToValidUTF8(strings.ReplaceAll(raw, "\x00", ""), "")
	text := strings.TrimSpace(whitespace.ReplaceAllString(raw, " "))
	if utf8.RuneCountInString(text) < MinLength {
		return "", fmt.Errorf("%w: document is empty, scanned or protected", apperrors.ErrExtractionFailed)
	}
	return text, nil
}
