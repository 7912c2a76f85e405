package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/justsurfingit/carreira-ia/internal/advisor"
)

const maxEmailChars = 4000

const identifyApplicationPrompt = `You match recruiter emails to job applications.
You receive a numbered list of job titles the candidate applied to at the same company, followed by an email.
Answer with the number of the job the email is about and nothing else.
If the email does not clearly refer to one of them, answer -1.`

// ReplyClassifier asks the advisory model which application an ambiguous
// recruiter email refers to.
type ReplyClassifier struct {
	Advisor advisor.Client
}

func NewReplyClassifier(adv advisor.Client) *ReplyClassifier {
	return &ReplyClassifier{Advisor: adv}
}

// IdentifyApplication returns the index into titles, or -1.
func (c *ReplyClassifier) IdentifyApplication(ctx context.Context, titles []string, subject, body string) (int, error) {
	if len(titles) == 0 {
		return -1, nil
	}
	var b strings.Builder
	b.WriteString("Jobs:\n")
	for i, t := range titles {
		fmt.Fprintf(&b, "%d. %s\n", i, t)
	}
	if utf8.RuneCountInString(body) > maxEmailChars {
		body = string([]rune(body)[:maxEmailChars])
	}
	fmt.Fprintf(&b, "\nSubject: %s\n\n%s", subject, body)

	answer, err := c.Advisor.Invoke(ctx, []advisor.Message{
		{Role: advisor.RoleSystem, Content: identifyApplicationPrompt},
		{Role: advisor.RoleUser, Content: b.String()},
	})
	if err != nil {
		return -1, err
	}
	return parseIndex(answer, len(titles)), nil
}

// parseIndex reads the first token of answer; anything out of range is -1.
func parseIndex(answer string, n int) int {
	fields := strings.Fields(answer)
	if len(fields) == 0 {
		return -1
	}
	idx, err := strconv.Atoi(strings.Trim(fields[0], ".:)"))
	if err != nil || idx < 0 || idx >= n {
		return -1
	}
	return idx
}
