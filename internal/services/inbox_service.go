package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/justsurfingit/carreira-ia/internal/config"
	"github.com/justsurfingit/carreira-ia/internal/logger"
	"github.com/justsurfingit/carreira-ia/internal/models"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
)

const fullSyncQuery = "subject:(candidatura OR application OR vaga OR entrevista OR interview OR APP) newer_than:7d"

var confirmationPhrases = []string{
	"recebemos",
	"candidatura recebida",
	"received your application",
	"thank you for applying",
	"obrigado por se candidatar",
	"confirm",
	"entrevista",
	"interview",
}

// InboxService watches the mailbox for recruiter replies to sent applications.
type InboxService struct {
	Store      InboxStore
	Gmail      *gmail.Service
	Matcher    *MatcherService
	Classifier *ReplyClassifier
	Mailbox    string
	Interval   time.Duration
	RetryDelay time.Duration
}

func NewInboxService(st InboxStore, client *gmail.Service, matcher *MatcherService, classifier *ReplyClassifier, cfg config.InboxConfig) *InboxService {
	return &InboxService{
		Store:      st,
		Gmail:      client,
		Matcher:    matcher,
		Classifier: classifier,
		Mailbox:    cfg.Mailbox,
		Interval:   cfg.Interval,
		RetryDelay: time.Second,
	}
}

// Run syncs immediately and then on every tick until ctx is done.
func (s *InboxService) Run(ctx context.Context) {
	log := logger.WithComponent("inbox")
	if s.Gmail == nil {
		log.Warn("inbox watcher disabled: no Gmail client")
		return
	}
	log.WithField("interval", s.Interval.String()).Info("inbox watcher started")

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		cycle, cancel := context.WithTimeout(ctx, 2*time.Minute)
		if err := s.Sync(cycle); err != nil && ctx.Err() == nil {
			log.WithError(err).Error("inbox sync failed")
		}
		cancel()

		select {
		case <-ctx.Done():
			log.Info("inbox watcher stopped")
			return
		case <-ticker.C:
		}
	}
}

// Sync runs one cycle: full sync on first run or when the stored history id
// expired, incremental history sync otherwise.
func (s *InboxService) Sync(ctx context.Context) error {
	log := logger.WithComponent("inbox")

	lastID, err := s.Store.MailboxHistoryID(ctx, s.Mailbox)
	if err != nil {
		return err
	}

	var messages []*gmail.Message
	var newID uint64
	if lastID == 0 {
		log.Info("no mailbox cursor, running full sync")
		messages, newID, err = s.fullSync(ctx)
	} else {
		messages, newID, err = s.incrementalSync(ctx, lastID)
		if isHistoryExpiredError(err) {
			log.Warn("history id expired, falling back to full sync")
			messages, newID, err = s.fullSync(ctx)
		}
	}
	if err != nil {
		return err
	}

	if len(messages) > 0 {
		log.WithField("count", len(messages)).Info("processing candidate emails")
		if err := s.processAll(ctx, messages); err != nil {
			return err
		}
	}

	if newID > lastID {
		if err := s.Store.SaveMailboxHistoryID(ctx, s.Mailbox, newID); err != nil {
			return err
		}
	}
	return nil
}

func (s *InboxService) processAll(ctx context.Context, messages []*gmail.Message) error {
	sent, err := s.Store.ListApplicationsByStatus(ctx, models.ApplicationSent)
	if err != nil {
		return err
	}
	for _, msg := range messages {
		done, err := s.Store.IsEmailProcessed(ctx, msg.Id)
		if err != nil {
			return err
		}
		if done {
			continue
		}
		confirmed, err := s.processMessage(ctx, msg, sent)
		if err != nil {
			return err
		}
		if confirmed != 0 {
			sent = removeApplication(sent, confirmed)
		}
		if err := s.Store.RecordEmail(ctx, msg.Id); err != nil {
			return err
		}
	}
	return nil
}

// processMessage confirms the application the email refers to and returns its
// id, or 0 when nothing changed. Only store failures are returned as errors.
func (s *InboxService) processMessage(ctx context.Context, msg *gmail.Message, sent []models.JobApplication) (uint, error) {
	headers := parseHeaders(msg)
	subject := headers["Subject"]
	sender := headers["From"]
	body := getEmailBody(msg)
	log := logger.WithComponent("inbox").WithField("message_id", msg.Id)

	target := s.Matcher.ByReference(sent, subject, body)
	if target == nil {
		company, candidates := s.Matcher.ByCompany(sent, subject, sender)
		switch {
		case len(candidates) == 0:
			log.Debug("skipped: no sent application matches sender or subject")
			return 0, nil
		case len(candidates) == 1:
			target = &candidates[0]
		default:
			target = s.disambiguate(ctx, candidates, subject, body)
			if target == nil {
				log.WithField("company", company).Info("skipped: ambiguous company match")
				return 0, nil
			}
		}
	}

	if !isConfirmation(subject + " " + body) {
		log.WithField("application_id", target.ID).Debug("matched email is not a confirmation")
		return 0, nil
	}

	details := fmt.Sprintf("Confirmed by email %q", subject)
	if err := s.Store.SetApplicationStatus(ctx, target.ID, models.ApplicationConfirmed, models.EventEmailConfirmed, details); err != nil {
		return 0, err
	}
	logger.LogSuccessWithUser(target.UserID, fmt.Sprintf("%s confirmed by recruiter email", ApplicationReference(target.ID)))
	return target.ID, nil
}

func (s *InboxService) disambiguate(ctx context.Context, candidates []models.JobApplication, subject, body string) *models.JobApplication {
	if s.Classifier == nil {
		return nil
	}
	titles := make([]string, len(candidates))
	for i, c := range candidates {
		titles[i] = c.JobListing.Title
	}
	idx, err := s.Classifier.IdentifyApplication(ctx, titles, subject, body)
	if err != nil {
		logger.LogError(err, "reply classifier failed")
		return nil
	}
	if idx < 0 {
		return nil
	}
	return &candidates[idx]
}

func isConfirmation(text string) bool {
	text = strings.ToLower(text)
	for _, p := range confirmationPhrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func removeApplication(apps []models.JobApplication, id uint) []models.JobApplication {
	out := apps[:0:0]
	for _, a := range apps {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

// fullSync scans the last 7 days and anchors on the current history id.
func (s *InboxService) fullSync(ctx context.Context) ([]*gmail.Message, uint64, error) {
	var resp *gmail.ListMessagesResponse
	err := s.retry(ctx, 3, func() error {
		var e error
		resp, e = s.Gmail.Users.Messages.List(s.Mailbox).Q(fullSyncQuery).MaxResults(50).Context(ctx).Do()
		return e
	})
	if err != nil {
		return nil, 0, err
	}

	var profile *gmail.Profile
	err = s.retry(ctx, 3, func() error {
		var e error
		profile, e = s.Gmail.Users.GetProfile(s.Mailbox).Context(ctx).Do()
		return e
	})
	if err != nil {
		return nil, 0, err
	}
	full, err := s.expandMessages(ctx, resp.Messages)
	if err != nil {
		return nil, 0, err
	}
	return full, profile.HistoryId, nil
}

// incrementalSync fetches only the messages added since startID.
func (s *InboxService) incrementalSync(ctx context.Context, startID uint64) ([]*gmail.Message, uint64, error) {
	var resp *gmail.ListHistoryResponse
	err := s.retry(ctx, 3, func() error {
		var e error
		resp, e = s.Gmail.Users.History.List(s.Mailbox).
			StartHistoryId(startID).
			HistoryTypes("messageAdded").
			Context(ctx).Do()
		return e
	})
	if err != nil {
		return nil, 0, err
	}

	var added []*gmail.Message
	for _, h := range resp.History {
		for _, m := range h.MessagesAdded {
			if m.Message != nil {
				added = append(added, m.Message)
			}
		}
	}
	full, err := s.expandMessages(ctx, added)
	if err != nil {
		return nil, 0, err
	}
	return full, resp.HistoryId, nil
}

// expandMessages fetches each message in full. A message deleted since it was
// listed is skipped; any other failure aborts the batch so the cursor stays
// put and the next sync sees the message again.
func (s *InboxService) expandMessages(ctx context.Context, headers []*gmail.Message) ([]*gmail.Message, error) {
	var full []*gmail.Message
	for _, h := range headers {
		var msg *gmail.Message
		err := s.retry(ctx, 2, func() error {
			var e error
			msg, e = s.Gmail.Users.Messages.Get(s.Mailbox, h.Id).Context(ctx).Do()
			return e
		})
		if isHistoryExpiredError(err) {
			logger.WithComponent("inbox").WithField("message_id", h.Id).Warn("message no longer exists, skipping")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("fetch message %s: %w", h.Id, err)
		}
		full = append(full, msg)
	}
	return full, nil
}

// retry runs f up to attempts times, doubling the delay. An expired history
// id fails fast so the caller can switch to full sync.
func (s *InboxService) retry(ctx context.Context, attempts int, f func() error) error {
	delay := s.RetryDelay
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		if isHistoryExpiredError(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		logger.WithComponent("inbox").WithError(err).WithField("retry_in", delay.String()).Warn("gmail API error")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("gmail API failed after %d attempts: %w", attempts, err)
}

func isHistoryExpiredError(err error) bool {
	var gErr *googleapi.Error
	return errors.As(err, &gErr) && gErr.Code == 404
}

func parseHeaders(msg *gmail.Message) map[string]string {
	res := make(map[string]string)
	if msg.Payload == nil {
		return res
	}
	for _, h := range msg.Payload.Headers {
		res[h.Name] = h.Value
	}
	return res
}

// getEmailBody prefers the top-level body, then text/plain, then text/html parts.
func getEmailBody(msg *gmail.Message) string {
	if msg.Payload == nil {
		return ""
	}
	if msg.Payload.Body != nil && msg.Payload.Body.Data != "" {
		return decodeBody(msg.Payload.Body.Data)
	}
	for _, mime := range []string{"text/plain", "text/html"} {
		for _, part := range msg.Payload.Parts {
			if part.MimeType == mime && part.Body != nil && part.Body.Data != "" {
				return decodeBody(part.Body.Data)
			}
		}
	}
	return ""
}

func decodeBody(data string) string {
	d, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		d, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return string(d)
}
