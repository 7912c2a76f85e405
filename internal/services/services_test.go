package services

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/justsurfingit/carreira-ia/internal/advisor"
	"github.com/justsurfingit/carreira-ia/internal/models"
	"github.com/justsurfingit/carreira-ia/internal/testutils"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()
	os.Exit(m.Run())
}

var (
	_ ResumeStore      = (*memStore)(nil)
	_ ApplicationStore = (*memStore)(nil)
	_ DeliveryStore    = (*memStore)(nil)
	_ JobSearchStore   = (*memStore)(nil)
	_ BillingStore     = (*memStore)(nil)
	_ IntegrationStore = (*memStore)(nil)
	_ CatalogStore     = (*memStore)(nil)
	_ AdminStore       = (*memStore)(nil)
	_ AuthStore        = (*memStore)(nil)
	_ ProfileStore     = (*memStore)(nil)
	_ InboxStore       = (*memStore)(nil)
)

// fakeAdvisor replays canned replies and records every conversation it receives.
type fakeAdvisor struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   [][]advisor.Message
}

func (f *fakeAdvisor) Invoke(_ context.Context, msgs []advisor.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, msgs)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", errors.New("fakeAdvisor: no reply queued")
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r, nil
}

func (f *fakeAdvisor) lastConversation() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	var b strings.Builder
	for _, m := range f.calls[len(f.calls)-1] {
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return b.String()
}

type fakeBlobs struct {
	keys []string
	err  error
}

func (f *fakeBlobs) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return "https://files.test/" + key, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	subjects []string
}

func (n *recordingNotifier) Notify(_ context.Context, subject, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subjects = append(n.subjects, subject)
	return nil
}

func longText(prefix string) string {
	return prefix + " " + strings.Repeat("Sugestão detalhada para melhorar o currículo. ", 5)
}

// seedPlans adds the three catalog plans and returns them by name.
func seedPlans(st *memStore) map[string]*models.SubscriptionPlan {
	return map[string]*models.SubscriptionPlan{
		"Básico":   st.addPlan(models.SubscriptionPlan{Name: "Básico", Price: "25.00", MaxApplications: 15, IsActive: true}),
		"Pleno":    st.addPlan(models.SubscriptionPlan{Name: "Pleno", Price: "45.00", MaxApplications: 25, HasAIAnalysis: true, IsActive: true}),
		"Avançado": st.addPlan(models.SubscriptionPlan{Name: "Avançado", Price: "59.00", MaxApplications: 30, HasAIAnalysis: true, IsActive: true}),
	}
}

func planID(p *models.SubscriptionPlan) *uint {
	id := p.ID
	return &id
}
