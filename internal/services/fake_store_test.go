package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/justsurfingit/carreira-ia/internal/apperrors"
	"github.com/justsurfingit/carreira-ia/internal/models"
)

// memStore is an in-memory stand-in for *store.Store.
type memStore struct {
	mu sync.Mutex

	users        map[uint]*models.User
	plans        map[uint]*models.SubscriptionPlan
	resumes      map[uint]*models.Resume
	listings     map[uint]*models.JobListing
	apps         map[uint]*models.JobApplication
	tasks        map[uint]*models.DeliveryTask
	integrations map[uint]*models.Integration
	events       []models.ApplicationEvent
	processed    map[string]string
	emails       map[string]bool
	cursors      map[string]uint64
	testimonials []models.Testimonial
	faqs         []models.Faq

	nextID       uint
	resumeWrites []map[string]interface{}
	failCount    error
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[uint]*models.User{},
		plans:        map[uint]*models.SubscriptionPlan{},
		resumes:      map[uint]*models.Resume{},
		listings:     map[uint]*models.JobListing{},
		apps:         map[uint]*models.JobApplication{},
		tasks:        map[uint]*models.DeliveryTask{},
		integrations: map[uint]*models.Integration{},
		processed:    map[string]string{},
		emails:       map[string]bool{},
		cursors:      map[string]uint64{},
		nextID:       100,
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func notFound(what string, id interface{}) error {
	return fmt.Errorf("%s %v: %w", what, id, apperrors.ErrNotFound)
}

// seeding helpers

func (m *memStore) addPlan(p models.SubscriptionPlan) *models.SubscriptionPlan {
	if p.ID == 0 {
		p.ID = m.id()
	}
	m.plans[p.ID] = &p
	return &p
}

func (m *memStore) addUser(u models.User) *models.User {
	if u.ID == 0 {
		u.ID = m.id()
	}
	m.users[u.ID] = &u
	return &u
}

func (m *memStore) addResume(r models.Resume) *models.Resume {
	if r.ID == 0 {
		r.ID = m.id()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	m.resumes[r.ID] = &r
	return &r
}

func (m *memStore) addListing(l models.JobListing) *models.JobListing {
	if l.ID == 0 {
		l.ID = m.id()
	}
	m.listings[l.ID] = &l
	return &l
}

func (m *memStore) addApplication(a models.JobApplication) *models.JobApplication {
	if a.ID == 0 {
		a.ID = m.id()
	}
	m.apps[a.ID] = &a
	return &a
}

// users & plans

func (m *memStore) GetUser(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetPlan(_ context.Context, id uint) (*models.SubscriptionPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, notFound("plan", id)
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) FindPlanByName(_ context.Context, name string) (*models.SubscriptionPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.plans {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, notFound("plan", name)
}

func (m *memStore) FindUserByStripeCustomer(_ context.Context, customerID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.StripeCustomerID == customerID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("user by customer", customerID)
}

func (m *memStore) UpdateUser(_ context.Context, id uint, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return notFound("user", id)
	}
	for k, v := range fields {
		switch k {
		case "stripe_customer_id":
			u.StripeCustomerID = v.(string)
		case "stripe_subscription_id":
			u.StripeSubscriptionID = v.(string)
		case "subscription_status":
			u.SubscriptionStatus = v.(string)
		case "subscription_plan_id":
			pid := v.(uint)
			u.SubscriptionPlanID = &pid
		case "subscription_start_date":
			t := v.(time.Time)
			u.SubscriptionStartDate = &t
		case "subscription_end_date":
			t := v.(time.Time)
			u.SubscriptionEndDate = &t
		default:
			return fmt.Errorf("memStore: unexpected user field %q", k)
		}
	}
	return nil
}

func (m *memStore) ListUsers(context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memStore) UpsertUser(_ context.Context, in models.User, ownerOpenID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.OpenID == in.OpenID {
			u.Name = in.Name
			cp := *u
			return &cp, nil
		}
	}
	in.ID = m.id()
	in.Role = models.RoleUser
	if in.OpenID == ownerOpenID {
		in.Role = models.RoleAdmin
	}
	in.SubscriptionStatus = models.SubscriptionInactive
	m.users[in.ID] = &in
	cp := in
	return &cp, nil
}

func (m *memStore) ListActivePlans(context.Context) ([]models.SubscriptionPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.SubscriptionPlan{}
	for _, p := range m.plans {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memStore) ListPlans(context.Context) ([]models.SubscriptionPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.SubscriptionPlan{}
	for _, p := range m.plans {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memStore) CreatePlan(_ context.Context, p *models.SubscriptionPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.id()
	cp := *p
	m.plans[p.ID] = &cp
	return nil
}

func (m *memStore) UpdatePlan(_ context.Context, id uint, fields map[string]interface{}) (*models.SubscriptionPlan, error) {
	m.mu.Lock()
	p, ok := m.plans[id]
	if !ok {
		m.mu.Unlock()
		return nil, notFound("plan", id)
	}
	for k, v := range fields {
		switch k {
		case "name":
			p.Name = v.(string)
		case "price":
			p.Price = v.(string)
		case "max_applications":
			p.MaxApplications = v.(int)
		case "has_ai_analysis":
			p.HasAIAnalysis = v.(bool)
		case "is_active":
			p.IsActive = v.(bool)
		}
	}
	m.mu.Unlock()
	return m.GetPlan(context.Background(), id)
}

func (m *memStore) ListVisibleTestimonials(context.Context) ([]models.Testimonial, error) {
	return m.testimonials, nil
}

func (m *memStore) ListVisibleFaqs(context.Context) ([]models.Faq, error) {
	return m.faqs, nil
}

// résumés

func (m *memStore) CreateResume(_ context.Context, r *models.Resume) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.id()
	r.CreatedAt = time.Now()
	cp := *r
	m.resumes[r.ID] = &cp
	return nil
}

func (m *memStore) GetResume(_ context.Context, id uint) (*models.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resumes[id]
	if !ok {
		return nil, notFound("resume", id)
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) ListResumesByUser(_ context.Context, userID uint) ([]models.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Resume{}
	for _, r := range m.resumes {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *memStore) ListAllResumes(context.Context) ([]models.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Resume{}
	for _, r := range m.resumes {
		out = append(out, *r)
	}
	return out, nil
}

func (m *memStore) UpdateResume(_ context.Context, id uint, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumeWrites = append(m.resumeWrites, fields)
	r, ok := m.resumes[id]
	if !ok {
		return notFound("resume", id)
	}
	for k, v := range fields {
		switch k {
		case "status":
			r.Status = v.(string)
		case "analyzed_content":
			r.AnalyzedContent = v.(string)
		case "improved_content":
			r.ImprovedContent = v.(string)
		}
	}
	return nil
}

func (m *memStore) DeleteResumes(_ context.Context, userID uint, ids []uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range ids {
		if r, ok := m.resumes[id]; ok && r.UserID == userID {
			delete(m.resumes, id)
			n++
		}
	}
	return n, nil
}

// listings & applications

func (m *memStore) GetJobListing(_ context.Context, id uint) (*models.JobListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, notFound("job listing", id)
	}
	cp := *l
	return &cp, nil
}

func (m *memStore) SaveJobListing(_ context.Context, l *models.JobListing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.listings {
		same := existing.SourceURL == l.SourceURL && existing.Title == l.Title && existing.Company == l.Company
		if l.ExternalID != "" {
			same = existing.SourceSite == l.SourceSite && existing.ExternalID == l.ExternalID
		}
		if same {
			*l = *existing
			return nil
		}
	}
	l.ID = m.id()
	cp := *l
	m.listings[l.ID] = &cp
	return nil
}

func (m *memStore) HasApplication(_ context.Context, userID, jobListingID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.UserID == userID && a.JobListingID == jobListingID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CountApplicationsByUser(_ context.Context, userID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCount != nil {
		return 0, m.failCount
	}
	var n int64
	for _, a := range m.apps {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreateApplicationWithTask(_ context.Context, app *models.JobApplication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.UserID == app.UserID && a.JobListingID == app.JobListingID {
			return apperrors.ErrDuplicateApplication
		}
	}
	app.ID = m.id()
	cp := *app
	m.apps[app.ID] = &cp
	taskID := m.id()
	m.tasks[taskID] = &models.DeliveryTask{ID: taskID, ApplicationID: app.ID, Status: models.TaskQueued, NextAttemptAt: time.Now()}
	m.events = append(m.events, models.ApplicationEvent{ApplicationID: app.ID, EventType: models.EventQueued})
	return nil
}

func (m *memStore) GetApplication(_ context.Context, id uint) (*models.JobApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return nil, notFound("application", id)
	}
	cp := *a
	if l, ok := m.listings[a.JobListingID]; ok {
		lc := *l
		cp.JobListing = &lc
	}
	return &cp, nil
}

func (m *memStore) ListApplicationsByUser(_ context.Context, userID uint) ([]models.JobApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.JobApplication{}
	for _, a := range m.apps {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memStore) ListAllApplications(context.Context) ([]models.JobApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.JobApplication{}
	for _, a := range m.apps {
		out = append(out, *a)
	}
	return out, nil
}

func (m *memStore) ListApplicationsByStatus(_ context.Context, status string) ([]models.JobApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.JobApplication{}
	for _, a := range m.apps {
		if a.Status == status {
			cp := *a
			if l, ok := m.listings[a.JobListingID]; ok {
				lc := *l
				cp.JobListing = &lc
			}
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) SetApplicationStatus(_ context.Context, id uint, status, eventType, details string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return notFound("application", id)
	}
	a.Status = status
	m.events = append(m.events, models.ApplicationEvent{ApplicationID: id, EventType: eventType, Details: details})
	return nil
}

// delivery outbox

func (m *memStore) DueDeliveryTasks(_ context.Context, now time.Time, limit int) ([]models.DeliveryTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.DeliveryTask{}
	for _, t := range m.tasks {
		if t.Status == models.TaskQueued && !t.NextAttemptAt.After(now) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) CompleteDelivery(_ context.Context, task models.DeliveryTask, sentAt time.Time, payload string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.apps[task.ApplicationID]
	if a.Status == models.ApplicationPending {
		a.Status = models.ApplicationSent
		a.SentAt = &sentAt
		a.ResponsePayload = payload
	}
	t := m.tasks[task.ID]
	t.Status = models.TaskDone
	t.Attempts = task.Attempts + 1
	m.events = append(m.events, models.ApplicationEvent{ApplicationID: a.ID, EventType: models.EventDelivered})
	return nil
}

func (m *memStore) RescheduleDelivery(_ context.Context, task models.DeliveryTask, next time.Time, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.tasks[task.ID]
	t.Attempts = task.Attempts + 1
	t.NextAttemptAt = next
	t.LastError = reason
	a := m.apps[task.ApplicationID]
	a.RetryCount++
	a.ErrorMessage = reason
	m.events = append(m.events, models.ApplicationEvent{ApplicationID: a.ID, EventType: models.EventDeliveryRetry})
	return nil
}

func (m *memStore) FailDelivery(_ context.Context, task models.DeliveryTask, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.tasks[task.ID]
	t.Status = models.TaskDead
	t.Attempts = task.Attempts + 1
	t.LastError = reason
	a := m.apps[task.ApplicationID]
	if a.Status == models.ApplicationPending {
		a.Status = models.ApplicationFailed
	}
	a.RetryCount++
	a.ErrorMessage = reason
	m.events = append(m.events, models.ApplicationEvent{ApplicationID: a.ID, EventType: models.EventDeliveryFailed})
	return nil
}

func (m *memStore) CloseDeliveryTask(_ context.Context, taskID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[taskID].Status = models.TaskDone
	return nil
}

// integrations

func (m *memStore) CreateIntegration(_ context.Context, in *models.Integration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	in.ID = m.id()
	cp := *in
	m.integrations[in.ID] = &cp
	return nil
}

func (m *memStore) ListIntegrationsByUser(_ context.Context, userID uint) ([]models.Integration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Integration{}
	for _, in := range m.integrations {
		if in.UserID == userID {
			out = append(out, *in)
		}
	}
	return out, nil
}

func (m *memStore) GetIntegration(_ context.Context, id uint) (*models.Integration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.integrations[id]
	if !ok {
		return nil, notFound("integration", id)
	}
	cp := *in
	return &cp, nil
}

func (m *memStore) DeleteIntegration(_ context.Context, userID, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.integrations[id]
	if !ok || in.UserID != userID {
		return notFound("integration", id)
	}
	delete(m.integrations, id)
	return nil
}

// ledgers

func (m *memStore) IsEventProcessed(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.processed[id]
	return ok, nil
}

func (m *memStore) RecordEvent(_ context.Context, id, eventType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed[id] = eventType
	return nil
}

func (m *memStore) IsEmailProcessed(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emails[id], nil
}

func (m *memStore) RecordEmail(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emails[id] = true
	return nil
}

func (m *memStore) MailboxHistoryID(_ context.Context, mailbox string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursors[mailbox], nil
}

func (m *memStore) SaveMailboxHistoryID(_ context.Context, mailbox string, historyID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursors[mailbox] = historyID
	return nil
}

func (m *memStore) eventTypes(appID uint) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.events {
		if e.ApplicationID == appID {
			out = append(out, e.EventType)
		}
	}
	return out
}
