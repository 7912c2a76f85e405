package jobsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/justsurfingit/carreira-ia/internal/config"
	"github.com/justsurfingit/carreira-ia/internal/logger"
	"golang.org/x/time/rate"
)

var ErrProviderDisabled = errors.New("adzuna credentials not configured")

const (
	defaultResultsPerPage = 20
	maxResultsPerPage     = 50
	adzunaSite            = "Adzuna"
)

type Adzuna struct {
	appID      string
	appKey     string
	country    string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewAdzuna(cfg config.AdzunaConfig, httpClient *http.Client) *Adzuna {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &Adzuna{
		appID:      cfg.AppID,
		appKey:     cfg.AppKey,
		country:    cfg.Country,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst),
	}
}

func (a *Adzuna) Enabled() bool {
	return a.appID != "" && a.appKey != ""
}

type adzunaResponse struct {
	Count   int         `json:"count"`
	Mean    float64     `json:"mean"`
	Results []adzunaJob `json:"results"`
}

type adzunaJob struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Created     string `json:"created"`
	RedirectURL string `json:"redirect_url"`
	Company     struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string   `json:"display_name"`
		Area        []string `json:"area"`
	} `json:"location"`
	Category struct {
		Label string `json:"label"`
		Tag   string `json:"tag"`
	} `json:"category"`
	SalaryMin    float64 `json:"salary_min"`
	SalaryMax    float64 `json:"salary_max"`
	ContractType string  `json:"contract_type"`
	ContractTime string  `json:"contract_time"`
}

// Search calls GET {base}/{country}/search/{page}. Non-200 answers are errors.
func (a *Adzuna) Search(ctx context.Context, q Query) ([]Listing, error) {
	if !a.Enabled() {
		return nil, ErrProviderDisabled
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("adzuna rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.searchURL(q), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adzuna request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read adzuna response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adzuna API error (status %d): %s", resp.StatusCode, truncateBody(body))
	}

	var parsed adzunaResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode adzuna response: %w", err)
	}

	logger.WithComponent("adzuna").
		WithField("count", parsed.Count).
		WithField("returned", len(parsed.Results)).
		Info("adzuna search finished")

	out := make([]Listing, 0, len(parsed.Results))
	for _, j := range parsed.Results {
		out = append(out, j.toListing())
	}
	return out, nil
}

func (a *Adzuna) searchURL(q Query) string {
	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.ResultsPerPage
	if perPage <= 0 {
		perPage = defaultResultsPerPage
	}
	if perPage > maxResultsPerPage {
		perPage = maxResultsPerPage
	}

	v := url.Values{}
	v.Set("app_id", a.appID)
	v.Set("app_key", a.appKey)
	v.Set("results_per_page", strconv.Itoa(perPage))
	v.Set("content-type", "application/json")
	if q.What != "" {
		v.Set("what", q.What)
	}
	if q.Where != "" {
		v.Set("where", q.Where)
	}
	if q.SalaryMin > 0 {
		v.Set("salary_min", strconv.Itoa(q.SalaryMin))
	}
	if q.SalaryMax > 0 {
		v.Set("salary_max", strconv.Itoa(q.SalaryMax))
	}
	if q.SortBy != "" {
		v.Set("sort_by", q.SortBy)
	}
	flags := []struct {
		on   bool
		name string
	}{
		{q.FullTime, "full_time"},
		{q.PartTime, "part_time"},
		{q.Permanent, "permanent"},
		{q.Contract, "contract"},
	}
	for _, f := range flags {
		if f.on {
			v.Set(f.name, "1")
		}
	}
	if q.MaxDaysOld > 0 {
		v.Set("max_days_old", strconv.Itoa(q.MaxDaysOld))
	}

	return fmt.Sprintf("%s/%s/search/%d?%s", a.baseURL, a.country, page, v.Encode())
}

func (j adzunaJob) toListing() Listing {
	l := Listing{
		Title:        j.Title,
		Company:      j.Company.DisplayName,
		Description:  j.Description,
		Location:     j.Location.DisplayName,
		SourceURL:    j.RedirectURL,
		SourceSite:   adzunaSite,
		Requirements: j.Category.Label,
		ExternalID:   j.ID,
		SalaryMin:    j.SalaryMin,
		SalaryMax:    j.SalaryMax,
	}
	if t, err := time.Parse(time.RFC3339, j.Created); err == nil {
		l.PostedAt = &t
	}
	return l
}

func truncateBody(b []byte) string {
	const max = 300
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
