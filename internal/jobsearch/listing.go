// Package jobsearch finds job listings: the Adzuna API when configured, a
// static catalog otherwise, plus a résumé match score for each result.
package jobsearch

import (
	"fmt"
	"strings"
	"time"
)

type Listing struct {
	Title        string
	Company      string
	Description  string
	Location     string
	SourceURL    string
	SourceSite   string
	Requirements string
	ExternalID   string
	SalaryMin    float64
	SalaryMax    float64
	PostedAt     *time.Time
}

// Salary renders the range the way the product shows it, e.g. "R$ 6000 - R$ 9000".
func (l Listing) Salary() string {
	switch {
	case l.SalaryMin > 0 && l.SalaryMax > 0:
		return fmt.Sprintf("R$ %.0f - R$ %.0f", l.SalaryMin, l.SalaryMax)
	case l.SalaryMin > 0:
		return fmt.Sprintf("R$ %.0f", l.SalaryMin)
	case l.SalaryMax > 0:
		return fmt.Sprintf("R$ %.0f", l.SalaryMax)
	}
	return ""
}

type Query struct {
	What           string
	Where          string
	SalaryMin      int
	SalaryMax      int
	Page           int
	ResultsPerPage int
	SortBy         string // relevance | date | salary
	FullTime       bool
	PartTime       bool
	Permanent      bool
	Contract       bool
	MaxDaysOld     int
}

// Filter keeps the listings matching q: case-insensitive substring of q.What
// over title, company, description, requirements and location, then the
// optional location and salary bounds.
func Filter(listings []Listing, q Query) []Listing {
	what := strings.ToLower(strings.TrimSpace(q.What))
	where := strings.ToLower(strings.TrimSpace(q.Where))

	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if what != "" {
			hay := strings.ToLower(strings.Join([]string{l.Title, l.Company, l.Description, l.Requirements, l.Location}, " "))
			if !strings.Contains(hay, what) {
				continue
			}
		}
		if where != "" && !strings.Contains(strings.ToLower(l.Location), where) {
			continue
		}
		if q.SalaryMin > 0 && l.SalaryMax > 0 && l.SalaryMax < float64(q.SalaryMin) {
			continue
		}
		if q.SalaryMax > 0 && l.SalaryMin > 0 && l.SalaryMin > float64(q.SalaryMax) {
			continue
		}
		out = append(out, l)
	}
	return out
}
