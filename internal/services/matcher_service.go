package services

import (
	"net/mail"
	"regexp"
	"strconv"
	"strings"

	"github.com/justsurfingit/carreira-ia/internal/models"
)

var referenceRe = regexp.MustCompile(`(?i)\bAPP-(\d+)\b`)

// MatcherService links a recruiter email to the sent applications it may be about.
type MatcherService struct{}

func NewMatcherService() *MatcherService {
	return &MatcherService{}
}

// ByReference returns the application whose APP-<id> tag appears in the
// subject or body, if it is one of apps.
func (m *MatcherService) ByReference(apps []models.JobApplication, subject, body string) *models.JobApplication {
	for _, text := range []string{subject, body} {
		for _, match := range referenceRe.FindAllStringSubmatch(text, -1) {
			id, err := strconv.ParseUint(match[1], 10, 64)
			if err != nil {
				continue
			}
			for i := range apps {
				if uint64(apps[i].ID) == id {
					return &apps[i]
				}
			}
		}
	}
	return nil
}

// ByCompany returns the company matched from the email and every application
// to that company. Rules are tried in order: subject, sender display name,
// sender domain.
func (m *MatcherService) ByCompany(apps []models.JobApplication, subject, rawSender string) (string, []models.JobApplication) {
	// "Nubank Recruiting <jobs@nubank.com.br>" -> name, addr
	senderName, senderAddr := "", ""
	if parsed, err := mail.ParseAddress(rawSender); err == nil {
		senderName = strings.ToLower(parsed.Name)
		senderAddr = strings.ToLower(parsed.Address)
	} else {
		senderAddr = strings.ToLower(rawSender)
	}
	domain := ""
	if parts := strings.Split(senderAddr, "@"); len(parts) == 2 {
		domain = parts[1]
	}
	subjectLower := strings.ToLower(subject)

	rules := []func(company string) bool{
		func(c string) bool { return strings.Contains(subjectLower, c) },
		func(c string) bool { return senderName != "" && strings.Contains(senderName, c) },
		func(c string) bool { return domain != "" && strings.Contains(domain, strings.ReplaceAll(c, " ", "")) },
	}
	for _, rule := range rules {
		for _, company := range companies(apps) {
			if rule(company) {
				return company, appsForCompany(apps, company)
			}
		}
	}
	return "", nil
}

// companies lists the distinct lowercased company names, skipping names
// shorter than three characters.
func companies(apps []models.JobApplication) []string {
	seen := map[string]bool{}
	var out []string
	for _, a := range apps {
		if a.JobListing == nil {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(a.JobListing.Company))
		if len(name) < 3 || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func appsForCompany(apps []models.JobApplication, company string) []models.JobApplication {
	var out []models.JobApplication
	for _, a := range apps {
		if a.JobListing != nil && strings.ToLower(strings.TrimSpace(a.JobListing.Company)) == company {
			out = append(out, a)
		}
	}
	return out
}
