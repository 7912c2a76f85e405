package jobsearch

import (
	"regexp"
	"strings"
)

var (
	tokenRegex     = regexp.MustCompile(`[\p{L}\p{N}#+]{2,}`)
	seniorityRegex = regexp.MustCompile(`(?i)\b(estagi[aá]rio|j[uú]nior|pleno|s[eê]nior)\b`)
	remoteRegex    = regexp.MustCompile(`(?i)\b(remoto|remote|home\s*office|h[ií]brido|hybrid)\b`)
)

var stopwords = map[string]struct{}{
	"de": {}, "da": {}, "do": {}, "das": {}, "dos": {}, "em": {}, "no": {}, "na": {},
	"para": {}, "com": {}, "por": {}, "um": {}, "uma": {}, "os": {}, "as": {}, "ao": {},
	"and": {}, "the": {}, "of": {}, "to": {}, "in": {}, "for": {}, "with": {}, "anos": {}, "years": {},
}

var unaccent = strings.NewReplacer("á", "a", "ú", "u", "ê", "e")

// Score rates how well resumeText fits l, from 0 to 100. Up to 80 points come
// from the share of title and requirement terms present in the résumé, 10 from
// a matching seniority level and 10 from remote or hybrid work.
func Score(resumeText string, l Listing) int {
	resume := tokenSet(resumeText)
	if len(resume) == 0 {
		return 0
	}
	wanted := tokenSet(l.Title + " " + l.Requirements)
	if len(wanted) == 0 {
		wanted = tokenSet(l.Description)
	}
	if len(wanted) == 0 {
		return 0
	}

	hits := 0
	for tok := range wanted {
		if _, ok := resume[tok]; ok {
			hits++
		}
	}
	score := hits * 80 / len(wanted)

	if lvl := level(l.Title); lvl != "" && lvl == level(resumeText) {
		score += 10
	}
	if remoteRegex.MatchString(l.Location + " " + l.Title) {
		score += 10
	}

	if score > 100 {
		return 100
	}
	return score
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokenRegex.FindAllString(strings.ToLower(text), -1) {
		if _, skip := stopwords[tok]; skip {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}

func level(text string) string {
	m := seniorityRegex.FindString(text)
	return unaccent.Replace(strings.ToLower(m))
}
