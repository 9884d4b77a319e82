package nlu

import (
	"regexp"
	"strconv"
	"strings"

	"orbi/internal/domain"
)

// DefaultMonth is assumed when a data query names no month; DefaultComparisonMonth
// is paired with it for bare "compare with last month" style queries.
const (
	DefaultMonth           = 11
	DefaultComparisonMonth = 10
)

var (
	monthPattern      = regexp.MustCompile(`(\d+)月`)
	novemberPattern   = regexp.MustCompile(`(?i)november|nov`)
	octoberPattern    = regexp.MustCompile(`(?i)october|oct`)
	comparisonPattern = regexp.MustCompile(`(?i)先月|前月|比較|last month|previous month|compar`)
)

// MatchesSiteName reports whether the site's name and the query contain each
// other as substrings in either direction, case-insensitively. This is the
// single matching primitive behind all site lookups: first match in directory
// order wins, even when one site's name is a substring of another's.
func MatchesSiteName(site domain.Site, query string) bool {
	name := strings.ToLower(site.Name)
	q := strings.ToLower(query)
	return strings.Contains(name, q) || strings.Contains(q, name)
}

// FindSiteByName returns the first site in directory order matching the query
// text, or false when none does.
func FindSiteByName(query string, sites []domain.Site) (domain.Site, bool) {
	for _, site := range sites {
		if MatchesSiteName(site, query) {
			return site, true
		}
	}
	return domain.Site{}, false
}

// ParseQuery extracts the site, target month and optional comparison month
// from a free-text data query. It never fails: a missing site leaves SiteName
// empty, a missing month falls back to DefaultMonth, and ComparisonMonth stays
// zero unless a comparison trigger phrase is present. The year is always the
// dataset year; it is never read from the text.
func ParseQuery(query string, sites []domain.Site, year int) domain.ParsedQuery {
	lower := strings.ToLower(query)

	var siteName string
	for _, site := range sites {
		if strings.Contains(lower, strings.ToLower(site.Name)) {
			siteName = site.Name
			break
		}
	}

	month := 0
	if m := monthPattern.FindStringSubmatch(query); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			month = n
		}
	} else if novemberPattern.MatchString(query) {
		month = 11
	} else if octoberPattern.MatchString(query) {
		month = 10
	}

	comparisonMonth := 0
	if comparisonPattern.MatchString(query) {
		if month != 0 {
			comparisonMonth = month - 1
		} else {
			comparisonMonth = DefaultComparisonMonth
		}
	}
	if month == 0 {
		month = DefaultMonth
	}

	return domain.ParsedQuery{
		SiteName:        siteName,
		Year:            year,
		Month:           month,
		ComparisonMonth: comparisonMonth,
	}
}
