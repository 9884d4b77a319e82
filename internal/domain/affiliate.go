package domain

// Client is an advertiser whose campaigns affiliate sites promote.
type Client struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Site is an affiliate partner site in the directory. IDs are unique;
// display names are not guaranteed to be.
type Site struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Theme     string `json:"theme"`
	PartnerID string `json:"partnerId"`
}

// PerformanceRecord is one site's monthly performance. Keyed by
// (SiteID, Year, Month); rate fields are already percentages.
type PerformanceRecord struct {
	SiteID           string  `json:"siteId"`
	Year             int     `json:"year"`
	Month            int     `json:"month"`
	Device           string  `json:"dev"`
	Impressions      int     `json:"impressions"`
	Clicks           int     `json:"clicks"`
	ClickReward      int     `json:"clickReward"`
	CTR              float64 `json:"ctr"`
	Conversions      int     `json:"conversions"`
	ConversionReward int     `json:"conversionReward"`
	CVR              float64 `json:"cvr"`
	Approved         int     `json:"approved"`
	ApprovedReward   int     `json:"approvedReward"`
	ApprovalRate     float64 `json:"approvalRate"`
	Rejected         int     `json:"rejected"`
	RejectedReward   int     `json:"rejectedReward"`
	TotalReward      int     `json:"totalReward"`
}

// SitePerformance is a performance record with the site's display name
// resolved, as returned by lookups.
type SitePerformance struct {
	PerformanceRecord
	SiteName string `json:"siteName"`
}

// Period identifies a reporting month.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// ParsedQuery holds the slots extracted from a free-text data query.
// Month is always set (defaulted when absent from the text); SiteName is
// empty and ComparisonMonth is zero when the corresponding signal was absent.
type ParsedQuery struct {
	SiteName        string
	Year            int
	Month           int
	ComparisonMonth int
}

// HasComparison reports whether the query asked for a period comparison.
func (q ParsedQuery) HasComparison() bool { return q.ComparisonMonth != 0 }

// ComparisonChanges holds per-metric deltas between two periods.
// Volume metrics are percentage changes; CTR, CVR and ApprovalRate are
// percentage-point differences.
type ComparisonChanges struct {
	Impressions  float64 `json:"impressions"`
	Clicks       float64 `json:"clicks"`
	Conversions  float64 `json:"conversions"`
	Approved     float64 `json:"approved"`
	TotalReward  float64 `json:"totalReward"`
	CTR          float64 `json:"ctr"`
	CVR          float64 `json:"cvr"`
	ApprovalRate float64 `json:"approvalRate"`
}

// ComparisonReport is a two-period comparison. It is only constructed when
// both periods resolved to a record.
type ComparisonReport struct {
	SiteName string            `json:"siteName"`
	Period1  string            `json:"period1"`
	Period2  string            `json:"period2"`
	Current  SitePerformance   `json:"current"`
	Previous SitePerformance   `json:"previous"`
	Changes  ComparisonChanges `json:"changes"`
}
