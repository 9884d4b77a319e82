// Package report resolves performance records for affiliate sites and turns
// them into human-readable reports: single-period summaries and
// month-over-month comparisons.
package report

import (
	"fmt"
	"log/slog"
	"math"

	"orbi/internal/dataset"
	"orbi/internal/domain"
)

// Service answers performance lookups against an immutable dataset snapshot.
// Safe for concurrent use.
type Service struct {
	data   *dataset.Snapshot
	logger *slog.Logger
}

func NewService(data *dataset.Snapshot, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{data: data, logger: logger}
}

// SitePerformance returns the record for (siteID, year, month) with the
// site's display name resolved, or false when no record exists.
func (s *Service) SitePerformance(siteID string, year, month int) (*domain.SitePerformance, bool) {
	rec, ok := s.data.Record(siteID, year, month)
	if !ok {
		return nil, false
	}

	name := "Unknown"
	if site, ok := s.data.Site(siteID); ok {
		name = site.Name
	}

	return &domain.SitePerformance{PerformanceRecord: rec, SiteName: name}, true
}

// Compare builds a period-over-period report for one site. Both periods must
// resolve to a record; otherwise false is returned and no partial report is
// ever produced.
func (s *Service) Compare(siteID string, period1, period2 domain.Period) (*domain.ComparisonReport, bool) {
	current, ok := s.SitePerformance(siteID, period1.Year, period1.Month)
	if !ok {
		return nil, false
	}
	previous, ok := s.SitePerformance(siteID, period2.Year, period2.Month)
	if !ok {
		return nil, false
	}

	return &domain.ComparisonReport{
		SiteName: current.SiteName,
		Period1:  fmt.Sprintf("%d/%d", period1.Year, period1.Month),
		Period2:  fmt.Sprintf("%d/%d", period2.Year, period2.Month),
		Current:  *current,
		Previous: *previous,
		Changes: domain.ComparisonChanges{
			Impressions: percentChange(current.Impressions, previous.Impressions),
			Clicks:      percentChange(current.Clicks, previous.Clicks),
			Conversions: percentChange(current.Conversions, previous.Conversions),
			Approved:    percentChange(current.Approved, previous.Approved),
			TotalReward: percentChange(current.TotalReward, previous.TotalReward),
			// Rate metrics are percentage-point differences, not relative.
			CTR:          current.CTR - previous.CTR,
			CVR:          current.CVR - previous.CVR,
			ApprovalRate: current.ApprovalRate - previous.ApprovalRate,
		},
	}, true
}

// percentChange is (current-previous)/previous*100 rounded to two decimals.
// A zero baseline yields +100 when anything appeared and 0 when both sides
// are zero, never a division error.
func percentChange(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	change := float64(current-previous) / float64(previous) * 100
	return math.Round(change*100) / 100
}
