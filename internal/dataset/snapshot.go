// Package dataset owns the read-only data the assistant queries: the
// affiliate site directory with monthly performance records, and the FAQ
// corpus. Everything is loaded once up front; nothing here mutates after
// construction.
package dataset

import (
	"log/slog"
	"time"

	"orbi/internal/domain"
)

type recordKey struct {
	siteID string
	year   int
	month  int
}

// Snapshot is an immutable view of the affiliate dataset. Records are
// indexed by (siteID, year, month); when the source data carries duplicate
// keys, the first record in stored order wins and the rest are dropped at
// load time.
type Snapshot struct {
	Clients     []domain.Client
	Sites       []domain.Site
	Records     []domain.PerformanceRecord
	Year        int
	GeneratedAt time.Time

	index map[recordKey]int
	sites map[string]int
}

// NewSnapshot builds the lookup indexes. Duplicate record keys are logged
// and ignored.
func NewSnapshot(clients []domain.Client, sites []domain.Site, records []domain.PerformanceRecord, generatedAt time.Time, logger *slog.Logger) *Snapshot {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Snapshot{
		Clients:     clients,
		Sites:       sites,
		GeneratedAt: generatedAt,
		index:       make(map[recordKey]int),
		sites:       make(map[string]int, len(sites)),
	}

	for i, site := range sites {
		s.sites[site.ID] = i
	}

	for _, rec := range records {
		key := recordKey{siteID: rec.SiteID, year: rec.Year, month: rec.Month}
		if _, dup := s.index[key]; dup {
			logger.Warn("duplicate performance record dropped",
				"siteId", rec.SiteID, "year", rec.Year, "month", rec.Month)
			continue
		}
		s.index[key] = len(s.Records)
		s.Records = append(s.Records, rec)
		if rec.Year > s.Year {
			s.Year = rec.Year
		}
	}

	if s.Year == 0 {
		s.Year = DatasetYear
	}

	return s
}

// Record returns the unique performance record for (siteID, year, month).
func (s *Snapshot) Record(siteID string, year, month int) (domain.PerformanceRecord, bool) {
	i, ok := s.index[recordKey{siteID: siteID, year: year, month: month}]
	if !ok {
		return domain.PerformanceRecord{}, false
	}
	return s.Records[i], true
}

// Site returns the directory entry for the given ID.
func (s *Snapshot) Site(id string) (domain.Site, bool) {
	i, ok := s.sites[id]
	if !ok {
		return domain.Site{}, false
	}
	return s.Sites[i], true
}

// RecordsForMonth returns all records for one (year, month) in stored order.
func (s *Snapshot) RecordsForMonth(year, month int) []domain.PerformanceRecord {
	var out []domain.PerformanceRecord
	for _, rec := range s.Records {
		if rec.Year == year && rec.Month == month {
			out = append(out, rec)
		}
	}
	return out
}
