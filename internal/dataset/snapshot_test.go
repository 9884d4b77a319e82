package dataset

import (
	"testing"
	"time"

	"orbi/internal/domain"
)

func TestNewSnapshot_DuplicateKeyFirstWins(t *testing.T) {
	records := []domain.PerformanceRecord{
		{SiteID: "site_001", Year: 2024, Month: 11, Impressions: 100},
		{SiteID: "site_001", Year: 2024, Month: 11, Impressions: 999},
	}
	snap := NewSnapshot(nil, nil, records, time.Now(), testLogger())

	if len(snap.Records) != 1 {
		t.Fatalf("expected duplicate dropped, got %d records", len(snap.Records))
	}
	rec, ok := snap.Record("site_001", 2024, 11)
	if !ok {
		t.Fatal("expected record")
	}
	if rec.Impressions != 100 {
		t.Errorf("expected first record to win, got impressions %d", rec.Impressions)
	}
}

func TestSnapshot_RecordLookup(t *testing.T) {
	records := []domain.PerformanceRecord{
		{SiteID: "site_001", Year: 2024, Month: 10},
		{SiteID: "site_001", Year: 2024, Month: 11},
		{SiteID: "site_002", Year: 2024, Month: 11},
	}
	snap := NewSnapshot(nil, nil, records, time.Now(), testLogger())

	if _, ok := snap.Record("site_001", 2024, 10); !ok {
		t.Error("expected record for site_001 10")
	}
	if _, ok := snap.Record("site_002", 2024, 10); ok {
		t.Error("expected no record for site_002 10")
	}
	if _, ok := snap.Record("site_003", 2024, 11); ok {
		t.Error("expected no record for unknown site")
	}
}

func TestSnapshot_YearDerivedFromRecords(t *testing.T) {
	records := []domain.PerformanceRecord{
		{SiteID: "site_001", Year: 2023, Month: 11},
		{SiteID: "site_001", Year: 2025, Month: 1},
	}
	snap := NewSnapshot(nil, nil, records, time.Now(), testLogger())
	if snap.Year != 2025 {
		t.Errorf("expected max record year 2025, got %d", snap.Year)
	}
}

func TestSnapshot_YearFallback(t *testing.T) {
	snap := NewSnapshot(nil, nil, nil, time.Now(), testLogger())
	if snap.Year != DatasetYear {
		t.Errorf("expected fallback year %d, got %d", DatasetYear, snap.Year)
	}
}

func TestSnapshot_SiteLookup(t *testing.T) {
	sites := []domain.Site{
		{ID: "site_001", Name: "マネーブログ"},
		{ID: "site_002", Name: "旅行メディア"},
	}
	snap := NewSnapshot(nil, sites, nil, time.Now(), testLogger())

	site, ok := snap.Site("site_002")
	if !ok {
		t.Fatal("expected site")
	}
	if site.Name != "旅行メディア" {
		t.Errorf("unexpected site: %+v", site)
	}
	if _, ok := snap.Site("site_999"); ok {
		t.Error("expected no site for unknown ID")
	}
}

func TestSnapshot_RecordsForMonth(t *testing.T) {
	records := []domain.PerformanceRecord{
		{SiteID: "site_001", Year: 2024, Month: 10},
		{SiteID: "site_002", Year: 2024, Month: 11},
		{SiteID: "site_003", Year: 2024, Month: 11},
	}
	snap := NewSnapshot(nil, nil, records, time.Now(), testLogger())

	got := snap.RecordsForMonth(2024, 11)
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].SiteID != "site_002" || got[1].SiteID != "site_003" {
		t.Errorf("expected stored order, got %s, %s", got[0].SiteID, got[1].SiteID)
	}
}
