package nlu

import (
	"testing"

	"orbi/internal/domain"
)

func testSites() []domain.Site {
	return []domain.Site{
		{ID: "site_001", Name: "マネーブログ"},
		{ID: "site_002", Name: "ライフスタイルブログ"},
		{ID: "site_003", Name: "美容レビューサイト"},
	}
}

func TestParseQuery_SiteAndDefaultMonth(t *testing.T) {
	got := ParseQuery("マネーブログのレポート", testSites(), 2024)

	if got.SiteName != "マネーブログ" {
		t.Errorf("expected マネーブログ, got %q", got.SiteName)
	}
	if got.Year != 2024 {
		t.Errorf("expected year 2024, got %d", got.Year)
	}
	if got.Month != DefaultMonth {
		t.Errorf("expected default month %d, got %d", DefaultMonth, got.Month)
	}
	if got.HasComparison() {
		t.Errorf("expected no comparison, got month %d", got.ComparisonMonth)
	}
}

func TestParseQuery_ExplicitComparison(t *testing.T) {
	got := ParseQuery("ライフスタイルブログの11月と10月を比較", testSites(), 2024)

	if got.SiteName != "ライフスタイルブログ" {
		t.Errorf("expected ライフスタイルブログ, got %q", got.SiteName)
	}
	if got.Month != 11 {
		t.Errorf("expected month 11, got %d", got.Month)
	}
	if got.ComparisonMonth != 10 {
		t.Errorf("expected comparison month 10, got %d", got.ComparisonMonth)
	}
}

func TestParseQuery_BareComparison(t *testing.T) {
	got := ParseQuery("先月と比較してください", testSites(), 2024)

	if got.Month != DefaultMonth {
		t.Errorf("expected default month %d, got %d", DefaultMonth, got.Month)
	}
	if got.ComparisonMonth != DefaultComparisonMonth {
		t.Errorf("expected default comparison month %d, got %d", DefaultComparisonMonth, got.ComparisonMonth)
	}
}

func TestParseQuery_ExplicitMonthWithComparison(t *testing.T) {
	got := ParseQuery("3月のレポートを前月と比較", testSites(), 2024)

	if got.Month != 3 {
		t.Errorf("expected month 3, got %d", got.Month)
	}
	if got.ComparisonMonth != 2 {
		t.Errorf("expected comparison month 2, got %d", got.ComparisonMonth)
	}
}

func TestParseQuery_EnglishMonthNames(t *testing.T) {
	if got := ParseQuery("show me the november numbers", testSites(), 2024); got.Month != 11 {
		t.Errorf("november: expected month 11, got %d", got.Month)
	}
	if got := ParseQuery("October performance", testSites(), 2024); got.Month != 10 {
		t.Errorf("october: expected month 10, got %d", got.Month)
	}
	if got := ParseQuery("compare with last month", testSites(), 2024); got.ComparisonMonth != DefaultComparisonMonth {
		t.Errorf("last month: expected comparison month %d, got %d", DefaultComparisonMonth, got.ComparisonMonth)
	}
}

func TestParseQuery_UnknownSite(t *testing.T) {
	got := ParseQuery("謎のサイトのレポート", testSites(), 2024)
	if got.SiteName != "" {
		t.Errorf("expected empty site name, got %q", got.SiteName)
	}
}

func TestParseQuery_FirstSiteInDirectoryOrderWins(t *testing.T) {
	sites := []domain.Site{
		{ID: "site_001", Name: "ブログ"},
		{ID: "site_002", Name: "マネーブログ"},
	}
	// Both names are contained in the query; directory order decides.
	got := ParseQuery("マネーブログのレポート", sites, 2024)
	if got.SiteName != "ブログ" {
		t.Errorf("expected first match ブログ, got %q", got.SiteName)
	}
}

// --- MatchesSiteName / FindSiteByName ---

func TestMatchesSiteName_Bidirectional(t *testing.T) {
	site := domain.Site{ID: "site_001", Name: "マネーブログ"}

	if !MatchesSiteName(site, "マネー") {
		t.Error("expected partial query to match site name")
	}
	if !MatchesSiteName(site, "マネーブログについて") {
		t.Error("expected query containing site name to match")
	}
	if MatchesSiteName(site, "旅行メディア") {
		t.Error("expected unrelated query not to match")
	}
}

func TestMatchesSiteName_CaseInsensitive(t *testing.T) {
	site := domain.Site{ID: "site_001", Name: "Money Blog"}
	if !MatchesSiteName(site, "MONEY BLOG") {
		t.Error("expected case-insensitive match")
	}
}

func TestFindSiteByName_FirstMatch(t *testing.T) {
	site, ok := FindSiteByName("ライフスタイルブログ", testSites())
	if !ok {
		t.Fatal("expected a match")
	}
	if site.ID != "site_002" {
		t.Errorf("expected site_002, got %s", site.ID)
	}
}

func TestFindSiteByName_NoMatch(t *testing.T) {
	if _, ok := FindSiteByName("存在しないサイト", testSites()); ok {
		t.Error("expected no match")
	}
}
