package report

import (
	"fmt"
	"strconv"
	"strings"

	"orbi/internal/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer renders thousands-separated integers (1234567 -> 1,234,567).
var printer = message.NewPrinter(language.Japanese)

func groupInt(n int) string {
	return printer.Sprintf("%d", n)
}

// formatRate prints an already-rounded percentage without trailing zeros
// (3.5 -> "3.5", 12.34 -> "12.34").
func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatChange annotates a percentage change with a directional glyph.
func formatChange(v float64) string {
	switch {
	case v > 0:
		return "📈 +" + formatRate(v) + "%"
	case v < 0:
		return "📉 " + formatRate(v) + "%"
	default:
		return "→ 0%"
	}
}

// formatPoints renders a percentage-point delta with an explicit sign and
// "pt" suffix (+1.25pt, -0.40pt).
func formatPoints(v float64) string {
	sign := ""
	if v > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2fpt", sign, v)
}

// FormatPerformanceReport renders a single-period report with display/click,
// conversion, approval and total-reward sections. Output is Japanese text
// with emoji section markers; translation is a caller concern.
func FormatPerformanceReport(data *domain.SitePerformance) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 **%sのパフォーマンス (%d年%d月)**\n\n", data.SiteName, data.Year, data.Month)

	b.WriteString("**表示・クリック**\n")
	fmt.Fprintf(&b, "• 表示回数: %s\n", groupInt(data.Impressions))
	fmt.Fprintf(&b, "• Click数: %s\n", groupInt(data.Clicks))
	fmt.Fprintf(&b, "• Click報酬: ¥%s\n", groupInt(data.ClickReward))
	fmt.Fprintf(&b, "• CTR: %s%%\n\n", formatRate(data.CTR))

	b.WriteString("**コンバージョン**\n")
	fmt.Fprintf(&b, "• 発生数: %s\n", groupInt(data.Conversions))
	fmt.Fprintf(&b, "• 発生報酬: ¥%s\n", groupInt(data.ConversionReward))
	fmt.Fprintf(&b, "• CVR: %s%%\n\n", formatRate(data.CVR))

	b.WriteString("**承認状況**\n")
	fmt.Fprintf(&b, "• 承認数: %s\n", groupInt(data.Approved))
	fmt.Fprintf(&b, "• 承認報酬: ¥%s\n", groupInt(data.ApprovedReward))
	fmt.Fprintf(&b, "• 承認率: %s%%\n", formatRate(data.ApprovalRate))
	fmt.Fprintf(&b, "• 未承認数: %s\n", groupInt(data.Rejected))
	fmt.Fprintf(&b, "• 未承認報酬: ¥%s\n\n", groupInt(data.RejectedReward))

	fmt.Fprintf(&b, "**総報酬額: ¥%s**", groupInt(data.TotalReward))

	return b.String()
}

// FormatComparisonReport renders a two-period comparison with directional
// glyphs on volume metrics and signed "pt" deltas on rate metrics.
func FormatComparisonReport(c *domain.ComparisonReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 **%s 月次比較**\n\n", c.SiteName)

	b.WriteString("**比較期間**\n")
	fmt.Fprintf(&b, "%s vs %s\n\n", c.Period1, c.Period2)

	b.WriteString("**主要指標の変化**\n")
	fmt.Fprintf(&b, "• 表示回数: %s (%s)\n", groupInt(c.Current.Impressions), formatChange(c.Changes.Impressions))
	fmt.Fprintf(&b, "• Click数: %s (%s)\n", groupInt(c.Current.Clicks), formatChange(c.Changes.Clicks))
	fmt.Fprintf(&b, "• CTR: %s%% (%s)\n\n", formatRate(c.Current.CTR), formatPoints(c.Changes.CTR))

	fmt.Fprintf(&b, "• 発生数: %s (%s)\n", groupInt(c.Current.Conversions), formatChange(c.Changes.Conversions))
	fmt.Fprintf(&b, "• CVR: %s%% (%s)\n\n", formatRate(c.Current.CVR), formatPoints(c.Changes.CVR))

	fmt.Fprintf(&b, "• 承認数: %s (%s)\n", groupInt(c.Current.Approved), formatChange(c.Changes.Approved))
	fmt.Fprintf(&b, "• 承認率: %s%% (%s)\n\n", formatRate(c.Current.ApprovalRate), formatPoints(c.Changes.ApprovalRate))

	b.WriteString("**総報酬額**\n")
	fmt.Fprintf(&b, "%s: ¥%s\n", c.Period1, groupInt(c.Current.TotalReward))
	fmt.Fprintf(&b, "%s: ¥%s\n", c.Period2, groupInt(c.Previous.TotalReward))
	fmt.Fprintf(&b, "変化: %s", formatChange(c.Changes.TotalReward))

	return b.String()
}
