package dataset

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"orbi/internal/domain"
)

// DatasetYear is the reporting year covered by generated fixtures. Records
// exist for October and November of this year.
const DatasetYear = 2024

const (
	generatedClients = 50
	generatedSites   = 100
)

var clientTypes = []string{"株式会社", "合同会社", ""}

var clientNames = []string{
	"アクシア", "ビズテック", "クラウドソリューション", "マーケティングプラス", "デジタルワークス",
	"フューチャーネット", "スマートビジネス", "グローバルトレード", "エコシステム", "イノベーション",
	"テクノロジーハブ", "クリエイティブスタジオ", "ソーシャルメディア", "Eコマース", "ヘルスケア",
	"ファイナンシャル", "エデュケーション", "トラベルサービス", "フードデリバリー", "ファッション",
	"ビューティー", "スポーツ", "エンタメ", "ゲーミング", "モビリティ",
	"リアルエステート", "インテリア", "ペット", "ベビー", "シニアケア",
	"エナジー", "セキュリティ", "インシュアランス", "コンサルティング", "リクルートメント",
	"アウトソーシング", "ロジスティクス", "マニュファクチャリング", "アグリテック", "バイオテック",
	"メディカルケア", "ウェルネス", "フィットネス", "ホームサービス", "クリーニング",
	"リフォーム", "ガーデニング", "オートモーティブ", "トラベルテック", "ホスピタリティ",
}

var clientCategories = []string{"EC", "サービス", "金融", "美容", "健康", "教育", "不動産"}

var siteTypes = []string{"ブログ", "レビューサイト", "ランキングサイト", "SNS", "YouTube", "メディア"}

var siteThemes = []string{
	"マネー", "ライフスタイル", "美容", "健康", "グルメ", "旅行", "ファッション", "育児",
	"ペット", "インテリア", "ガジェット", "ゲーム", "アニメ", "スポーツ", "ビジネス",
	"投資", "節約", "ポイ活", "クレカ", "保険", "転職", "副業", "起業", "資格",
	"スキルアップ",
}

// Generate produces a deterministic fixture snapshot for the given seed:
// 50 clients, 100 affiliate sites, and one performance record per site for
// October and November of DatasetYear.
func Generate(seed int64, logger *slog.Logger) *Snapshot {
	rng := rand.New(rand.NewSource(seed))

	clients := make([]domain.Client, generatedClients)
	for i := range clients {
		clients[i] = domain.Client{
			ID:       fmt.Sprintf("client_%03d", i+1),
			Name:     clientTypes[i%len(clientTypes)] + clientNames[i%len(clientNames)],
			Category: clientCategories[i%len(clientCategories)],
		}
	}

	sites := make([]domain.Site, generatedSites)
	for i := range sites {
		suffix := ""
		if i > 25 {
			suffix = fmt.Sprintf("%d", i%10+1)
		}
		theme := siteThemes[i%len(siteThemes)]
		typ := siteTypes[i%len(siteTypes)]
		sites[i] = domain.Site{
			ID:        fmt.Sprintf("site_%03d", i+1),
			Name:      theme + typ + suffix,
			Type:      typ,
			Theme:     theme,
			PartnerID: fmt.Sprintf("partner_%03d", i+1),
		}
	}

	var records []domain.PerformanceRecord
	for _, site := range sites {
		records = append(records,
			generateRecord(rng, site.ID, DatasetYear, 10),
			generateRecord(rng, site.ID, DatasetYear, 11),
		)
	}

	return NewSnapshot(clients, sites, records, time.Now(), logger)
}

func generateRecord(rng *rand.Rand, siteID string, year, month int) domain.PerformanceRecord {
	impressions := randomInt(rng, 1000, 100000)
	clicks := randomInt(rng, impressions/1000, impressions/20)
	clickReward := randomInt(rng, 0, clicks*randomInt(rng, 5, 50))
	ctr := float64(clicks) / float64(impressions)

	conversions := randomInt(rng, 0, clicks*3/10)
	conversionReward := conversions * randomInt(rng, 500, 5000)
	cvr := 0.0
	if clicks > 0 {
		cvr = float64(conversions) / float64(clicks)
	}

	approved := randomInt(rng, conversions/2, conversions)
	approvedReward := approved * randomInt(rng, 500, 5000)
	approvalRate := 0.0
	if conversions > 0 {
		approvalRate = float64(approved) / float64(conversions)
	}

	rejected := conversions - approved
	rejectedReward := rejected * randomInt(rng, 500, 5000)

	device := "PC"
	if month == 11 && rng.Intn(2) == 1 {
		device = "SP"
	}

	return domain.PerformanceRecord{
		SiteID:           siteID,
		Year:             year,
		Month:            month,
		Device:           device,
		Impressions:      impressions,
		Clicks:           clicks,
		ClickReward:      clickReward,
		CTR:              round2(ctr * 100),
		Conversions:      conversions,
		ConversionReward: conversionReward,
		CVR:              round2(cvr * 100),
		Approved:         approved,
		ApprovedReward:   approvedReward,
		ApprovalRate:     round2(approvalRate * 100),
		Rejected:         rejected,
		RejectedReward:   rejectedReward,
		TotalReward:      clickReward + approvedReward,
	}
}

// randomInt returns an integer in [min, max].
func randomInt(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min+1)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// affiliateFile is the on-disk JSON shape of the affiliate snapshot.
type affiliateFile struct {
	Clients         []domain.Client            `json:"clients"`
	AffiliateSites  []domain.Site              `json:"affiliateSites"`
	PerformanceData []domain.PerformanceRecord `json:"performanceData"`
	GeneratedAt     time.Time                  `json:"generatedAt"`
}

// WriteSnapshot serializes a snapshot as JSON at path, creating parent
// directories as needed.
func WriteSnapshot(path string, s *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create data directory: %w", err)
	}

	data, err := json.MarshalIndent(affiliateFile{
		Clients:         s.Clients,
		AffiliateSites:  s.Sites,
		PerformanceData: s.Records,
		GeneratedAt:     s.GeneratedAt,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal affiliate data: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
