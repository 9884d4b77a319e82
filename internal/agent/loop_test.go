package agent

import (
	"context"
	"strings"
	"testing"
	"time"

	"orbi/internal/bus"
	"orbi/internal/dataset"
	"orbi/internal/domain"
	"orbi/internal/faq"
	"orbi/internal/i18n"
	"orbi/internal/report"
)

func testAssistant(t *testing.T, b domain.MessageBus) *Assistant {
	t.Helper()

	sites := []domain.Site{
		{ID: "site_001", Name: "マネーブログ", Type: "ブログ", Theme: "マネー"},
	}
	records := []domain.PerformanceRecord{
		{SiteID: "site_001", Year: 2024, Month: 11, Impressions: 45231, Clicks: 1205,
			CTR: 2.66, Conversions: 89, CVR: 7.39, Approved: 67, ApprovalRate: 75.28, TotalReward: 146050},
		{SiteID: "site_001", Year: 2024, Month: 10, Impressions: 40000, Clicks: 1300,
			CTR: 3.25, Conversions: 80, CVR: 6.15, Approved: 60, ApprovalRate: 75, TotalReward: 130000},
	}
	snap := dataset.NewSnapshot(nil, sites, records, time.Now(), testLogger())

	corpus, err := dataset.LoadCorpus("", testLogger())
	if err != nil {
		t.Fatalf("cannot load corpus: %v", err)
	}

	return New(Config{
		Data:    snap,
		FAQs:    faq.NewEngine(faq.EngineConfig{Corpus: corpus, Logger: testLogger()}),
		Reports: report.NewService(snap, testLogger()),
		Bus:     b,
		Logger:  testLogger(),
	})
}

func TestRespond_DataQuery(t *testing.T) {
	a := testAssistant(t, nil)

	resp := a.Respond("マネーブログのレポート", "")
	if resp.Pipeline != PipelineData {
		t.Fatalf("expected data pipeline, got %q", resp.Pipeline)
	}
	if resp.Language != i18n.LangJapanese {
		t.Errorf("expected ja, got %q", resp.Language)
	}
	if !strings.Contains(resp.Content, "マネーブログのパフォーマンス (2024年11月)") {
		t.Errorf("expected november report, got:\n%s", resp.Content)
	}
	if !strings.Contains(resp.Content, "総報酬額: ¥146,050") {
		t.Errorf("expected total reward line, got:\n%s", resp.Content)
	}
}

func TestRespond_ComparisonQuery(t *testing.T) {
	a := testAssistant(t, nil)

	resp := a.Respond("マネーブログの11月と10月を比較", "")
	if resp.Pipeline != PipelineData {
		t.Fatalf("expected data pipeline, got %q", resp.Pipeline)
	}
	if !strings.Contains(resp.Content, "月次比較") {
		t.Errorf("expected comparison report, got:\n%s", resp.Content)
	}
	if !strings.Contains(resp.Content, "2024/11 vs 2024/10") {
		t.Errorf("expected period labels, got:\n%s", resp.Content)
	}
}

func TestRespond_DataMiss(t *testing.T) {
	a := testAssistant(t, nil)

	resp := a.Respond("謎のサイトのレポート", "")
	if resp.Content != i18n.MessagesFor(i18n.LangJapanese).NoDataFound {
		t.Errorf("expected canned no-data message, got:\n%s", resp.Content)
	}
}

func TestRespond_FAQQuery(t *testing.T) {
	a := testAssistant(t, nil)

	resp := a.Respond("登録料はかかりませんか？", "")
	if resp.Pipeline != PipelineFAQ {
		t.Fatalf("expected faq pipeline, got %q", resp.Pipeline)
	}
	if !strings.Contains(resp.Content, "無料") {
		t.Errorf("expected the registration-fee answer, got:\n%s", resp.Content)
	}
	if len(resp.RelatedQuestions) > maxRelated {
		t.Errorf("expected at most %d related questions, got %d", maxRelated, len(resp.RelatedQuestions))
	}
	for _, q := range resp.RelatedQuestions {
		if q == "登録料はかかりませんか？" {
			t.Error("the answered question must not appear in related questions")
		}
	}
}

func TestRespond_EnglishFAQQuery(t *testing.T) {
	a := testAssistant(t, nil)

	resp := a.Respond("What is the definition of self-purchase", "")
	if resp.Language != i18n.LangEnglish {
		t.Fatalf("expected en, got %q", resp.Language)
	}
	if resp.Pipeline != PipelineFAQ {
		t.Fatalf("expected faq pipeline, got %q", resp.Pipeline)
	}
	if !strings.Contains(resp.Content, "Self-purchase") {
		t.Errorf("expected translated answer, got:\n%s", resp.Content)
	}
}

func TestRespond_FAQMiss(t *testing.T) {
	a := testAssistant(t, nil)

	resp := a.Respond("今日の天気はどうですか", "")
	if resp.Content != i18n.MessagesFor(i18n.LangJapanese).NoFAQFound {
		t.Errorf("expected canned no-faq message, got:\n%s", resp.Content)
	}
}

func TestRespond_ExplicitLanguageOverridesDetection(t *testing.T) {
	a := testAssistant(t, nil)

	resp := a.Respond("謎のサイトのレポート", i18n.LangEnglish)
	if resp.Language != i18n.LangEnglish {
		t.Fatalf("expected en, got %q", resp.Language)
	}
}

func TestRun_DeliversResponseOverBus(t *testing.T) {
	b := bus.New(10, testLogger())
	defer b.Close()

	a := testAssistant(t, b)

	got := make(chan domain.OutboundMessage, 1)
	b.OnOutbound("test", func(msg domain.OutboundMessage) {
		got <- msg
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.Run(ctx)

	b.Publish(domain.InboundMessage{
		Channel:   "test",
		ChatID:    "chat-1",
		SenderID:  "user-1",
		Content:   "マネーブログのレポート",
		Timestamp: time.Now(),
	})

	select {
	case msg := <-got:
		if msg.ChatID != "chat-1" {
			t.Errorf("expected chat-1, got %q", msg.ChatID)
		}
		if !strings.Contains(msg.Content, "マネーブログのパフォーマンス") {
			t.Errorf("unexpected content:\n%s", msg.Content)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for response")
	}
}
