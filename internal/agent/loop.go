// Package agent wires the assistant together: it consumes queries from the
// message bus, routes each one to the data pipeline (parse → lookup →
// format) or the FAQ pipeline (expand → rank), and sends the rendered answer
// back on the originating channel.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"orbi/internal/dataset"
	"orbi/internal/domain"
	"orbi/internal/faq"
	"orbi/internal/i18n"
	"orbi/internal/metrics"
	"orbi/internal/nlu"
	"orbi/internal/report"
)

const (
	defaultConcurrency = 3
	maxRelated         = 4
)

// Response is a fully rendered answer to one query.
type Response struct {
	Content          string
	RelatedQuestions []string
	Pipeline         string // PipelineData | PipelineFAQ
	Language         string
}

// Assistant is the dispatcher: a stateless function of (query, snapshot)
// plus the channels around it. Each query is parsed independently; history
// is recorded for display but never read back.
type Assistant struct {
	data        *dataset.Snapshot
	router      *Router
	faqs        *faq.Engine
	reports     *report.Service
	store       domain.ConversationStore // optional
	bus         domain.MessageBus
	logger      *slog.Logger
	concurrency int
}

type Config struct {
	Data        *dataset.Snapshot
	Router      *Router
	FAQs        *faq.Engine
	Reports     *report.Service
	Store       domain.ConversationStore
	Bus         domain.MessageBus
	Logger      *slog.Logger
	Concurrency int
}

func New(cfg Config) *Assistant {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Router == nil {
		cfg.Router = NewRouter(cfg.Logger)
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &Assistant{
		data:        cfg.Data,
		router:      cfg.Router,
		faqs:        cfg.FAQs,
		reports:     cfg.Reports,
		store:       cfg.Store,
		bus:         cfg.Bus,
		logger:      cfg.Logger,
		concurrency: cfg.Concurrency,
	}
}

// Run consumes inbound messages until the context is cancelled, processing
// them with bounded concurrency. Queries share no mutable state, so parallel
// evaluation needs no coordination.
func (a *Assistant) Run(ctx context.Context) {
	a.logger.Info("assistant loop started", "concurrency", a.concurrency)

	sem := make(chan struct{}, a.concurrency)
	inbound := a.bus.Subscribe()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("assistant loop stopping")
			return
		case msg, ok := <-inbound:
			if !ok {
				a.logger.Info("inbound channel closed, assistant loop stopping")
				return
			}
			sem <- struct{}{}
			go func(m domain.InboundMessage) {
				defer func() { <-sem }()
				a.processMessage(ctx, m)
			}(msg)
		}
	}
}

func (a *Assistant) processMessage(ctx context.Context, msg domain.InboundMessage) {
	start := time.Now()

	resp := a.Respond(msg.Content, msg.Language)

	latency := time.Since(start)
	metrics.QueriesTotal(resp.Pipeline).Inc()
	metrics.ResponseLatency().Observe(latency.Seconds())

	a.logger.Info("query answered",
		"channel", msg.Channel,
		"pipeline", resp.Pipeline,
		"lang", resp.Language,
		"latency_ms", latency.Milliseconds())

	a.record(ctx, msg, resp, latency)

	a.bus.SendOutbound(domain.OutboundMessage{
		Channel:          msg.Channel,
		ChatID:           msg.ChatID,
		Content:          resp.Content,
		RelatedQuestions: resp.RelatedQuestions,
	})
}

// Respond answers one query synchronously. It never fails: every miss path
// produces a canned fallback in the query's language.
func (a *Assistant) Respond(query, lang string) Response {
	if lang == "" {
		lang = i18n.DetectLanguage(query)
	}

	pipeline := a.router.Route(query, lang)
	if pipeline == PipelineData {
		return Response{
			Content:  a.answerDataQuery(query, lang),
			Pipeline: PipelineData,
			Language: lang,
		}
	}

	content, related := a.answerFAQQuery(query, lang)
	return Response{
		Content:          content,
		RelatedQuestions: related,
		Pipeline:         PipelineFAQ,
		Language:         lang,
	}
}

// answerDataQuery runs parse → lookup → format. A comparison is attempted
// first when the query asked for one; a single-period report is the
// fallback, and the canned no-data message covers every miss.
func (a *Assistant) answerDataQuery(query, lang string) string {
	parsed := nlu.ParseQuery(query, a.data.Sites, a.data.Year)

	if parsed.SiteName != "" {
		if site, ok := nlu.FindSiteByName(parsed.SiteName, a.data.Sites); ok {
			if parsed.HasComparison() {
				cmp, ok := a.reports.Compare(site.ID,
					domain.Period{Year: parsed.Year, Month: parsed.Month},
					domain.Period{Year: parsed.Year, Month: parsed.ComparisonMonth},
				)
				if ok {
					return report.FormatComparisonReport(cmp)
				}
			}

			if perf, ok := a.reports.SitePerformance(site.ID, parsed.Year, parsed.Month); ok {
				return report.FormatPerformanceReport(perf)
			}
		}
	}

	metrics.DataMisses().Inc()
	return i18n.MessagesFor(lang).NoDataFound
}

// answerFAQQuery runs expand → rank. English queries are first resolved to
// their canonical Japanese question when a mapping exists; the answer and
// related questions are translated back on the way out. This is the single
// translation path for FAQ answers.
func (a *Assistant) answerFAQQuery(query, lang string) (string, []string) {
	searchQuery := query
	if lang == i18n.LangEnglish {
		if jq, ok := i18n.ResolveEnglishQuery(query); ok {
			searchQuery = jq
		}
	}

	results := a.faqs.Search(searchQuery)
	if len(results) == 0 {
		metrics.FAQMisses().Inc()
		return i18n.MessagesFor(lang).NoFAQFound, nil
	}
	metrics.FAQHits().Inc()

	top := results[0]
	answer := top.Answer
	if lang == i18n.LangEnglish {
		answer = i18n.TranslateAnswer(top.Question, top.Answer)
	}

	var related []string
	for _, entry := range results[1:] {
		if len(related) == maxRelated {
			break
		}
		q := entry.Question
		if lang == i18n.LangEnglish {
			q = i18n.TranslateQuestion(q)
		}
		related = append(related, q)
	}

	return answer, related
}

// record persists the user/assistant exchange when a store is configured.
// Failures are logged, never surfaced: history is display-only.
func (a *Assistant) record(ctx context.Context, msg domain.InboundMessage, resp Response, latency time.Duration) {
	if a.store == nil {
		return
	}

	convID := fmt.Sprintf("%s:%s", msg.Channel, msg.ChatID)
	err := a.store.CreateConversation(ctx, domain.Conversation{
		ID:       convID,
		Channel:  msg.Channel,
		Title:    generateTitle(msg.Content),
		Language: resp.Language,
	})
	if err == nil {
		err = a.store.AddMessage(ctx, convID, domain.MessageRecord{
			Role:    "user",
			Content: msg.Content,
		})
	}
	if err == nil {
		err = a.store.AddMessage(ctx, convID, domain.MessageRecord{
			Role:      "assistant",
			Content:   resp.Content,
			Pipeline:  resp.Pipeline,
			LatencyMs: latency.Milliseconds(),
		})
	}
	if err != nil {
		a.logger.Warn("cannot record conversation", "conversation", convID, "err", err)
	}
}
