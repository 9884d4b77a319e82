package agent

import (
	"log/slog"
	"regexp"
)

// Pipelines a query can be routed to.
const (
	PipelineData = "data"
	PipelineFAQ  = "faq"
)

var (
	dataPatternJa = regexp.MustCompile(`レポート|パフォーマンス|成果|比較|先月|前月|データ`)
	dataPatternEn = regexp.MustCompile(`(?i)report|performance|result|compar|last month|previous month|data`)
)

// Router decides whether an incoming query is a performance-data request or
// an FAQ question. The gate is a fixed keyword pattern per language; there is
// no model and no scoring.
type Router struct {
	logger *slog.Logger
}

func NewRouter(logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{logger: logger}
}

// Route returns PipelineData when the query contains a data-domain trigger
// word for the given language, PipelineFAQ otherwise.
func (r *Router) Route(query, lang string) string {
	pattern := dataPatternJa
	if lang == "en" {
		pattern = dataPatternEn
	}
	if pattern.MatchString(query) {
		r.logger.Debug("routed to data pipeline", "lang", lang)
		return PipelineData
	}
	return PipelineFAQ
}
