// Package faq provides the scored FAQ retrieval engine: synonym-expanded
// keyword matching over a fixed corpus, with category estimation as a
// ranking signal.
package faq

import (
	"log/slog"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"orbi/internal/domain"
	"orbi/internal/nlu"
)

// Scoring weights. Question matches weigh 5x over answer matches: answers
// are prose, so a hit there is weaker evidence of intent.
const (
	exactMatchScore   = 100.0
	questionHitScore  = 15.0
	answerHitScore    = 3.0
	categoryBonus     = 20.0
	nearTieThreshold  = 5.0
	minKeywordRunes   = 2
	maxProximityBonus = 10.0
)

// Engine searches an immutable FAQ corpus. Safe for concurrent use.
type Engine struct {
	corpus  []domain.FAQEntry
	lexicon *nlu.Lexicon
	logger  *slog.Logger
}

type EngineConfig struct {
	Corpus  []domain.FAQEntry
	Lexicon *nlu.Lexicon
	Logger  *slog.Logger
}

func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Lexicon == nil {
		cfg.Lexicon = nlu.DefaultLexicon()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Engine{
		corpus:  cfg.Corpus,
		lexicon: cfg.Lexicon,
		logger:  cfg.Logger,
	}
}

type scoredEntry struct {
	entry domain.FAQEntry
	score float64
}

// Search returns corpus entries ranked by descending relevance to the query.
// Entries that score zero are dropped; an empty or whitespace-only query
// returns nil without scanning the corpus. Output order is stable for a
// fixed corpus and query.
func (e *Engine) Search(query string) []domain.FAQEntry {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return nil
	}

	keywords := e.lexicon.ExpandSynonyms(normalized)
	category := e.lexicon.EstimateCategory(normalized)

	var scored []scoredEntry
	for _, entry := range e.corpus {
		if s := scoreEntry(entry, normalized, keywords, category); s > 0 {
			scored = append(scored, scoredEntry{entry: entry, score: s})
		}
	}

	// Descending by score, except that near ties (<5 apart) prefer the
	// entry whose category matches the estimate. Stable sort keeps corpus
	// order for genuine ties.
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if math.Abs(a.score-b.score) < nearTieThreshold {
			am := a.entry.Category == category
			bm := b.entry.Category == category
			if am != bm {
				return am
			}
		}
		return a.score > b.score
	})

	results := make([]domain.FAQEntry, len(scored))
	for i, s := range scored {
		results[i] = s.entry
	}

	e.logger.Debug("faq search",
		"query", normalized, "category", category,
		"keywords", len(keywords), "hits", len(results))

	return results
}

func scoreEntry(entry domain.FAQEntry, normalized string, keywords []string, category string) float64 {
	question := strings.ToLower(entry.Question)
	answer := strings.ToLower(entry.Answer)

	// Containment in either direction counts as an exact hit, so a query
	// that embeds the full question text still pins its entry to the top.
	score := 0.0
	if strings.Contains(question, normalized) || strings.Contains(normalized, question) {
		score += exactMatchScore
	}

	for _, kw := range keywords {
		if utf8.RuneCountInString(kw) < minKeywordRunes {
			continue
		}
		if strings.Contains(question, kw) {
			score += questionHitScore
		}
		if strings.Contains(answer, kw) {
			score += answerHitScore
		}
	}

	if entry.Category == category {
		score += categoryBonus
	}

	// Below the exact-match ceiling, questions of similar length to the
	// query get a weak bonus as a proxy for similar specificity.
	if score > 0 && score < exactMatchScore {
		diff := math.Abs(float64(utf8.RuneCountInString(question) - utf8.RuneCountInString(normalized)))
		score += math.Max(0, maxProximityBonus-diff/10)
	}

	return score
}

// ByCategory returns the entries of one category in corpus order.
func (e *Engine) ByCategory(category string) []domain.FAQEntry {
	var out []domain.FAQEntry
	for _, entry := range e.corpus {
		if entry.Category == category {
			out = append(out, entry)
		}
	}
	return out
}

// Stats returns total and per-category entry counts.
func (e *Engine) Stats() domain.FAQStats {
	stats := domain.FAQStats{
		Total:      len(e.corpus),
		ByCategory: make(map[string]int),
	}
	for _, entry := range e.corpus {
		stats.ByCategory[entry.Category]++
	}
	return stats
}
