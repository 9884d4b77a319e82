// Package nlu implements the lightweight query understanding used by the
// assistant: synonym expansion, topic category estimation, and slot parsing
// for site/period references. No model and no fuzziness, just fixed tables
// and substring heuristics.
package nlu

import (
	"strings"

	"orbi/internal/domain"
)

// SynonymGroup maps a trigger keyword to related terms. Groups are directed:
// several keys may carry overlapping synonym sets and nothing enforces
// symmetry between them.
type SynonymGroup struct {
	Key      string   `yaml:"key"`
	Synonyms []string `yaml:"synonyms"`
}

// CategoryKeywords lists the keywords whose presence in a query is evidence
// for a category.
type CategoryKeywords struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Lexicon is the static vocabulary for expansion and category estimation.
// Both tables are ordered slices: iteration order is declaration order, which
// makes the category tie-break deterministic.
type Lexicon struct {
	Synonyms   []SynonymGroup     `yaml:"synonyms"`
	Categories []CategoryKeywords `yaml:"categories"`
}

// DefaultLexicon returns the built-in Japanese/English vocabulary.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Synonyms: []SynonymGroup{
			// 報酬・支払い関連
			{Key: "報酬", Synonyms: []string{"振込", "入金", "支払い", "支払", "payment", "payout", "transfer"}},
			{Key: "振込", Synonyms: []string{"報酬", "入金", "支払い", "payment", "transfer"}},
			{Key: "777円", Synonyms: []string{"報酬", "振込", "payment", "777 yen"}},

			// 退会・解約関連
			{Key: "退会", Synonyms: []string{"解約", "やめる", "アカウント削除", "cancel", "quit", "unregister"}},
			{Key: "解約", Synonyms: []string{"退会", "やめる", "cancel"}},

			// プロモーション関連
			{Key: "プロモーション", Synonyms: []string{"案件", "広告", "提携先", "promotion", "campaign", "offer"}},
			{Key: "案件", Synonyms: []string{"プロモーション", "広告", "campaign", "offer"}},
			{Key: "却下", Synonyms: []string{"承認されない", "否認", "rejected", "declined"}},

			// 海外・居住地関連
			{Key: "海外", Synonyms: []string{"外国", "国外", "海外在住", "海外に住んで", "overseas", "abroad", "foreign"}},
			{Key: "海外在住", Synonyms: []string{"海外", "外国", "live overseas", "living abroad"}},

			// 登録・審査関連
			{Key: "登録", Synonyms: []string{"会員登録", "サインアップ", "登録でき", "登録は可能", "register", "registration", "signup", "sign up"}},
			{Key: "審査", Synonyms: []string{"登録", "承認", "review", "approval", "verification"}},
			{Key: "会員登録", Synonyms: []string{"登録", "register", "signup"}},

			// 銀行口座関連
			{Key: "銀行口座", Synonyms: []string{"口座", "銀行", "金融機関", "bank account", "bank"}},
			{Key: "口座", Synonyms: []string{"銀行口座", "銀行", "account", "bank account"}},

			// 成果・コンバージョン関連
			{Key: "成果", Synonyms: []string{"cv", "コンバージョン", "発生", "conversion", "result"}},
			{Key: "cv", Synonyms: []string{"成果", "コンバージョン", "conversion"}},
			{Key: "承認", Synonyms: []string{"確認", "成果", "approved", "approval"}},

			// English triggers back to Japanese
			{Key: "payment", Synonyms: []string{"報酬", "振込", "支払い"}},
			{Key: "overseas", Synonyms: []string{"海外", "海外在住"}},
			{Key: "register", Synonyms: []string{"登録", "会員登録"}},
			{Key: "registration", Synonyms: []string{"登録", "会員登録"}},
			{Key: "cancel", Synonyms: []string{"退会", "解約"}},
			{Key: "campaign", Synonyms: []string{"案件", "プロモーション"}},
			{Key: "conversion", Synonyms: []string{"成果", "cv"}},
		},
		Categories: []CategoryKeywords{
			{Category: domain.CategorySignup, Keywords: []string{"登録", "会員", "審査", "海外", "サインアップ", "新規", "個人情報", "register", "signup"}},
			{Category: domain.CategoryPromotion, Keywords: []string{"プロモーション", "提携", "案件", "申請", "却下", "promotion", "campaign"}},
			{Category: domain.CategoryPayment, Keywords: []string{"報酬", "支払い", "振込", "入金", "777円", "payment", "payout"}},
			{Category: domain.CategoryResult, Keywords: []string{"成果", "cv", "コンバージョン", "承認", "conversion", "result"}},
		},
	}
}

// splitQuery tokenizes on whitespace (including full-width U+3000) and the
// common Japanese punctuation delimiters 、 and 。.
func splitQuery(q string) []string {
	return strings.FieldsFunc(q, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '　' || r == '、' || r == '。'
	})
}

// ExpandSynonyms lowercases and tokenizes the query, then collects every
// synonym group whose key contains a token or is contained in one. The
// lowercased whole query is always a member of the result, so exact-phrase
// scoring downstream stays possible.
func (l *Lexicon) ExpandSynonyms(query string) []string {
	lower := strings.ToLower(query)

	expanded := []string{lower}
	seen := map[string]bool{lower: true}
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			expanded = append(expanded, s)
		}
	}

	for _, token := range splitQuery(lower) {
		for _, group := range l.Synonyms {
			if strings.Contains(token, group.Key) || strings.Contains(group.Key, token) {
				for _, syn := range group.Synonyms {
					add(strings.ToLower(syn))
				}
				add(group.Key)
			}
		}
	}

	return expanded
}

// EstimateCategory scores each category by the summed length of its keywords
// found in the query, so longer (more specific) keywords weigh more. Returns
// the strictly best category, or "" when nothing matched. Categories are
// checked in declaration order and a later one must score strictly higher to
// win, which pins the tie-break.
func (l *Lexicon) EstimateCategory(query string) string {
	lower := strings.ToLower(query)

	best := ""
	maxScore := 0
	for _, ck := range l.Categories {
		score := 0
		for _, kw := range ck.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				score += len([]rune(kw))
			}
		}
		if score > maxScore {
			maxScore = score
			best = ck.Category
		}
	}
	return best
}
