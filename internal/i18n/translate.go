// Package i18n provides best-effort English rendering of the assistant's
// Japanese output: fixed phrase tables for FAQ answers and questions, a
// reverse lookup from English queries to canonical Japanese questions, and
// the canned UI strings per language. Anything without a mapping falls back
// to the original Japanese text.
package i18n

import (
	"regexp"
	"strings"
)

const (
	LangJapanese = "ja"
	LangEnglish  = "en"
)

var (
	latinPattern    = regexp.MustCompile(`[a-zA-Z]`)
	japanesePattern = regexp.MustCompile(`[\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}]`)
)

// DetectLanguage classifies a query as English only when it contains Latin
// letters and no Japanese script; everything else is Japanese.
func DetectLanguage(query string) string {
	if latinPattern.MatchString(query) && !japanesePattern.MatchString(query) {
		return LangEnglish
	}
	return LangJapanese
}

type answerTranslation struct {
	question string
	answer   string
}

// Ordered so partial matching is deterministic.
var answerTranslations = []answerTranslation{
	{"成果確認について", "Regarding 'Confirmation of results', there are two possible scenarios: results not being generated correctly, or results being rejected. First, please check all results (approved, pending, and rejected) in 'Result Generation Status Confirmation'. If results are not generated correctly, the advertisement may not be properly displayed."},
	{"成果が正しく発生しなかった場合", "If results are not generated correctly, please check if the advertisement is properly displayed on your site. Ensure that the tracking code is correctly installed and not modified."},
	{"成果が却下されている場合", "If results are rejected, it means the advertiser has determined that the conversion did not meet the conditions. Common reasons include cancellations, duplicate applications, or failure to meet specific criteria."},
	{"成果が却下されてしまったのは何故ですか？", "The reason for rejection depends on the advertiser's criteria. Common reasons include: cancellation of the order, duplicate application, payment failure, or not meeting the specific campaign requirements. Please check the campaign details for rejection conditions."},
	{"成果の確定処理はどのようにされるの？", "The result approval process is handled by the advertiser. They verify if the conversion meets the conditions. The timing varies by advertiser, but it typically takes 30-60 days."},
	{"本人申込みの定義を教えてください。", "Self-purchase (Self-back) refers to applying for an advertisement yourself through your own affiliate link. This is only allowed for campaigns that explicitly permit 'Self-purchase'."},
	{"成果報酬の獲得状況の確認は？", "You can check your reward earnings status in the 'Report' section of the dashboard. It shows generated, approved, and pending rewards."},
	{"afbでアフィリエイトをするにはどうしたらいいですか？", "Please register via the signup page after agreeing to the Partner Terms. Enter your member information and site details. After screening, we will email you the results. Once approved and identity verification is complete, you can log in to the partner dashboard and start affiliate marketing."},
	{"海外に住んでいますが、afbに登録はできますか？", "You can register if you have a Japanese bank account, even if you live overseas."},
	{"登録料はかかりませんか？", "Registration, ad placement, and all use of afb is completely free of charge. We do not plan to charge partners in the future."},
	{"他にもafbと同じようなアフィリエイトサービスに登録しているのですが、登録は可能ですか？", "Yes, you can register and use afb even if you are registered with other affiliate services."},
}

type questionTranslation struct {
	japanese string
	english  string
}

var questionTranslations = []questionTranslation{
	{"成果確認について", "Confirmation of results"},
	{"成果が却下されてしまったのは何故ですか？", "Why was my result rejected?"},
	{"成果の確定処理はどのようにされるの？", "How is the result approval process handled?"},
	{"本人申込みの定義を教えてください。", "What is the definition of self-purchase?"},
	{"成果報酬の獲得状況の確認は？", "How can I check my reward earnings status?"},
	{"成果が正しく発生しなかった場合", "If results are not generated correctly"},
	{"成果が却下されている場合", "If results are rejected"},
	{"報酬について", "About Rewards"},
	{"マネーブログのレポート", "Money Blog Report"},
	{"ログイン問題", "Login Issues"},
	{"成果確認方法", "How to check results"},
}

// English query phrases mapped back to canonical Japanese questions, so an
// English FAQ query can be answered from the Japanese corpus.
var englishQueries = []questionTranslation{
	{"成果確認について", "confirmation of results"},
	{"成果が却下されてしまったのは何故ですか？", "why was my result rejected"},
	{"成果の確定処理はどのようにされるの？", "how is the result approval process handled"},
	{"本人申込みの定義を教えてください。", "what is the definition of self-purchase"},
	{"成果報酬の獲得状況の確認は？", "how can i check my reward earnings status"},
	{"成果が正しく発生しなかった場合", "if results are not generated correctly"},
	{"成果が却下されている場合", "if results are rejected"},
	{"報酬について", "about rewards"},
	{"マネーブログのレポート", "money blog report"},
	{"ログイン問題", "login issues"},
	{"成果確認方法", "how to check results"},
}

// ResolveEnglishQuery maps an English query to the Japanese question it
// corresponds to, trying an exact match first and then phrase containment.
func ResolveEnglishQuery(query string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(query))

	for _, qt := range englishQueries {
		if qt.english == normalized {
			return qt.japanese, true
		}
	}
	for _, qt := range englishQueries {
		if strings.Contains(normalized, qt.english) {
			return qt.japanese, true
		}
	}
	return "", false
}

// TranslateAnswer returns the English answer for a Japanese FAQ question,
// matching the question partially in either direction. Falls back to the
// Japanese answer when no mapping exists.
func TranslateAnswer(question, answer string) string {
	for _, at := range answerTranslations {
		if strings.Contains(question, at.question) || strings.Contains(at.question, question) {
			return at.answer
		}
	}
	return answer
}

// TranslateQuestion returns the English rendering of a Japanese question,
// falling back to the original when no mapping exists.
func TranslateQuestion(question string) string {
	for _, qt := range questionTranslations {
		if qt.japanese == question {
			return qt.english
		}
	}
	for _, qt := range questionTranslations {
		if strings.Contains(question, qt.japanese) {
			return qt.english
		}
	}
	return question
}
