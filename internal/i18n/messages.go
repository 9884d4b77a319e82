package i18n

// Messages holds the canned strings the assistant emits outside of generated
// reports and FAQ answers.
type Messages struct {
	Welcome            string
	NoDataFound        string
	NoFAQFound         string
	SuggestedQuestions []string
}

var messagesJa = Messages{
	Welcome: "👋 ようこそ！ Orbiが今日からお手伝いします。",
	NoDataFound: "申し訳ございません。該当するデータが見つかりませんでした。\n\n" +
		"サイト名を正確に指定してください。例:\n" +
		"• 「マネーブログのレポート」\n" +
		"• 「ライフスタイルブログの11月と10月を比較」",
	NoFAQFound: "申し訳ございません。該当するFAQが見つかりませんでした。\n\n" +
		"よくある質問のキーワード例:\n" +
		"• 会員登録: 「登録」「審査」「海外」\n" +
		"• 報酬: 「支払い」「振込」「777円」\n" +
		"• プロモーション: 「提携」「却下」\n" +
		"• 成果: 「CV」「承認」「確認」",
	SuggestedQuestions: []string{"報酬について", "成果確認", "マネーブログのレポート"},
}

var messagesEn = Messages{
	Welcome: "👋 Welcome! Orbi is here to help you from today.",
	NoDataFound: "Sorry, no matching data was found.\n\n" +
		"Please specify the exact site name. Examples:\n" +
		"• \"Money Blog report\" (マネーブログのレポート)\n" +
		"• \"Compare November and October for Lifestyle Blog\"",
	NoFAQFound: "Sorry, no matching FAQ was found.\n\n" +
		"Example keywords:\n" +
		"• Signup: \"register\", \"overseas\"\n" +
		"• Rewards: \"payment\", \"payout\"\n" +
		"• Promotions: \"campaign\", \"rejected\"\n" +
		"• Results: \"conversion\", \"approval\"",
	SuggestedQuestions: []string{"About Rewards", "Confirmation of results", "Money Blog Report"},
}

// MessagesFor returns the canned strings for a language, defaulting to
// Japanese.
func MessagesFor(lang string) Messages {
	if lang == LangEnglish {
		return messagesEn
	}
	return messagesJa
}
