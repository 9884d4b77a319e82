package domain

import "time"

type InboundMessage struct {
	Channel   string
	ChatID    string
	SenderID  string
	Content   string
	Language  string // "ja" | "en" | "" (auto-detect)
	Timestamp time.Time
}

type OutboundMessage struct {
	Channel string
	ChatID  string
	Content string
	// RelatedQuestions are follow-up FAQ questions offered with the answer.
	RelatedQuestions []string
}
