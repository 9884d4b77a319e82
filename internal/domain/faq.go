package domain

// FAQ categories. The order here is the canonical iteration order for
// category estimation tie-breaks.
const (
	CategorySignup    = "signup"
	CategoryPromotion = "promotion"
	CategoryPayment   = "payment"
	CategoryResult    = "result"
)

// FAQEntry is a single question/answer pair in the FAQ corpus.
// Entries are loaded once and never mutated.
type FAQEntry struct {
	ID       string `json:"id" yaml:"id"`
	Category string `json:"category" yaml:"category"`
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// FAQStats is an aggregate snapshot of the corpus.
type FAQStats struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"by_category"`
}
