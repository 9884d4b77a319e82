package channel

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitMessage_ShortPassthrough(t *testing.T) {
	got := splitMessage("hello", 100)
	if len(got) != 1 || got[0] != "hello" {
		t.Errorf("expected single chunk, got %v", got)
	}
}

func TestSplitMessage_PrefersLineBoundary(t *testing.T) {
	got := splitMessage("aaa\nbbb", 5)
	if len(got) != 2 || got[0] != "aaa" || got[1] != "bbb" {
		t.Errorf("expected [aaa bbb], got %v", got)
	}
}

func TestSplitMessage_HardCutWithoutBoundary(t *testing.T) {
	got := splitMessage("abcdefgh", 3)
	if len(got) != 3 || got[0] != "abc" || got[1] != "def" || got[2] != "gh" {
		t.Errorf("expected [abc def gh], got %v", got)
	}
}

func TestSplitMessage_MultiByteSafe(t *testing.T) {
	content := strings.Repeat("あ", 10)
	got := splitMessage(content, 8)

	var rebuilt strings.Builder
	for i, chunk := range got {
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk %d is not valid UTF-8: %q", i, chunk)
		}
		if len(chunk) > 8 {
			t.Errorf("chunk %d exceeds limit: %d bytes", i, len(chunk))
		}
		rebuilt.WriteString(chunk)
	}
	if rebuilt.String() != content {
		t.Error("chunks do not reassemble to the original content")
	}
}

func TestNewTelegram_AllowFromParsing(t *testing.T) {
	tg := NewTelegram(TelegramConfig{
		Token:     "x",
		AllowFrom: []string{"123", " 456 ", "not-a-number"},
		Logger:    testLogger(),
	})

	if !tg.isAllowed(123) || !tg.isAllowed(456) {
		t.Error("expected listed IDs to be allowed")
	}
	if tg.isAllowed(789) {
		t.Error("expected unlisted ID to be rejected")
	}
}

func TestNewTelegram_EmptyAllowListAllowsAll(t *testing.T) {
	tg := NewTelegram(TelegramConfig{Token: "x", Logger: testLogger()})
	if !tg.isAllowed(42) {
		t.Error("expected everyone allowed when the list is empty")
	}
}

func TestNewTelegram_DefaultParseMode(t *testing.T) {
	tg := NewTelegram(TelegramConfig{Token: "x", Logger: testLogger()})
	if tg.parseMode != "Markdown" {
		t.Errorf("expected Markdown default, got %q", tg.parseMode)
	}
}
