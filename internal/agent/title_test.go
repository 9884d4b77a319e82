package agent

import (
	"strings"
	"testing"
)

func TestGenerateTitle_ShortContent(t *testing.T) {
	if got := generateTitle("報酬について"); got != "報酬について" {
		t.Errorf("expected verbatim title, got %q", got)
	}
}

func TestGenerateTitle_FirstLineOnly(t *testing.T) {
	if got := generateTitle("一行目\n二行目"); got != "一行目" {
		t.Errorf("expected first line, got %q", got)
	}
}

func TestGenerateTitle_TruncatesLongContent(t *testing.T) {
	long := strings.Repeat("あ", 100)
	got := generateTitle(long)
	if got != strings.Repeat("あ", maxTitleRunes)+"..." {
		t.Errorf("expected %d-rune truncation, got %q", maxTitleRunes, got)
	}
}

func TestGenerateTitle_Empty(t *testing.T) {
	if got := generateTitle("   \n  "); got != "New conversation" {
		t.Errorf("expected fallback title, got %q", got)
	}
}
