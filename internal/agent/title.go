package agent

import "strings"

const maxTitleRunes = 60

// generateTitle derives a conversation title from the first line of the
// first user message.
func generateTitle(content string) string {
	line := strings.TrimSpace(content)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	if line == "" {
		return "New conversation"
	}
	runes := []rune(line)
	if len(runes) > maxTitleRunes {
		return string(runes[:maxTitleRunes]) + "..."
	}
	return line
}
