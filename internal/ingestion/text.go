package ingestion

import (
	"regexp"
	"strings"
)

var (
	inlineSpace = regexp.MustCompile(`[ \t\f\v]+`)
	blankRuns   = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes line endings, collapses runs of spaces inside lines and
// keeps at most one blank line between paragraphs. Markdown headings and list
// markers survive unchanged.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	return strings.TrimSpace(blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}

	// Nested list items keep their indentation.
	indent := ""
	if isListItem(trimmed) {
		indent = line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		indent = strings.ReplaceAll(indent, "\t", "  ")
	}
	return indent + inlineSpace.ReplaceAllString(trimmed, " ")
}

func isListItem(line string) bool {
	for _, marker := range []string{"- ", "* ", "+ ", "• "} {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return false
}
