package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// narrativeNewlines folds CRLF and lone CR line endings into LF.
var narrativeNewlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Collapse returns s in Unicode NFC with every run of whitespace folded into
// a single space and the ends trimmed.
func Collapse(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// Narrative normalizes multi-paragraph prose. Line endings become "\n",
// trailing whitespace is removed from every line, and the text is trimmed.
// Internal spacing and blank lines are kept.
func Narrative(s string) string {
	if s == "" {
		return ""
	}
	s = narrativeNewlines.Replace(norm.NFC.String(s))
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\f\v")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
