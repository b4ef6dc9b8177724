package textutil

import "strings"

// SanitizeToken reduces value to [a-z0-9_-] for use in file names. Upper
// case is folded, every other rune becomes '_', and leading or trailing
// separators are trimmed. An empty result is "unknown".
func SanitizeToken(value string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return '_'
	}, strings.TrimSpace(value))
	if out := strings.Trim(mapped, "_-"); out != "" {
		return out
	}
	return "unknown"
}
