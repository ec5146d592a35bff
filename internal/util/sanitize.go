// Package util holds small shared helpers with no domain dependencies.
package util

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxInputLength bounds sanitized user input forwarded to providers.
const maxInputLength = 4000

var (
	scriptPattern = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
)

// SanitizeInput strips script blocks and markup from user input, trims
// whitespace and caps the length. The cap lands on a rune boundary so
// multi-byte input (Arabic in particular) stays valid UTF-8.
func SanitizeInput(input string) string {
	cleaned := scriptPattern.ReplaceAllString(input, "")
	cleaned = tagPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	if len(cleaned) > maxInputLength {
		cut := maxInputLength
		for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
			cut--
		}
		cleaned = cleaned[:cut]
	}
	return cleaned
}
