package util

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "Where is my order?", "Where is my order?"},
		{"trims whitespace", "  hello  ", "hello"},
		{"strips script blocks", `hi <script>alert("x")</script>there`, "hi there"},
		{"strips script with attributes", `a<script type="text/javascript">x</script>b`, "ab"},
		{"strips markup", "<b>bold</b> claim", "bold claim"},
		{"empty after stripping", "<img src=x>", ""},
		{"multiline script", "a<script>\nevil()\n</script>b", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeInput(tt.input))
		})
	}
}

func TestSanitizeInput_CapsLength(t *testing.T) {
	long := strings.Repeat("a", 5000)

	got := SanitizeInput(long)
	assert.Len(t, got, maxInputLength)
}

func TestSanitizeInput_CapsOnRuneBoundary(t *testing.T) {
	// A single ASCII byte shifts every following two-byte Arabic rune so the
	// cap lands mid-rune; truncation must back up to the rune start.
	long := "a" + strings.Repeat("م", 2500)

	got := SanitizeInput(long)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), maxInputLength)
	assert.Equal(t, maxInputLength-1, len(got))
}
