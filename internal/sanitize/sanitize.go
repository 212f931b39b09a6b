// internal/sanitize/sanitize.go
package sanitize

import (
	"fmt"
	"regexp"
	"strings"
)

// tagPattern is a naive greedy strip: everything from the first "<" to the
// last ">" on a line goes, attributes and closing boundary included. It can
// over-strip legitimate "<" in prose and under-strip obfuscated tags; not a
// real HTML parser.
var tagPattern = regexp.MustCompile("<.*>")

// Sanitize neutralizes HTML-bearing user input before it is displayed back.
// Empty and whitespace-only input is returned unchanged.
func Sanitize(input string) string {
	if strings.TrimSpace(input) == "" {
		return input
	}

	cleaned := tagPattern.ReplaceAllString(input, "")

	return htmlEncode(cleaned)
}

// htmlEncode entity-encodes markup-significant characters and all runes
// outside printable ASCII.
func htmlEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			b.WriteString("&amp;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		default:
			if r >= 0xA0 {
				fmt.Fprintf(&b, "&#%d;", r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
