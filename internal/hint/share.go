package hint

import (
	"fmt"
	"strings"

	"svw.info/cardle/internal/domain"
)

// Summary builds the shareable result text: a header line, the base link,
// a blank line, then one glyph row per guess.
func Summary(title, baseURL string, day domain.Day, target domain.Card, guesses []domain.Card, german bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s in %d Guesses\n", title, day, len(guesses))
	b.WriteString(baseURL)
	b.WriteString("\n\n")
	rows := make([]string, 0, len(guesses))
	for _, g := range guesses {
		rows = append(rows, Diff(target, g, german).Line())
	}
	b.WriteString(strings.Join(rows, "\n"))
	return b.String()
}
