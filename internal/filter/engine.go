package filter

import (
	"strings"

	"svw.info/cardle/internal/domain"
)

// Default search settings.
const (
	DefaultLimit          = 25
	DefaultMinQueryLength = 1
)

// Apply keeps the cards that satisfy every criterion and are not excluded.
// Catalog order is preserved.
func Apply(cards []domain.Card, criteria []Criterion, exclude map[string]bool, german bool) []domain.Card {
	out := make([]domain.Card, 0, len(cards))
next:
	for _, c := range cards {
		if exclude[c.Code] {
			continue
		}
		for _, cr := range criteria {
			if !cr.Matches(c, german) {
				continue next
			}
		}
		out = append(out, c)
	}
	return out
}

// Search keeps cards whose active-language name contains text, case
// insensitively, and truncates to limit (limit <= 0 means no cap).
func Search(cards []domain.Card, text string, german bool, limit int) []domain.Card {
	needle := strings.ToLower(text)
	out := make([]domain.Card, 0)
	for _, c := range cards {
		if limit > 0 && len(out) == limit {
			break
		}
		if strings.Contains(strings.ToLower(c.DisplayName(german)), needle) {
			out = append(out, c)
		}
	}
	return out
}

// Engine combines criteria filtering and name search with display limits.
type Engine struct {
	Limit          int
	MinQueryLength int
}

// NewEngine returns an engine with the default limits.
func NewEngine() Engine {
	return Engine{Limit: DefaultLimit, MinQueryLength: DefaultMinQueryLength}
}

// Candidates narrows cards by criteria, drops excluded codes, then applies
// the name search. Queries shorter than MinQueryLength return nothing.
func (e Engine) Candidates(cards []domain.Card, criteria []Criterion, exclude map[string]bool, text string, german bool) []domain.Card {
	if len([]rune(text)) < e.MinQueryLength {
		return []domain.Card{}
	}
	return Search(Apply(cards, criteria, exclude, german), text, german, e.Limit)
}
