package filter

import (
	"sort"

	"svw.info/cardle/internal/domain"
	"svw.info/cardle/internal/hint"
)

// Unlocked reports whether the guesses made so far reveal enough about the
// target to set c. Criteria that would leak unrevealed information are locked.
func Unlocked(c Criterion, target domain.Card, guesses []domain.Card, german bool) bool {
	if c.Validate() != nil {
		return false
	}
	return unlockedBy(c, target, hint.Reveal(target, guesses, german), german)
}

func unlockedBy(c Criterion, target domain.Card, r hint.Revealed, german bool) bool {
	switch c.Mode {
	case ModeEqual:
		return r.Scalars[c.Field] && c.Value == target.Scalar(c.Field, german)
	case ModeFirstLetter:
		return r.FirstLetter && c.Value == target.FirstLetter(german)
	case ModeAll:
		return r.Complete[c.Field] && hint.SameMultiset(c.Values, target.Set(c.Field))
	case ModeAny:
		for _, v := range c.Values {
			if !r.Element(c.Field, v) {
				return false
			}
		}
		return len(c.Values) > 0
	}
	return false
}

// Available lists every criterion the guesses currently unlock, in field order.
func Available(target domain.Card, guesses []domain.Card, german bool) []Criterion {
	r := hint.Reveal(target, guesses, german)
	var out []Criterion
	for _, f := range domain.Fields {
		switch {
		case f == domain.FieldName:
			if r.FirstLetter && !r.Scalars[f] {
				out = append(out, FirstLetter(target.FirstLetter(german)))
			}
		case f.IsSet():
			if r.Complete[f] {
				out = append(out, All(f, target.Set(f)...))
			}
			vals := make([]string, 0, len(r.Elements[f]))
			for v := range r.Elements[f] {
				vals = append(vals, v)
			}
			sort.Strings(vals)
			for _, v := range vals {
				out = append(out, Any(f, v))
			}
		default:
			if r.Scalars[f] {
				out = append(out, Equal(f, target.Scalar(f, german)))
			}
		}
	}
	return out
}
