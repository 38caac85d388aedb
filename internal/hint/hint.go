package hint

import (
	"strings"

	"svw.info/cardle/internal/domain"
)

// Verdict classifies one field of a guess against the target.
type Verdict int

const (
	Wrong Verdict = iota
	Partial
	Correct
)

// Share glyphs, one per verdict.
const (
	WrongGlyph   = "⬛"
	PartialGlyph = "🟨"
	CorrectGlyph = "🟩"
)

func (v Verdict) String() string {
	switch v {
	case Correct:
		return "correct"
	case Partial:
		return "partial"
	default:
		return "wrong"
	}
}

// Glyph renders the verdict for share text.
func (v Verdict) Glyph() string {
	switch v {
	case Correct:
		return CorrectGlyph
	case Partial:
		return PartialGlyph
	default:
		return WrongGlyph
	}
}

func (v Verdict) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// Direction tells whether the target's number is above or below the guess.
type Direction int

const (
	Unknown Direction = iota
	Same
	Higher
	Lower
)

func (d Direction) String() string {
	switch d {
	case Same:
		return "same"
	case Higher:
		return "higher"
	case Lower:
		return "lower"
	default:
		return "unknown"
	}
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Feedback is the per-field result of one guess.
type Feedback struct {
	Verdicts   map[domain.Field]Verdict   `json:"verdicts"`
	Directions map[domain.Field]Direction `json:"directions,omitempty"`
}

// Diff scores guess against target field by field.
func Diff(target, guess domain.Card, german bool) Feedback {
	fb := Feedback{
		Verdicts:   make(map[domain.Field]Verdict, len(domain.Fields)),
		Directions: make(map[domain.Field]Direction, 2),
	}
	for _, f := range domain.Fields {
		switch {
		case f == domain.FieldName:
			fb.Verdicts[f] = nameVerdict(target, guess, german)
		case f.IsSet():
			fb.Verdicts[f] = setVerdict(target.Set(f), guess.Set(f))
		default:
			fb.Verdicts[f] = scalarVerdict(target.Scalar(f, german), guess.Scalar(f, german))
		}
		if f.IsNumeric() {
			fb.Directions[f] = direction(target, guess, f)
		}
	}
	return fb
}

// Verdict returns the verdict for f; unscored fields are Wrong.
func (fb Feedback) Verdict(f domain.Field) Verdict { return fb.Verdicts[f] }

// Direction returns the numeric hint for cost or year.
func (fb Feedback) Direction(f domain.Field) Direction { return fb.Directions[f] }

// Solved reports whether every field is correct.
func (fb Feedback) Solved() bool {
	for _, f := range domain.Fields {
		if fb.Verdicts[f] != Correct {
			return false
		}
	}
	return true
}

// Line renders the verdicts in field order as glyphs.
func (fb Feedback) Line() string {
	var b strings.Builder
	for _, f := range domain.Fields {
		b.WriteString(fb.Verdicts[f].Glyph())
	}
	return b.String()
}

func nameVerdict(target, guess domain.Card, german bool) Verdict {
	if target.DisplayName(german) == guess.DisplayName(german) {
		return Correct
	}
	first := target.FirstLetter(german)
	if first != "" && first == guess.FirstLetter(german) {
		return Partial
	}
	return Wrong
}

func scalarVerdict(target, guess string) Verdict {
	if target == guess {
		return Correct
	}
	return Wrong
}

// setVerdict counts guess elements found in target. Sets compare as
// multisets: each target element can be matched once.
func setVerdict(target, guess []string) Verdict {
	m := matches(target, guess)
	switch {
	case m == len(target) && m == len(guess):
		return Correct
	case m > 0:
		return Partial
	default:
		return Wrong
	}
}

func matches(target, guess []string) int {
	pool := make(map[string]int, len(target))
	for _, t := range target {
		pool[t]++
	}
	m := 0
	for _, g := range guess {
		if pool[g] > 0 {
			pool[g]--
			m++
		}
	}
	return m
}

// direction treats an absent number as lower than any present one.
func direction(target, guess domain.Card, f domain.Field) Direction {
	t, tok := target.Number(f)
	g, gok := guess.Number(f)
	switch {
	case !tok && !gok:
		return Same
	case !tok:
		return Lower
	case !gok:
		return Higher
	case t > g:
		return Higher
	case t < g:
		return Lower
	default:
		return Same
	}
}

// SameMultiset reports whether a and b hold the same elements with the same counts.
func SameMultiset(a, b []string) bool {
	return len(a) == len(b) && matches(a, b) == len(a)
}
