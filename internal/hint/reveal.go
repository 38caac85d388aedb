package hint

import "svw.info/cardle/internal/domain"

// Revealed collects what a set of guesses has taught the player about the target.
type Revealed struct {
	// Scalars holds scalar fields some guess matched exactly.
	Scalars map[domain.Field]bool
	// FirstLetter is set once a guess shares the target's first letter.
	FirstLetter bool
	// Complete holds set fields some guess matched as a whole.
	Complete map[domain.Field]bool
	// Elements holds, per set field, target elements that appeared in a guess.
	Elements map[domain.Field]map[string]bool
}

// Reveal folds the feedback of all guesses into the facts they unlock.
func Reveal(target domain.Card, guesses []domain.Card, german bool) Revealed {
	r := Revealed{
		Scalars:  map[domain.Field]bool{},
		Complete: map[domain.Field]bool{},
		Elements: map[domain.Field]map[string]bool{},
	}
	for _, g := range guesses {
		if g.Missing {
			continue
		}
		fb := Diff(target, g, german)
		for _, f := range domain.Fields {
			v := fb.Verdict(f)
			switch {
			case f.IsSet():
				if v == Correct {
					r.Complete[f] = true
				}
				revealElements(r.elements(f), target.Set(f), g.Set(f))
			case f == domain.FieldName:
				if v == Correct {
					r.Scalars[f] = true
				}
				if v != Wrong {
					r.FirstLetter = true
				}
			default:
				if v == Correct {
					r.Scalars[f] = true
				}
			}
		}
	}
	return r
}

func (r Revealed) elements(f domain.Field) map[string]bool {
	m, ok := r.Elements[f]
	if !ok {
		m = map[string]bool{}
		r.Elements[f] = m
	}
	return m
}

func revealElements(into map[string]bool, target, guess []string) {
	in := make(map[string]bool, len(guess))
	for _, g := range guess {
		in[g] = true
	}
	for _, t := range target {
		if in[t] {
			into[t] = true
		}
	}
}

// Element reports whether value of set field f has been revealed.
func (r Revealed) Element(f domain.Field, value string) bool {
	return r.Elements[f][value]
}
