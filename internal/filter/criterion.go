package filter

import (
	"fmt"
	"sort"
	"strings"

	"svw.info/cardle/internal/domain"
	"svw.info/cardle/internal/hint"
)

// Mode selects how a criterion compares against a card.
type Mode int

const (
	// ModeEqual compares a scalar field.
	ModeEqual Mode = iota
	// ModeFirstLetter compares the first letter of the active-language name.
	ModeFirstLetter
	// ModeAll demands the card's set equal Values.
	ModeAll
	// ModeAny demands every element of Values be present in the card's set.
	ModeAny
)

var modeNames = map[Mode]string{
	ModeEqual:       "equal",
	ModeFirstLetter: "first_letter",
	ModeAll:         "all",
	ModeAny:         "any",
}

var modesByName = map[string]Mode{
	"equal":        ModeEqual,
	"first_letter": ModeFirstLetter,
	"all":          ModeAll,
	"any":          ModeAny,
}

func (m Mode) String() string { return modeNames[m] }

// ParseMode maps a mode name back to its Mode.
func ParseMode(s string) (Mode, error) {
	m, ok := modesByName[s]
	if !ok {
		return 0, fmt.Errorf("unknown filter mode %q", s)
	}
	return m, nil
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Criterion is one filter condition.
type Criterion struct {
	Field  domain.Field `json:"field"`
	Mode   Mode         `json:"mode"`
	Value  string       `json:"value,omitempty"`
	Values []string     `json:"values,omitempty"`
}

// Equal builds a scalar equality criterion.
func Equal(f domain.Field, value string) Criterion {
	return Criterion{Field: f, Mode: ModeEqual, Value: value}
}

// FirstLetter builds a first-letter criterion on the name.
func FirstLetter(letter string) Criterion {
	return Criterion{Field: domain.FieldName, Mode: ModeFirstLetter, Value: letter}
}

// All builds a whole-set criterion.
func All(f domain.Field, values ...string) Criterion {
	return Criterion{Field: f, Mode: ModeAll, Values: values}
}

// Any builds a contains-all-of criterion.
func Any(f domain.Field, values ...string) Criterion {
	return Criterion{Field: f, Mode: ModeAny, Values: values}
}

// Validate checks the field/mode pairing.
func (c Criterion) Validate() error {
	switch c.Mode {
	case ModeEqual:
		if c.Field.IsSet() {
			return fmt.Errorf("equal filter on set field %s", c.Field)
		}
	case ModeFirstLetter:
		if c.Field != domain.FieldName {
			return fmt.Errorf("first letter filter on field %s", c.Field)
		}
	case ModeAll, ModeAny:
		if !c.Field.IsSet() {
			return fmt.Errorf("%s filter on scalar field %s", c.Mode, c.Field)
		}
		if c.Mode == ModeAny && len(c.Values) == 0 {
			return fmt.Errorf("any filter on %s without values", c.Field)
		}
	default:
		return fmt.Errorf("unknown filter mode %d", int(c.Mode))
	}
	return nil
}

// Matches evaluates the criterion against card.
func (c Criterion) Matches(card domain.Card, german bool) bool {
	switch c.Mode {
	case ModeEqual:
		return card.Scalar(c.Field, german) == c.Value
	case ModeFirstLetter:
		return card.FirstLetter(german) == c.Value
	case ModeAll:
		return hint.SameMultiset(card.Set(c.Field), c.Values)
	case ModeAny:
		return containsAll(card.Set(c.Field), c.Values)
	}
	return false
}

// equivalent decides toggle identity: scalar criteria are keyed by field,
// set criteria by field, mode and values.
func (c Criterion) equivalent(o Criterion) bool {
	if c.Field != o.Field || c.Mode != o.Mode {
		return false
	}
	if c.Mode == ModeAll || c.Mode == ModeAny {
		return hint.SameMultiset(c.Values, o.Values)
	}
	return true
}

func (c Criterion) String() string {
	switch c.Mode {
	case ModeAll, ModeAny:
		vals := append([]string(nil), c.Values...)
		sort.Strings(vals)
		return fmt.Sprintf("%s %s: %s", c.Mode, c.Field, strings.Join(vals, ","))
	case ModeFirstLetter:
		return "first letter: " + c.Value
	default:
		return fmt.Sprintf("%s: %s", c.Field, c.Value)
	}
}

func containsAll(set, values []string) bool {
	in := make(map[string]bool, len(set))
	for _, s := range set {
		in[s] = true
	}
	for _, v := range values {
		if !in[v] {
			return false
		}
	}
	return true
}
