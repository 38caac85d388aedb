package progress

import (
	"fmt"
	"strings"

	"svw.info/cardle/internal/domain"
	"svw.info/cardle/internal/ports"
)

// Mode describes the rules that differ between game variants.
type Mode struct {
	Name             string
	SeedSuffix       string
	StorageKeyPrefix string
	// RerollEachGuess picks a fresh target after every miss.
	RerollEachGuess bool
	// ResetFiltersEachGuess clears active filters after every guess.
	ResetFiltersEachGuess bool
}

var (
	Classic = Mode{Name: "classic"}
	Expert  = Mode{
		Name:                  "expert",
		SeedSuffix:            "-expert",
		StorageKeyPrefix:      "expert_",
		RerollEachGuess:       true,
		ResetFiltersEachGuess: true,
	}
)

// Modes lists the supported variants.
func Modes() []Mode { return []Mode{Classic, Expert} }

// ParseMode finds a mode by name, case insensitively.
func ParseMode(name string) (Mode, error) {
	for _, m := range Modes() {
		if strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}
	return Mode{}, fmt.Errorf("unknown mode %q", name)
}

// Seed is the selector seed for day.
func (m Mode) Seed(day domain.Day) string { return day.String() + m.SeedSuffix }

// StorageKey names the blob holding this mode's progress.
func (m Mode) StorageKey() string { return m.StorageKeyPrefix + "data" }

func (m Mode) String() string { return m.Name }

// pick draws the target for the given iteration. Cards in skip are passed
// over by drawing again; if every draw within the bound hits skip, the first
// draw wins.
func (m Mode) pick(sel ports.Selector, cat *domain.Catalog, day domain.Day, iteration int, skip map[string]bool) (domain.Card, error) {
	n := cat.Len()
	first := -1
	for i := 0; i < n*4+1; i++ {
		idx, err := sel.IndexAt(m.Seed(day), n, iteration+i)
		if err != nil {
			return domain.Card{}, err
		}
		if first < 0 {
			first = idx
		}
		if c := cat.At(idx); !skip[c.Code] {
			return c, nil
		}
	}
	return cat.At(first), nil
}

// deriveTarget replays the mode's selection rules over guesses and returns the
// target in effect after them. Classic targets ignore guesses.
func (m Mode) deriveTarget(sel ports.Selector, cat *domain.Catalog, day domain.Day, guesses []string) (domain.Card, error) {
	target, err := m.pick(sel, cat, day, 0, nil)
	if err != nil || !m.RerollEachGuess {
		return target, err
	}
	guessed := make(map[string]bool, len(guesses))
	for i, g := range guesses {
		if g == target.Code {
			break
		}
		guessed[g] = true
		if target, err = m.pick(sel, cat, day, i+1, guessed); err != nil {
			return domain.Card{}, err
		}
	}
	return target, nil
}

// replayTargets returns the target each guess was made against. The list
// stops at the first guess that hit.
func (m Mode) replayTargets(sel ports.Selector, cat *domain.Catalog, day domain.Day, guesses []string) ([]string, error) {
	target, err := m.pick(sel, cat, day, 0, nil)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(guesses))
	guessed := make(map[string]bool, len(guesses))
	for i, g := range guesses {
		out = append(out, target.Code)
		if g == target.Code {
			break
		}
		guessed[g] = true
		if target, err = m.pick(sel, cat, day, i+1, guessed); err != nil {
			return nil, err
		}
	}
	return out, nil
}
