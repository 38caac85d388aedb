package selector

import (
	"errors"
	"fmt"

	"svw.info/cardle/internal/domain"
	"svw.info/cardle/internal/ports"
)

// ErrEmptyCatalog means there is nothing to select from yet.
var ErrEmptyCatalog = errors.New("selector: catalog is empty")

// ErrNoDay is returned by FindDay when the search window is exhausted.
var ErrNoDay = errors.New("selector: no day selects this card")

// Seeded picks indices from a string seed. It holds no state.
type Seeded struct{}

// New returns the seeded selector.
func New() *Seeded { return &Seeded{} }

var _ ports.Selector = (*Seeded)(nil)

// Index returns floor(first draw * n).
func (s *Seeded) Index(seed string, n int) (int, error) {
	return s.IndexAt(seed, n, 0)
}

// IndexAt discards iteration draws, then picks like Index.
func (s *Seeded) IndexAt(seed string, n, iteration int) (int, error) {
	if n <= 0 {
		return 0, ErrEmptyCatalog
	}
	r := NewRand(seed)
	for i := 0; i < iteration; i++ {
		r.Uint32()
	}
	idx := int(r.Float64() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx, nil
}

// FindDay walks backwards from `from`, one day at a time for at most maxDays
// days, and returns the first day whose seed selects the card with code.
func FindDay(sel ports.Selector, cat *domain.Catalog, seedFor func(domain.Day) string, code string, from domain.Day, maxDays int) (domain.Day, error) {
	if cat.Len() == 0 {
		return "", ErrEmptyCatalog
	}
	if _, ok := cat.Lookup(code); !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownCard, code)
	}
	day := from
	for i := 0; i < maxDays; i++ {
		idx, err := sel.Index(seedFor(day), cat.Len())
		if err != nil {
			return "", err
		}
		if cat.At(idx).Code == code {
			return day, nil
		}
		prev, err := day.AddDays(-1)
		if err != nil {
			return "", err
		}
		day = prev
	}
	return "", fmt.Errorf("%w within %d days of %s", ErrNoDay, maxDays, from)
}
