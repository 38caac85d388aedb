package domain

import (
	"fmt"
	"sort"
)

// Catalog is the ordered, read-only card list. The order defines selection
// indices, so it must be kept exactly as delivered by the loader.
type Catalog struct {
	cards  []Card
	byCode map[string]int
}

// NewCatalog indexes cards by code. Codes must be unique.
func NewCatalog(cards []Card) (*Catalog, error) {
	c := &Catalog{cards: cards, byCode: make(map[string]int, len(cards))}
	for i, card := range cards {
		if _, dup := c.byCode[card.Code]; dup {
			return nil, fmt.Errorf("duplicate card code %q", card.Code)
		}
		c.byCode[card.Code] = i
	}
	return c, nil
}

// Len is zero for a nil catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.cards)
}

// At returns the card at index i.
func (c *Catalog) At(i int) Card { return c.cards[i] }

// Cards returns the shared card slice. Callers must not modify it.
func (c *Catalog) Cards() []Card {
	if c == nil {
		return nil
	}
	return c.cards
}

// Lookup finds a card by code.
func (c *Catalog) Lookup(code string) (Card, bool) {
	if c == nil {
		return Card{}, false
	}
	i, ok := c.byCode[code]
	if !ok {
		return Card{}, false
	}
	return c.cards[i], true
}

// Resolve returns the card for code, or the missing-card placeholder.
func (c *Catalog) Resolve(code string) Card {
	if card, ok := c.Lookup(code); ok {
		return card
	}
	return MissingCard(code)
}

// SortedByCode returns a copy of the cards ordered by code.
func (c *Catalog) SortedByCode() []Card {
	out := append([]Card(nil), c.Cards()...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
