package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/cardle/internal/domain"
)

func TestValidateNormalisesSets(t *testing.T) {
	cards := []domain.Card{{Code: "01001", Name: "Spider-Man", Type: domain.TypeHero, Faction: domain.FactionHero}}

	out, err := New().Validate(cards)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.NotNil(t, out[0].Resources)
	assert.NotNil(t, out[0].Packs)
	assert.NotNil(t, out[0].Traits)
	assert.Nil(t, cards[0].Traits, "input is not modified")
}

func TestValidateReportsProblems(t *testing.T) {
	cards := []domain.Card{
		{Code: "a", Name: "A", Type: domain.TypeAlly, Faction: domain.FactionBasic},
		{Code: "a", Name: "B", Type: domain.TypeAlly, Faction: domain.FactionBasic},
		{Code: "c", Type: domain.TypeAlly, Faction: domain.FactionBasic},
		{Name: "D", Type: domain.TypeAlly, Faction: domain.FactionBasic},
	}
	_, err := New().Validate(cards)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `code "a" already used by card 0`)
	assert.Contains(t, msg, `card 2 ("c"): Name failed "required"`)
	assert.Contains(t, msg, `card 3 (""): Code failed "required"`)
}

func TestCatalogKeepsOrder(t *testing.T) {
	cards := []domain.Card{
		{Code: "b", Name: "B", Type: domain.TypeAlly, Faction: domain.FactionBasic},
		{Code: "a", Name: "A", Type: domain.TypeAlly, Faction: domain.FactionBasic},
	}
	cat, err := New().Catalog(cards)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())
	assert.Equal(t, "b", cat.At(0).Code)
	assert.Equal(t, "a", cat.SortedByCode()[0].Code)
}
