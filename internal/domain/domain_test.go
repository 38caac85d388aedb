package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumTablesRoundTrip(t *testing.T) {
	for _, v := range cardTypes.order {
		got, ok := ParseCardType(v.Name())
		require.True(t, ok, v)
		assert.Equal(t, v, got)
	}
	for _, v := range factions.order {
		got, ok := ParseFaction(v.Name())
		require.True(t, ok, v)
		assert.Equal(t, v, got)
	}
	for _, v := range resources.order {
		got, ok := ParseResource(v.Name())
		require.True(t, ok, v)
		assert.Equal(t, v, got)
	}
	for _, v := range Packs() {
		got, ok := ParsePack(v.Name())
		require.True(t, ok, v)
		assert.Equal(t, v, got)
	}

	assert.Equal(t, "Player Side Scheme", TypePlayerSideScheme.Name())
	assert.Equal(t, "Wild", ResourceWild.Name())
	assert.Equal(t, "mystery", Pack("mystery").Name())
	_, ok := ParseFaction("Chaos")
	assert.False(t, ok)
}

func TestPacksReturnsCopy(t *testing.T) {
	p := Packs()
	require.NotEmpty(t, p)
	p[0] = "changed"
	assert.Equal(t, Pack("core"), Packs()[0])
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, Day("2024-06-01"), d)

	for _, bad := range []string{"2024-6-1", "2024-13-01", "yesterday", ""} {
		_, err := ParseDay(bad)
		assert.Error(t, err, bad)
	}

	prev, err := d.AddDays(-1)
	require.NoError(t, err)
	assert.Equal(t, Day("2024-05-31"), prev)

	assert.Equal(t, Day("2024-06-01"), DayOf(time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, Day("2024-06-02"), DayOf(time.Date(2024, 6, 1, 23, 0, 0, 0, time.FixedZone("x", -2*3600))))
}

func TestFieldNames(t *testing.T) {
	for _, f := range Fields {
		got, err := ParseField(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseField("colour")
	assert.Error(t, err)

	var f Field
	require.NoError(t, f.UnmarshalText([]byte("traits")))
	assert.Equal(t, FieldTraits, f)
	assert.True(t, f.IsSet())
	assert.True(t, FieldYear.IsNumeric())
	assert.False(t, FieldName.IsNumeric())
}

func TestCatalog(t *testing.T) {
	three := 3
	cat, err := NewCatalog([]Card{
		{Code: "02", Name: "Zeta", Cost: &three},
		{Code: "01", Name: "Alpha", NameDE: "Ärger"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())
	assert.Equal(t, "02", cat.At(0).Code)
	assert.Equal(t, []string{"01", "02"}, []string{cat.SortedByCode()[0].Code, cat.SortedByCode()[1].Code})
	assert.Equal(t, "02", cat.Cards()[0].Code, "sorting must not reorder the catalog")

	missing := cat.Resolve("99")
	assert.True(t, missing.Missing)
	assert.Equal(t, MissingName, missing.Name)
	assert.NotNil(t, missing.Traits)

	_, err = NewCatalog([]Card{{Code: "x"}, {Code: "x"}})
	assert.Error(t, err)

	var empty *Catalog
	assert.Zero(t, empty.Len())
	_, ok := empty.Lookup("01")
	assert.False(t, ok)
}

func TestCardAccessors(t *testing.T) {
	three := 3
	c := Card{Code: "1", Name: "Alpha", NameDE: "Ärger", Cost: &three, Type: TypeAlly,
		Resources: []Resource{ResourceMental, ResourceMental}, Traits: []string{"Spy"}}

	assert.Equal(t, "Ärger", c.DisplayName(true))
	assert.Equal(t, "Ä", c.FirstLetter(true))
	assert.Equal(t, "A", c.FirstLetter(false))
	assert.Equal(t, "3", c.Scalar(FieldCost, false))
	assert.Equal(t, "", c.Scalar(FieldYear, false))
	assert.Equal(t, "ally", c.Scalar(FieldType, false))
	assert.Equal(t, []string{"m", "m"}, c.Set(FieldResources))
	assert.Equal(t, []string{}, c.Set(FieldPacks))

	n, ok := c.Number(FieldCost)
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	_, ok = c.Number(FieldYear)
	assert.False(t, ok)

	traits := c.Set(FieldTraits)
	traits[0] = "changed"
	assert.Equal(t, "Spy", c.Traits[0])
}
