package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/cardle/internal/domain"
)

func cost(n int) *int { return &n }

func card(code, name string, c int, typ domain.CardType, traits ...string) domain.Card {
	return domain.Card{
		Code: code, Name: name, Cost: cost(c), Type: typ, Faction: domain.FactionBasic,
		Resources: []domain.Resource{"e"}, Packs: []domain.Pack{"core"}, Traits: traits,
	}
}

var catalog = []domain.Card{
	card("1", "Iron Man", 5, domain.TypeHero, "Avenger", "Genius"),
	card("2", "Tony Stark", 5, domain.TypeAlterEgo, "Genius"),
	card("3", "Black Widow", 3, domain.TypeAlly, "Avenger", "Spy"),
	card("4", "Hawkeye", 3, domain.TypeAlly, "Avenger"),
	card("5", "Maria Hill", 2, domain.TypeAlly, "S.H.I.E.L.D.", "Spy"),
}

func codes(cards []domain.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Code
	}
	return out
}

func TestApplyPreservesOrderAndExcludes(t *testing.T) {
	got := Apply(catalog, []Criterion{Equal(domain.FieldType, string(domain.TypeAlly))}, map[string]bool{"4": true}, false)
	assert.Equal(t, []string{"3", "5"}, codes(got))
}

func TestApplyCombinesWithAnd(t *testing.T) {
	got := Apply(catalog, []Criterion{
		Equal(domain.FieldCost, "3"),
		Any(domain.FieldTraits, "Spy"),
	}, nil, false)
	assert.Equal(t, []string{"3"}, codes(got))
}

func TestAnyIsCriterionSubsetOfCandidate(t *testing.T) {
	both := domain.Card{Code: "x", Traits: []string{"Avenger", "Genius"}}
	only := domain.Card{Code: "y", Traits: []string{"Avenger"}}

	assert.True(t, Any(domain.FieldTraits, "Avenger").Matches(both, false))
	assert.False(t, Any(domain.FieldTraits, "Avenger", "Genius").Matches(only, false))
	assert.True(t, Any(domain.FieldTraits, "Avenger", "Genius").Matches(both, false))
}

func TestAllIsSetEquality(t *testing.T) {
	c := domain.Card{Code: "x", Traits: []string{"Genius", "Avenger"}}
	assert.True(t, All(domain.FieldTraits, "Avenger", "Genius").Matches(c, false))
	assert.False(t, All(domain.FieldTraits, "Avenger").Matches(c, false))
	assert.False(t, All(domain.FieldTraits, "Avenger", "Genius", "Spy").Matches(c, false))

	empty := domain.Card{Code: "e", Traits: []string{}}
	assert.True(t, All(domain.FieldTraits).Matches(empty, false))
}

func TestFirstLetterUsesActiveLanguage(t *testing.T) {
	c := domain.Card{Code: "x", Name: "Spider-Woman", NameDE: "Netzfrau"}
	assert.True(t, FirstLetter("S").Matches(c, false))
	assert.False(t, FirstLetter("S").Matches(c, true))
	assert.True(t, FirstLetter("N").Matches(c, true))
}

func TestToggle(t *testing.T) {
	var s Set
	spy := Any(domain.FieldTraits, "Spy")

	require.True(t, s.Toggle(spy))
	require.True(t, s.Toggle(Equal(domain.FieldCost, "3")))
	assert.Equal(t, 2, s.Len())

	assert.False(t, s.Toggle(Any(domain.FieldTraits, "Spy")), "same field and value removes")
	assert.Equal(t, []Criterion{Equal(domain.FieldCost, "3")}, s.Criteria())

	assert.True(t, s.Toggle(Any(domain.FieldTraits, "Avenger")), "different value is a new criterion")
	assert.True(t, s.Toggle(All(domain.FieldTraits, "Avenger")), "different mode is a new criterion")
	assert.Equal(t, 3, s.Len())
}

func TestToggleTwiceRestoresState(t *testing.T) {
	var s Set
	s.Toggle(Equal(domain.FieldType, "ally"))
	before := s.Criteria()

	for _, c := range []Criterion{
		Equal(domain.FieldCost, "3"),
		FirstLetter("B"),
		All(domain.FieldPacks, "core"),
		Any(domain.FieldTraits, "Avenger", "Spy"),
	} {
		s.Toggle(c)
		s.Toggle(c)
		assert.Equal(t, before, s.Criteria(), c.String())
	}
}

func TestSearch(t *testing.T) {
	got := Search(catalog, "AN", false, 0)
	assert.Equal(t, []string{"1"}, codes(got))

	got = Search(catalog, "a", false, 2)
	assert.Equal(t, []string{"1", "2"}, codes(got), "truncated without reordering")
}

func TestEngineCandidates(t *testing.T) {
	e := NewEngine()
	assert.Empty(t, e.Candidates(catalog, nil, nil, "", false), "below minimum query length")

	got := e.Candidates(catalog, []Criterion{Any(domain.FieldTraits, "Avenger")}, map[string]bool{"1": true}, "w", false)
	assert.Equal(t, []string{"3", "4"}, codes(got))

	e.Limit = 1
	got = e.Candidates(catalog, nil, nil, "i", false)
	assert.Equal(t, []string{"1"}, codes(got))
}

func TestUnlocked(t *testing.T) {
	target := catalog[2] // Black Widow
	guesses := []domain.Card{catalog[3], catalog[4]}

	cases := []struct {
		name string
		c    Criterion
		want bool
	}{
		{"cost revealed", Equal(domain.FieldCost, "3"), true},
		{"cost wrong value", Equal(domain.FieldCost, "2"), false},
		{"type revealed", Equal(domain.FieldType, "ally"), true},
		{"name never guessed", Equal(domain.FieldName, "Black Widow"), false},
		{"first letter unrevealed", FirstLetter("B"), false},
		{"trait in a guess", Any(domain.FieldTraits, "Spy"), true},
		{"both traits revealed", Any(domain.FieldTraits, "Avenger", "Spy"), true},
		{"trait not in target", Any(domain.FieldTraits, "S.H.I.E.L.D."), false},
		{"all traits not matched by one guess", All(domain.FieldTraits, "Avenger", "Spy"), false},
		{"all packs matched", All(domain.FieldPacks, "core"), true},
		{"invalid pairing", Equal(domain.FieldTraits, "Spy"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Unlocked(tc.c, target, guesses, false))
		})
	}

	assert.True(t, Unlocked(FirstLetter("B"), target, []domain.Card{{Code: "z", Name: "Bucky"}}, false))
}

func TestAvailable(t *testing.T) {
	target := catalog[2]
	got := Available(target, []domain.Card{catalog[3]}, false)

	assert.Contains(t, got, Equal(domain.FieldCost, "3"))
	assert.Contains(t, got, Equal(domain.FieldType, "ally"))
	assert.Contains(t, got, All(domain.FieldPacks, "core"))
	assert.Contains(t, got, Any(domain.FieldTraits, "Avenger"))
	assert.NotContains(t, got, Any(domain.FieldTraits, "Spy"))
	for _, c := range got {
		assert.True(t, Unlocked(c, target, []domain.Card{catalog[3]}, false), c.String())
	}
}
