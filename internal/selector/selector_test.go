package selector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/cardle/internal/domain"
)

func TestCyrb128ReferenceWords(t *testing.T) {
	assert.Equal(t, [4]uint32{2801734929, 2942896264, 41397332, 199340493}, cyrb128("2024-06-01"))
	assert.Equal(t, [4]uint32{309824673, 1879143255, 3074702183, 3576874129}, cyrb128("2024-01-01"))
}

func TestRandReferenceStream(t *testing.T) {
	r := NewRand("2024-06-01")
	assert.InDelta(t, 0.3839387537445873, r.Float64(), 1e-15)
	assert.InDelta(t, 0.8177106862422079, r.Float64(), 1e-15)
	assert.InDelta(t, 0.45792910433374345, r.Float64(), 1e-15)
}

func TestIndexReferenceValues(t *testing.T) {
	cases := []struct {
		seed string
		n    int
		want int
	}{
		{"2024-06-01", 3, 1},
		{"2024-01-01", 3, 1},
		{"2024-06-02", 3, 0},
		{"2024-06-03", 3, 2},
		{"2024-06-01", 1, 0},
		{"2024-06-01", 1000, 383},
		{"2025-03-15", 100, 97},
		{"hello", 10, 9},
	}
	s := New()
	for _, tc := range cases {
		t.Run(tc.seed, func(t *testing.T) {
			got, err := s.Index(tc.seed, tc.n)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIndexIsDeterministic(t *testing.T) {
	s := New()
	for _, seed := range []string{"2024-06-01", "2024-06-01-expert", "", "ümlaut"} {
		first, err := s.Index(seed, 57)
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			again, err := New().Index(seed, 57)
			require.NoError(t, err)
			require.Equal(t, first, again)
		}
		assert.GreaterOrEqual(t, first, 0)
		assert.Less(t, first, 57)
	}
}

func TestIndexAtIterations(t *testing.T) {
	s := New()
	want := []int{2, 0, 1, 2}
	for i, w := range want {
		got, err := s.IndexAt("2024-06-01-expert", 3, i)
		require.NoError(t, err)
		assert.Equal(t, w, got, "iteration %d", i)
	}
}

func TestIndexEmptyCatalog(t *testing.T) {
	_, err := New().Index("2024-06-01", 0)
	assert.True(t, errors.Is(err, ErrEmptyCatalog))
}

func threeCards(t *testing.T) *domain.Catalog {
	t.Helper()
	cat, err := domain.NewCatalog([]domain.Card{{Code: "A"}, {Code: "B"}, {Code: "C"}})
	require.NoError(t, err)
	return cat
}

func TestFindDay(t *testing.T) {
	cat := threeCards(t)
	seedFor := func(d domain.Day) string { return string(d) }

	cases := []struct {
		code string
		want domain.Day
	}{
		{"C", "2024-06-03"},
		{"A", "2024-06-02"},
		{"B", "2024-06-01"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			got, err := FindDay(New(), cat, seedFor, tc.code, "2024-06-03", 30)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := FindDay(New(), cat, seedFor, "Z", "2024-06-03", 30)
	assert.ErrorIs(t, err, domain.ErrUnknownCard)

	_, err = FindDay(New(), cat, seedFor, "B", "2024-06-03", 2)
	assert.ErrorIs(t, err, ErrNoDay)
}
