package share

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	c := Codec{BaseURL: "https://cardle.example/"}
	got := c.Encode(Link{Day: "2024-06-01", Code: "01001a", Guesses: []string{"01002", "01001a"}})
	assert.Equal(t, "https://cardle.example/#/viewer?day=2024-06-01&code=01001a&guesses=01002,01001a", got)

	got = c.Encode(Link{Day: "2024-06-01", Code: "x", Guesses: []string{"x"}, German: true})
	assert.Equal(t, "https://cardle.example/#/viewer?day=2024-06-01&code=x&guesses=x&german=true", got)
}

func TestRoundTrip(t *testing.T) {
	c := Codec{BaseURL: "https://cardle.example/"}
	links := []Link{
		{Day: "2024-06-01", Code: "01001a", Guesses: []string{"01002", "01001a"}},
		{Day: "2025-01-31", Code: "a,b", Guesses: []string{"a,b", "c&d", "e f"}, German: true},
		{Day: "2024-02-29", Code: "z", Guesses: []string{"z"}},
	}
	for _, l := range links {
		got, err := c.Decode(c.Encode(l))
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}
}

func TestRoundTripBaseWithQuery(t *testing.T) {
	c := Codec{BaseURL: "https://x.example/app?ref=a"}
	l := Link{Day: "2024-06-01", Code: "B", Guesses: []string{"A", "B"}, German: true}
	enc := c.Encode(l)
	assert.Equal(t, "https://x.example/app?ref=a#/viewer?day=2024-06-01&code=B&guesses=A,B&german=true", enc)
	got, err := c.Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, l, got)
}

func TestDecodeGermanFlag(t *testing.T) {
	cases := map[string]bool{
		"":              false,
		"&german=true":  true,
		"&german=":      true,
		"&german":       true,
		"&german=1":     true,
		"&german=false": false,
	}
	for suffix, want := range cases {
		got, err := Codec{}.Decode("day=2024-06-01&code=x&guesses=x" + suffix)
		require.NoError(t, err, suffix)
		assert.Equal(t, want, got.German, suffix)
	}
}

func TestDecodeBareQuery(t *testing.T) {
	got, err := Codec{}.Decode("day=2024-06-01&code=x&guesses=a,x&german=true")
	require.NoError(t, err)
	assert.Equal(t, Link{Day: "2024-06-01", Code: "x", Guesses: []string{"a", "x"}, German: true}, got)
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{"#/viewer?code=x&guesses=x", ErrMissingDay},
		{"#/viewer?day=2024-06-01&guesses=x", ErrMissingCode},
		{"#/viewer?day=2024-06-01&code=x", ErrNoGuesses},
		{"#/viewer?day=2024-06-01&code=x&guesses=", ErrNoGuesses},
		{"#/viewer?day=2024-06-01&code=x&guesses=,", ErrNoGuesses},
		{"#/viewer?day=2024-06-01&code=x&guesses=a,,b", ErrNoGuesses},
		{"#/viewer?day=not-a-day&code=x&guesses=x", ErrInvalidLink},
		{"#/viewer?day=2024-13-01&code=x&guesses=x", ErrInvalidLink},
		{"", ErrMissingDay},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			_, err := Codec{}.Decode(tc.in)
			assert.ErrorIs(t, err, ErrInvalidLink)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
