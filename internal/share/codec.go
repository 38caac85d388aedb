package share

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"svw.info/cardle/internal/domain"
)

var (
	ErrInvalidLink = errors.New("invalid share link")
	ErrMissingDay  = errors.New("missing day")
	ErrMissingCode = errors.New("missing code")
	ErrNoGuesses   = errors.New("no guesses")
)

// viewerRoute is the fragment route the viewer page listens on.
const viewerRoute = "#/viewer"

// Link is everything needed to replay someone else's game.
type Link struct {
	Day     domain.Day `json:"day"`
	Code    string     `json:"code"`
	Guesses []string   `json:"guesses"`
	German  bool       `json:"german,omitempty"`
}

// Codec turns links into URLs and back.
type Codec struct {
	BaseURL string
}

// Encode builds <BaseURL>#/viewer?day=..&code=..&guesses=a,b[&german=true].
// Parameters always come in that order.
func (c Codec) Encode(l Link) string {
	var b strings.Builder
	b.WriteString(c.BaseURL)
	b.WriteString(viewerRoute)
	b.WriteString("?day=")
	b.WriteString(url.QueryEscape(l.Day.String()))
	b.WriteString("&code=")
	b.WriteString(url.QueryEscape(l.Code))
	b.WriteString("&guesses=")
	for i, g := range l.Guesses {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(url.QueryEscape(g))
	}
	if l.German {
		b.WriteString("&german=true")
	}
	return b.String()
}

// Decode parses a full link or just its query part. The query is read after
// the viewer route, so a base URL may carry its own query string.
func (Codec) Decode(s string) (Link, error) {
	q := strings.TrimSpace(s)
	if i := strings.Index(q, viewerRoute); i >= 0 {
		q = q[i+len(viewerRoute):]
	}
	if i := strings.LastIndex(q, "?"); i >= 0 {
		q = q[i+1:]
	}
	var (
		l                    Link
		haveDay, haveGuesses bool
		rawGuesses           string
	)
	for _, kv := range strings.Split(q, "&") {
		k, v, _ := strings.Cut(kv, "=")
		switch k {
		case "day":
			d, err := url.QueryUnescape(v)
			if err != nil {
				return Link{}, fmt.Errorf("%w: day: %w", ErrInvalidLink, err)
			}
			if d == "" {
				continue
			}
			day, err := domain.ParseDay(d)
			if err != nil {
				return Link{}, fmt.Errorf("%w: %w", ErrInvalidLink, err)
			}
			l.Day, haveDay = day, true
		case "code":
			c, err := url.QueryUnescape(v)
			if err != nil {
				return Link{}, fmt.Errorf("%w: code: %w", ErrInvalidLink, err)
			}
			l.Code = c
		case "guesses":
			rawGuesses, haveGuesses = v, v != ""
		case "german":
			// Present means on, unless spelled "false".
			l.German = v != "false"
		}
	}
	switch {
	case !haveDay:
		return Link{}, fmt.Errorf("%w: %w", ErrInvalidLink, ErrMissingDay)
	case l.Code == "":
		return Link{}, fmt.Errorf("%w: %w", ErrInvalidLink, ErrMissingCode)
	case !haveGuesses:
		return Link{}, fmt.Errorf("%w: %w", ErrInvalidLink, ErrNoGuesses)
	}
	for _, g := range strings.Split(rawGuesses, ",") {
		code, err := url.QueryUnescape(g)
		if err != nil {
			return Link{}, fmt.Errorf("%w: guesses: %w", ErrInvalidLink, err)
		}
		if code == "" {
			return Link{}, fmt.Errorf("%w: %w: empty guess in %q", ErrInvalidLink, ErrNoGuesses, rawGuesses)
		}
		l.Guesses = append(l.Guesses, code)
	}
	return l, nil
}
