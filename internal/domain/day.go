package domain

import (
	"fmt"
	"time"
)

// DayLayout is the canonical day key format.
const DayLayout = "2006-01-02"

// Day is a puzzle instance key in YYYY-MM-DD form (UTC).
type Day string

// DayOf returns the UTC day key for t.
func DayOf(t time.Time) Day {
	return Day(t.UTC().Format(DayLayout))
}

// Today returns the current UTC day key.
func Today() Day { return DayOf(time.Now()) }

// ParseDay validates s and returns it in canonical zero-padded form.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid day %q: %w", s, err)
	}
	return DayOf(t), nil
}

// Time returns midnight UTC of the day.
func (d Day) Time() (time.Time, error) {
	return time.Parse(DayLayout, string(d))
}

// AddDays shifts the day by n calendar days.
func (d Day) AddDays(n int) (Day, error) {
	t, err := d.Time()
	if err != nil {
		return "", err
	}
	return DayOf(t.AddDate(0, 0, n)), nil
}

func (d Day) String() string { return string(d) }
