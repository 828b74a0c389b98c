package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the textual form used for persisted creation dates.
const DateLayout = "2006-01-02"

// legacyDateLayout matches dates written by the desktop build of the board
// ("Wed Jan 10 2024").
const legacyDateLayout = "Mon Jan 2 2006"

// Announcement is a single board entry.
type Announcement struct {
	ID          string `json:"id" db:"id"`
	Text        string `json:"text" db:"text"`
	CreatedDate Date   `json:"created_date" db:"created_date"`
}

// Date is a calendar day with no time-of-day component. The zero value is
// not a valid date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// NewDate builds a Date, normalizing out-of-range months and days the same
// way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// ParseDate parses s using DateLayout, falling back to the legacy long form.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(legacyDateLayout, s); err == nil {
		return DateOf(t), nil
	}
	return Date{}, fmt.Errorf("parsing date %q: expected %s", s, DateLayout)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns midnight UTC at the start of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after d (before, when n is negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// String formats d with DateLayout.
func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
