// Package filter decides which announcements are visible under a date
// window. It never mutates or reorders the records it is given.
package filter

import (
	"github.com/nhle/sap-board/internal/model"
)

// Row is a visible announcement together with its position on the board.
type Row struct {
	Position     int
	Announcement model.Announcement
}

// DaysBetween returns the number of calendar days from from to to. It is
// negative when from is after to.
func DaysBetween(from, to model.Date) int {
	// Both sides are UTC midnights, so the difference is a whole number of days.
	return int(to.Time().Sub(from.Time()).Hours()) / 24
}

// Visible reports whether a is shown under w when the current day is today.
// Windows are inclusive: a record created exactly 7 days ago is visible in
// the 7-day window.
func Visible(a model.Announcement, today model.Date, w model.Window) bool {
	days, bounded := w.Days()
	if !bounded {
		return true
	}
	if days == 0 {
		return a.CreatedDate == today
	}
	return DaysBetween(a.CreatedDate, today) <= days
}

// Apply returns the visible subset of records, in order, with their
// positions.
func Apply(records []model.Announcement, today model.Date, w model.Window) []Row {
	if len(records) == 0 {
		return nil
	}

	rows := make([]Row, 0, len(records))
	for i, a := range records {
		if Visible(a, today, w) {
			rows = append(rows, Row{Position: i, Announcement: a})
		}
	}
	return rows
}

// Count returns how many records are visible under w.
func Count(records []model.Announcement, today model.Date, w model.Window) int {
	n := 0
	for _, a := range records {
		if Visible(a, today, w) {
			n++
		}
	}
	return n
}
