package model

import (
	"fmt"
	"strings"
)

// Window is the date range used to decide which announcements are shown.
type Window int

const (
	WindowAll Window = iota
	WindowToday
	WindowWeek
	WindowMonth
)

// Windows lists every window in display order.
var Windows = []Window{WindowAll, WindowToday, WindowWeek, WindowMonth}

// Days returns the inclusive day span for w. ok is false for WindowAll,
// which has no bound.
func (w Window) Days() (days int, ok bool) {
	switch w {
	case WindowToday:
		return 0, true
	case WindowWeek:
		return 7, true
	case WindowMonth:
		return 30, true
	default:
		return 0, false
	}
}

// String returns the short name accepted by ParseWindow.
func (w Window) String() string {
	switch w {
	case WindowToday:
		return "today"
	case WindowWeek:
		return "week"
	case WindowMonth:
		return "month"
	default:
		return "all"
	}
}

// Label returns the button text shown for w.
func (w Window) Label() string {
	switch w {
	case WindowToday:
		return "Today"
	case WindowWeek:
		return "Last 7 Days"
	case WindowMonth:
		return "Last 30 Days"
	default:
		return "All"
	}
}

// ParseWindow maps user input ("all", "today", "7", "week", "30",
// "month", or a Label) to a Window.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return WindowAll, nil
	case "today", "0":
		return WindowToday, nil
	case "7", "week", "last 7 days", "7d":
		return WindowWeek, nil
	case "30", "month", "last 30 days", "30d":
		return WindowMonth, nil
	}
	return WindowAll, fmt.Errorf("unknown window %q (want all, today, 7 or 30)", s)
}
