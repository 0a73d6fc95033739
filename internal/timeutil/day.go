// Package timeutil holds the calendar-day arithmetic shared by mood and
// habit-completion writes.
package timeutil

import "time"

// DayWindow returns the inclusive bounds of the calendar day containing t,
// in t's own location: midnight through 23:59:59.999. Day bucketing follows
// the clock fields the instant carries, not UTC.
func DayWindow(t time.Time) (start, end time.Time) {
	y, m, d := t.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end = time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
	return start, end
}

// DayKey renders the calendar day of t as YYYY-MM-DD, using the same
// local-day interpretation as DayWindow. Used to group trend points.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
