package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayWindowBounds(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	in := time.Date(2024, 3, 15, 13, 42, 7, 123456789, loc)

	start, end := DayWindow(in)

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, 999000000, loc), end)
	assert.Equal(t, loc, start.Location())
	assert.Equal(t, loc, end.Location())
}

func TestDayWindowContainsInput(t *testing.T) {
	cases := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 23, 59, 59, 999000000, time.UTC),
		time.Date(2024, 6, 30, 12, 0, 0, 0, time.Local),
	}
	for _, in := range cases {
		start, end := DayWindow(in)
		assert.False(t, in.Before(start), "input %v before start %v", in, start)
		assert.False(t, in.After(end), "input %v after end %v", in, end)
	}
}

func TestDayWindowUsesLocalDayNotUTC(t *testing.T) {
	// 01:30 in UTC+7 is still the previous day in UTC; the window must
	// follow the instant's own calendar fields.
	loc := time.FixedZone("UTC+7", 7*3600)
	in := time.Date(2024, 3, 15, 1, 30, 0, 0, loc)

	start, _ := DayWindow(in)
	assert.Equal(t, 15, start.Day())
	assert.Equal(t, 0, start.Hour())
}

func TestDayWindowAdjacentDaysDoNotOverlap(t *testing.T) {
	_, endMon := DayWindow(time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC))
	startTue, _ := DayWindow(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	assert.True(t, endMon.Before(startTue))
}

func TestDayKey(t *testing.T) {
	in := time.Date(2024, 3, 5, 23, 59, 0, 0, time.FixedZone("UTC-5", -5*3600))
	assert.Equal(t, "2024-03-05", DayKey(in))
}
