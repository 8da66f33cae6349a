// Package timeslot turns booking date and time-of-day strings into
// comparable instants in the business timezone, and owns the single
// overlap test the rest of the system uses.
package timeslot

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ErrMalformed wraps every parse failure in this package. Callers surface
// these as field errors, never as conflicts.
var ErrMalformed = fmt.Errorf("malformed date/time input")

// Clock is a time of day in minutes from midnight.
type Clock int

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// ParseDate parses an ISO date (no time component).
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrMalformed, s)
	}
	return t, nil
}

// ParseClock parses an HH:MM time of day. A missing leading zero ("9:00")
// is accepted; anything else malformed is rejected.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	layout := ClockLayout
	if len(s) == 4 && s[1] == ':' {
		s = "0" + s
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid time %q", ErrMalformed, s)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

// Interval converts a booking's date and clock strings into a half-open
// [start, end) interval in loc. With the overnight flag set, the end
// clock belongs to the following calendar day. An optional endDate
// extends the interval across multiple days (multi-day hires).
func Interval(date, endDate, start, end string, overnight bool, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		panic("timeslot: nil location")
	}

	day, err := ParseDate(date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	startClock, err := ParseClock(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endClock, err := ParseClock(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	lastDay := day
	if endDate != "" {
		lastDay, err = ParseDate(endDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if lastDay.Before(day) {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end date %s before start date %s", ErrMalformed, endDate, date)
		}
	}
	if overnight && lastDay.Equal(day) {
		lastDay = day.AddDate(0, 0, 1)
	}

	startAt := at(day, startClock, loc)
	endAt := at(lastDay, endClock, loc)
	return startAt, endAt, nil
}

func at(day time.Time, c Clock, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), int(c)/60, int(c)%60, 0, 0, loc)
}

// DefaultWindow reports the window used for date-only / all-day entries.
// dayStart/dayEnd come from configuration; the observed business default
// is 09:00-18:00.
func DefaultWindow(dayStart, dayEnd string) (string, string) {
	if dayStart == "" {
		dayStart = "09:00"
	}
	if dayEnd == "" {
		dayEnd = "18:00"
	}
	return dayStart, dayEnd
}

// Overlaps reports whether two half-open [start, end) intervals overlap.
// Touching boundaries (one hire ending exactly when another starts) do
// not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
