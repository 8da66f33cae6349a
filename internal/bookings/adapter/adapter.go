package adapter

import (
	"regexp"
	"strings"
	"time"

	"castlehire/pkg/client"
	"castlehire/pkg/model"
	"castlehire/pkg/timeslot"
)

// Calendar colour code the business uses to mark a hire as done.
const completedColorID = "8"

var castleMarkerRegex = regexp.MustCompile(`(?im)^\s*castle:\s*(.+)$`)

// Adapter normalizes heterogeneous booking sources into the snapshot
// shape the validator consumes. Every method is total: malformed input
// degrades to safe defaults instead of failing, because conflict checking
// must not be defeated by one bad historical record.
type Adapter struct {
	DayStart string
	DayEnd   string
	Location *time.Location

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

func New(dayStart, dayEnd string, loc *time.Location) *Adapter {
	if loc == nil {
		panic("adapter: nil location")
	}
	return &Adapter{DayStart: dayStart, DayEnd: dayEnd, Location: loc}
}

func (a *Adapter) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// FromRecord maps a stored booking directly; status is read as stored.
func (a *Adapter) FromRecord(b model.Booking) model.ExistingBooking {
	return model.ExistingBooking{
		ID:              b.ID,
		Date:            b.Date,
		EndDate:         b.EndDate,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Overnight:       b.Overnight,
		Castle:          b.CastleName,
		Status:          b.Status,
		Source:          model.SourceDatabase,
		CalendarEventID: b.CalendarEventID,
	}
}

// FromCalendarEvent normalizes an external calendar event. The castle name
// comes from a "Castle: <name>" marker in the description, falling back to
// the event title verbatim. Date-only events span the default hire window.
func (a *Adapter) FromCalendarEvent(ev client.CalendarEvent) model.ExistingBooking {
	date, startTime := a.splitInstant(ev.Start, ev.AllDay)
	endDate, endTime := a.splitInstant(ev.End, ev.AllDay)

	if startTime == "" || endTime == "" {
		startTime, endTime = timeslot.DefaultWindow(a.DayStart, a.DayEnd)
	}
	if ev.AllDay {
		endDate = inclusiveEndDate(date, endDate)
	}
	if endDate == date {
		endDate = ""
	}

	return model.ExistingBooking{
		ID:              ev.ID,
		Date:            date,
		EndDate:         endDate,
		StartTime:       startTime,
		EndTime:         endTime,
		Castle:          extractCastle(ev),
		Status:          a.statusOf(ev, date, endDate, endTime),
		Source:          model.SourceCalendar,
		CalendarEventID: ev.ID,
	}
}

// Merge normalizes both sources into one snapshot, dropping calendar
// events already represented by a database row so the same hire never
// counts twice.
func (a *Adapter) Merge(records []model.Booking, events []client.CalendarEvent) []model.ExistingBooking {
	merged := make([]model.ExistingBooking, 0, len(records)+len(events))

	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		merged = append(merged, a.FromRecord(rec))
		if rec.CalendarEventID != "" {
			seen[rec.CalendarEventID] = true
		}
	}

	for _, ev := range events {
		if ev.ID != "" && seen[ev.ID] {
			continue
		}
		merged = append(merged, a.FromCalendarEvent(ev))
	}

	return merged
}

// splitInstant breaks a calendar timestamp into date and clock strings.
// Accepts RFC 3339 or a bare date; anything else yields empty strings.
func (a *Adapter) splitInstant(s string, allDay bool) (string, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		local := t.In(a.Location)
		if allDay {
			return local.Format(timeslot.DateLayout), ""
		}
		return local.Format(timeslot.DateLayout), local.Format(timeslot.ClockLayout)
	}

	if _, err := timeslot.ParseDate(s); err == nil {
		return s, ""
	}

	return "", ""
}

// inclusiveEndDate converts a calendar-style exclusive all-day end date
// to the last day the event actually occupies. A one-day event carries
// an end date of the following morning and collapses back to its start.
func inclusiveEndDate(date, endDate string) string {
	if date == "" || endDate == "" || endDate == date {
		return ""
	}
	t, err := timeslot.ParseDate(endDate)
	if err != nil {
		return ""
	}
	last := t.AddDate(0, 0, -1).Format(timeslot.DateLayout)
	if last <= date {
		return ""
	}
	return last
}

func extractCastle(ev client.CalendarEvent) string {
	if m := castleMarkerRegex.FindStringSubmatch(ev.Description); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(ev.Title)
}

func (a *Adapter) statusOf(ev client.CalendarEvent, date, endDate, endTime string) string {
	if ev.ColorID == completedColorID || strings.Contains(ev.Title, "✓") {
		return model.StatusCompleted
	}

	if date != "" && endTime != "" {
		if _, endAt, err := timeslot.Interval(date, endDate, "00:00", endTime, false, a.Location); err == nil {
			if endAt.Before(a.now()) {
				return model.StatusCompleted
			}
		}
	}

	return model.StatusConfirmed
}
