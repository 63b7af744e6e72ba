// Package export renders a day's timetable to interchange formats.
package export

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/alexanderramin/daywatch/internal/domain"
)

// TitleLookup resolves an activity id to its display title. Unresolvable
// ids fall back to a generic label.
type TitleLookup func(activityID string) string

// ICS renders the given slots as an iCalendar document. One VEVENT is
// emitted per slot that parses cleanly; invalid slots are skipped the
// same way the schedule builder skips them.
func ICS(entries []*domain.TimetableEntry, day time.Time, titleOf TitleLookup) (string, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)

	for _, e := range entries {
		start, err := clockOn(day, e.StartTime)
		if err != nil {
			continue
		}
		end, err := clockOn(day, e.EndTime)
		if err != nil {
			continue
		}
		if !end.After(start) {
			continue
		}

		ev := cal.AddEvent(fmt.Sprintf("%s@daywatch", e.ID))
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(summaryFor(e, titleOf))
		if e.Note != "" {
			ev.SetDescription(e.Note)
		}
	}

	return cal.Serialize(), nil
}

func summaryFor(e *domain.TimetableEntry, titleOf TitleLookup) string {
	if e.ActivityID == "" {
		return "Unassigned"
	}
	if titleOf == nil {
		return "Activity " + e.ActivityID
	}
	return titleOf(e.ActivityID)
}

func clockOn(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
