// Package schedule turns a day's timetable into an ordered event stream
// and drives start/end reminders off it. The driver keeps a single pending
// wake-up armed for the chronologically next event; the reminder policy
// reacts to dispatched events by commanding the elapsed timer and emitting
// user-visible notifications.
package schedule

import (
	"sort"
	"time"

	"github.com/alexanderramin/daywatch/internal/domain"
)

// Clock supplies the current time. Tests substitute a fake.
type Clock func() time.Time

// Event is one discrete schedule moment: a slot starting or ending.
// Two events are derived per valid slot.
type Event struct {
	At         time.Time
	Kind       domain.EventKind
	EntryID    string
	ActivityID string
	SlotStart  string // HH:MM, as stored
	SlotEnd    string // HH:MM, as stored
	Note       string
}

// BuildDayEvents derives the ordered start/end event list for one day.
// Slots with unparseable times, or with end not strictly after start
// (zero-length, malformed, overnight), are skipped. The result is sorted
// ascending by timestamp; events at the same instant keep the order the
// slots were stored in.
func BuildDayEvents(entries []*domain.TimetableEntry, day time.Time) []Event {
	var events []Event
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
		events = append(events,
			Event{At: start, Kind: domain.EventStart, EntryID: e.ID, ActivityID: e.ActivityID,
				SlotStart: e.StartTime, SlotEnd: e.EndTime, Note: e.Note},
			Event{At: end, Kind: domain.EventEnd, EntryID: e.ID, ActivityID: e.ActivityID,
				SlotStart: e.StartTime, SlotEnd: e.EndTime, Note: e.Note},
		)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].At.Before(events[j].At)
	})
	return events
}

// clockOn combines an HH:MM wall-clock string with the given day's date.
func clockOn(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
