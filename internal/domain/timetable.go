package domain

import "time"

// Timetable is one day's plan. At most one exists per date.
type Timetable struct {
	ID        string
	Date      string // YYYY-MM-DD, local
	Mode      TimetableMode
	CreatedAt time.Time
}

// TimetableEntry is a time-boxed slot on a timetable. ActivityID may be
// empty for unassigned blocks. Start and end are wall-clock "HH:MM"
// strings; Position preserves the order slots were entered in.
type TimetableEntry struct {
	ID          string
	TimetableID string
	ActivityID  string
	StartTime   string // HH:MM
	EndTime     string // HH:MM
	Note        string
	Position    int
	CreatedAt   time.Time
}
