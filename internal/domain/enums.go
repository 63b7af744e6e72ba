package domain

type TimerState string

const (
	TimerIdle    TimerState = "idle"
	TimerRunning TimerState = "running"
	TimerPaused  TimerState = "paused"
)

type EventKind string

const (
	EventStart EventKind = "start"
	EventEnd   EventKind = "end"
)

type TimetableMode string

const (
	ModeChill    TimetableMode = "chill"
	ModeLockedIn TimetableMode = "locked_in"
)

// ValidTimetableModes is the canonical set of accepted mode strings.
var ValidTimetableModes = map[string]bool{
	"chill": true, "locked_in": true,
}
