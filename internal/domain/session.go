package domain

import "time"

// ActivitySession is one tracked interval against an activity. A row is
// created open-ended (EndedAt and DurationSeconds nil) when the timer
// starts and finalized when it stops.
type ActivitySession struct {
	ID              string
	ActivityID      string
	StartedAt       time.Time
	EndedAt         *time.Time
	DurationSeconds *int
	CreatedAt       time.Time
}

// Finalized reports whether the session has been closed out.
func (s *ActivitySession) Finalized() bool {
	return s.EndedAt != nil && s.DurationSeconds != nil
}
