package testutil

import (
	"time"

	"github.com/alexanderramin/daywatch/internal/domain"
	"github.com/google/uuid"
)

// Activity options
type ActivityOption func(*domain.Activity)

func WithEffortLevel(level int) ActivityOption {
	return func(a *domain.Activity) {
		a.EffortLevel = level
	}
}

func WithDescription(desc string) ActivityOption {
	return func(a *domain.Activity) {
		a.Description = desc
	}
}

func NewTestActivity(title string, opts ...ActivityOption) *domain.Activity {
	a := &domain.Activity{
		ID:          uuid.New().String(),
		Title:       title,
		EffortLevel: 5,
		CreatedAt:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Timetable options
type TimetableOption func(*domain.Timetable)

func WithMode(m domain.TimetableMode) TimetableOption {
	return func(t *domain.Timetable) {
		t.Mode = m
	}
}

func NewTestTimetable(date string, opts ...TimetableOption) *domain.Timetable {
	t := &domain.Timetable{
		ID:        uuid.New().String(),
		Date:      date,
		Mode:      domain.ModeChill,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewTestEntry builds a slot with the given bounds. activityID may be
// empty for unassigned blocks.
func NewTestEntry(activityID, start, end string) *domain.TimetableEntry {
	return &domain.TimetableEntry{
		ID:         uuid.New().String(),
		ActivityID: activityID,
		StartTime:  start,
		EndTime:    end,
		CreatedAt:  time.Now().UTC(),
	}
}
