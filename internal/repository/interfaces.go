package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/daywatch/internal/domain"
)

// ActivityTotal is an aggregated view of tracked time per activity,
// produced for the stats output.
type ActivityTotal struct {
	ActivityID   string
	Title        string
	Sessions     int
	TotalSeconds int
}

type ActivityRepo interface {
	Create(ctx context.Context, a *domain.Activity) error
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	List(ctx context.Context) ([]*domain.Activity, error)
	Update(ctx context.Context, a *domain.Activity) error
	Delete(ctx context.Context, id string) error
}

type TimetableRepo interface {
	Create(ctx context.Context, t *domain.Timetable) error
	GetByDate(ctx context.Context, date string) (*domain.Timetable, error)
	ListEntries(ctx context.Context, timetableID string) ([]*domain.TimetableEntry, error)
	ReplaceEntries(ctx context.Context, timetableID string, entries []*domain.TimetableEntry) error
	Delete(ctx context.Context, id string) error
}

type SessionRepo interface {
	CreateOpen(ctx context.Context, s *domain.ActivitySession) error
	Finalize(ctx context.Context, id string, endedAt time.Time, durationSeconds int) error
	GetByID(ctx context.Context, id string) (*domain.ActivitySession, error)
	ListByActivity(ctx context.Context, activityID string) ([]*domain.ActivitySession, error)
	TotalsByActivity(ctx context.Context, days int) ([]ActivityTotal, error)
}

type SettingRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
