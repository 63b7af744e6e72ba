package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/daywatch/internal/domain"
	"github.com/alexanderramin/daywatch/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createSessionActivity(t *testing.T, repo *SQLiteActivityRepo) *domain.Activity {
	t.Helper()
	a := testutil.NewTestActivity("Tracked")
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func TestSessionRepo_CreateOpenAndFinalize(t *testing.T) {
	database := testutil.NewTestDB(t)
	activities := NewSQLiteActivityRepo(database)
	repo := NewSQLiteSessionRepo(database)
	ctx := context.Background()

	act := createSessionActivity(t, activities)
	started := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	s := &domain.ActivitySession{
		ID:         uuid.New().String(),
		ActivityID: act.ID,
		StartedAt:  started,
	}
	require.NoError(t, repo.CreateOpen(ctx, s))

	open, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, open.Finalized())
	assert.Nil(t, open.EndedAt)
	assert.Nil(t, open.DurationSeconds)

	ended := started.Add(125 * time.Second)
	require.NoError(t, repo.Finalize(ctx, s.ID, ended, 125))

	done, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.True(t, done.Finalized())
	assert.Equal(t, 125, *done.DurationSeconds)
	assert.True(t, done.EndedAt.Equal(ended))
}

func TestSessionRepo_FinalizeMissing(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteSessionRepo(database)

	err := repo.Finalize(context.Background(), "nope", time.Now(), 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRepo_GetMissing(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteSessionRepo(database)

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRepo_TotalsByActivitySkipsOpenSessions(t *testing.T) {
	database := testutil.NewTestDB(t)
	activities := NewSQLiteActivityRepo(database)
	repo := NewSQLiteSessionRepo(database)
	ctx := context.Background()

	act := createSessionActivity(t, activities)
	now := time.Now().UTC()

	finalized := &domain.ActivitySession{ID: uuid.New().String(), ActivityID: act.ID, StartedAt: now.Add(-time.Hour)}
	require.NoError(t, repo.CreateOpen(ctx, finalized))
	require.NoError(t, repo.Finalize(ctx, finalized.ID, now.Add(-30*time.Minute), 1800))

	open := &domain.ActivitySession{ID: uuid.New().String(), ActivityID: act.ID, StartedAt: now}
	require.NoError(t, repo.CreateOpen(ctx, open))

	totals, err := repo.TotalsByActivity(ctx, 7)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, act.ID, totals[0].ActivityID)
	assert.Equal(t, "Tracked", totals[0].Title)
	assert.Equal(t, 1, totals[0].Sessions)
	assert.Equal(t, 1800, totals[0].TotalSeconds)
}

// The cutoff is a full timestamp, not a calendar date: a session on the
// boundary day but before the cutoff time of day falls outside the window.
func TestSessionRepo_TotalsByActivityCutoffIsTimeOfDayExact(t *testing.T) {
	database := testutil.NewTestDB(t)
	activities := NewSQLiteActivityRepo(database)
	repo := NewSQLiteSessionRepo(database)
	ctx := context.Background()

	act := createSessionActivity(t, activities)
	now := time.Now().UTC()

	inside := &domain.ActivitySession{ID: uuid.New().String(), ActivityID: act.ID, StartedAt: now.AddDate(0, 0, -7).Add(time.Hour)}
	require.NoError(t, repo.CreateOpen(ctx, inside))
	require.NoError(t, repo.Finalize(ctx, inside.ID, inside.StartedAt.Add(10*time.Minute), 600))

	outside := &domain.ActivitySession{ID: uuid.New().String(), ActivityID: act.ID, StartedAt: now.AddDate(0, 0, -7).Add(-time.Hour)}
	require.NoError(t, repo.CreateOpen(ctx, outside))
	require.NoError(t, repo.Finalize(ctx, outside.ID, outside.StartedAt.Add(10*time.Minute), 600))

	totals, err := repo.TotalsByActivity(ctx, 7)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, 1, totals[0].Sessions, "only the session after the cutoff instant counts")
	assert.Equal(t, 600, totals[0].TotalSeconds)
}

func TestSessionRepo_ListByActivityOrdered(t *testing.T) {
	database := testutil.NewTestDB(t)
	activities := NewSQLiteActivityRepo(database)
	repo := NewSQLiteSessionRepo(database)
	ctx := context.Background()

	act := createSessionActivity(t, activities)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	late := &domain.ActivitySession{ID: uuid.New().String(), ActivityID: act.ID, StartedAt: base.Add(2 * time.Hour)}
	early := &domain.ActivitySession{ID: uuid.New().String(), ActivityID: act.ID, StartedAt: base}
	require.NoError(t, repo.CreateOpen(ctx, late))
	require.NoError(t, repo.CreateOpen(ctx, early))

	sessions, err := repo.ListByActivity(ctx, act.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, early.ID, sessions[0].ID)
	assert.Equal(t, late.ID, sessions[1].ID)
}
