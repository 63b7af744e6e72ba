package cli

import (
	"context"
	"testing"

	"github.com/alexanderramin/daywatch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, app *App, args ...string) error {
	t.Helper()
	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SilenceUsage = true
	root.SilenceErrors = true
	return root.Execute()
}

func TestActivityAddCommand(t *testing.T) {
	app := newTestApp(t)

	err := execute(t, app, "activity", "add", "--title", "Deep work", "--effort", "4")
	require.NoError(t, err)

	activities, err := app.Activities.List(context.Background())
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "Deep work", activities[0].Title)
	assert.Equal(t, 4, activities[0].EffortLevel)
}

func TestActivityAddRequiresTitleWhenNotInteractive(t *testing.T) {
	app := newTestApp(t)
	app.IsInteractive = func() bool { return false }

	err := execute(t, app, "activity", "add")
	assert.ErrorContains(t, err, "--title is required")
}

func TestTimetableSetCommand(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	reading := testutil.NewTestActivity("Reading")
	require.NoError(t, app.Activities.Create(ctx, reading))

	err := execute(t, app, "timetable", "set",
		"--date", "2025-03-10",
		"--mode", "locked_in",
		"--slot", "09:00-10:30@Reading#morning pages",
		"--slot", "11:00-12:00",
	)
	require.NoError(t, err)

	tt, err := app.Timetables.GetByDate(ctx, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, "locked_in", string(tt.Mode))

	entries, err := app.Timetables.ListEntries(ctx, tt.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, reading.ID, entries[0].ActivityID)
	assert.Equal(t, "morning pages", entries[0].Note)
	assert.Empty(t, entries[1].ActivityID)
}

func TestTimetableSetReplacesExistingSlots(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	require.NoError(t, execute(t, app, "timetable", "set",
		"--date", "2025-03-10", "--slot", "09:00-10:00"))
	require.NoError(t, execute(t, app, "timetable", "set",
		"--date", "2025-03-10", "--slot", "14:00-15:00", "--slot", "16:00-17:00"))

	tt, err := app.Timetables.GetByDate(ctx, "2025-03-10")
	require.NoError(t, err)
	entries, err := app.Timetables.ListEntries(ctx, tt.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "14:00", entries[0].StartTime)
}

func TestTimetableSetRejectsBadInput(t *testing.T) {
	app := newTestApp(t)

	err := execute(t, app, "timetable", "set", "--date", "2025-03-10",
		"--slot", "10:00-09:00")
	assert.ErrorContains(t, err, "end must be after start")

	err = execute(t, app, "timetable", "set", "--date", "2025-03-10",
		"--mode", "sprint", "--slot", "09:00-10:00")
	assert.ErrorContains(t, err, "invalid mode")

	err = execute(t, app, "timetable", "set", "--date", "2025-03-10")
	assert.ErrorContains(t, err, "at least one --slot")
}

func TestTimetableClearCommand(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	require.NoError(t, execute(t, app, "timetable", "set",
		"--date", "2025-03-10", "--slot", "09:00-10:00"))
	require.NoError(t, execute(t, app, "timetable", "clear", "--date", "2025-03-10"))

	_, err := app.Timetables.GetByDate(ctx, "2025-03-10")
	assert.Error(t, err)
}

func TestDNDCommandPersistsSetting(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	require.NoError(t, execute(t, app, "dnd", "on"))

	val, err := app.Settings.Get(ctx, "notifications.dnd")
	require.NoError(t, err)
	assert.Equal(t, "1", val)

	require.NoError(t, execute(t, app, "dnd", "off"))
	val, err = app.Settings.Get(ctx, "notifications.dnd")
	require.NoError(t, err)
	assert.Equal(t, "0", val)
}
