package schedule

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/daywatch/internal/domain"
	"github.com/alexanderramin/daywatch/internal/repository"
	"github.com/alexanderramin/daywatch/internal/testutil"
	"github.com/alexanderramin/daywatch/internal/timer"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeAlarm records arm/stop calls; tests fire it by hand.
type fakeAlarm struct {
	fn      func()
	armed   []time.Duration
	stopped int
}

func (a *fakeAlarm) Arm(d time.Duration) { a.armed = append(a.armed, d) }
func (a *fakeAlarm) Stop()               { a.stopped++ }
func (a *fakeAlarm) Fire()               { a.fn() }

func (a *fakeAlarm) lastArmed() (time.Duration, bool) {
	if len(a.armed) == 0 {
		return 0, false
	}
	return a.armed[len(a.armed)-1], true
}

// recordingSink collects notification messages.
type recordingSink struct {
	mu       sync.Mutex
	messages []string
}

func (s *recordingSink) Notify(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
}

func (s *recordingSink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.messages...)
}

// testDay is the fixed date every schedule test runs on.
var testDay = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

// at returns HH:MM on the test day.
func at(hhmm string) time.Time {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		panic(err)
	}
	return time.Date(2025, 3, 10, t.Hour(), t.Minute(), 0, 0, time.UTC)
}

type testEnv struct {
	activities *repository.SQLiteActivityRepo
	timetables *repository.SQLiteTimetableRepo
	sessions   *repository.SQLiteSessionRepo
	settings   *repository.SQLiteSettingRepo
	clock      *fakeClock
	timer      *timer.Service
	sink       *recordingSink
	policy     *Policy
	alarm      *fakeAlarm
	snooze     *fakeAlarm
	driver     *Driver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)

	env := &testEnv{
		activities: repository.NewSQLiteActivityRepo(database),
		timetables: repository.NewSQLiteTimetableRepo(database),
		sessions:   repository.NewSQLiteSessionRepo(database),
		settings:   repository.NewSQLiteSettingRepo(database),
		clock:      &fakeClock{now: testDay},
		sink:       &recordingSink{},
		alarm:      &fakeAlarm{},
		snooze:     &fakeAlarm{},
	}

	env.timer = timer.NewService(env.sessions, testLogger(),
		timer.WithClock(env.clock.Now), timer.WithTickInterval(0))

	env.policy = NewPolicy(env.timer, env.activities, env.settings, env.sink, testLogger(),
		WithSnoozeAlarmFactory(func(fn func()) Alarm {
			env.snooze.fn = fn
			return env.snooze
		}))

	env.driver = NewDriver(env.timetables, env.policy, testLogger(),
		WithDriverClock(env.clock.Now),
		WithAlarmFactory(func(fn func()) Alarm {
			env.alarm.fn = fn
			return env.alarm
		}))

	return env
}

// addActivity creates and persists a named activity, returning its id.
func (env *testEnv) addActivity(t *testing.T, title string) string {
	t.Helper()
	a := testutil.NewTestActivity(title)
	require.NoError(t, env.activities.Create(context.Background(), a))
	return a.ID
}

// seedTimetable stores today's timetable with the given slots.
func (env *testEnv) seedTimetable(t *testing.T, entries ...*domain.TimetableEntry) {
	t.Helper()
	ctx := context.Background()
	tt := testutil.NewTestTimetable(testDay.Format("2006-01-02"))
	require.NoError(t, env.timetables.Create(ctx, tt))
	require.NoError(t, env.timetables.ReplaceEntries(ctx, tt.ID, entries))
}
