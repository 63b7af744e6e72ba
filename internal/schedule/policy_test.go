package schedule

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/daywatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startEvent(activityID, note string) Event {
	return Event{
		At:         at("09:00"),
		Kind:       domain.EventStart,
		ActivityID: activityID,
		SlotStart:  "09:00",
		SlotEnd:    "10:00",
		Note:       note,
	}
}

func endEvent(activityID string) Event {
	return Event{
		At:         at("10:00"),
		Kind:       domain.EventEnd,
		ActivityID: activityID,
		SlotStart:  "09:00",
		SlotEnd:    "10:00",
	}
}

func TestHandleStart_AutoStartsIdleTimer(t *testing.T) {
	env := newTestEnv(t)
	actID := env.addActivity(t, "Coding")

	env.policy.HandleStart(context.Background(), startEvent(actID, ""))

	assert.Equal(t, domain.TimerRunning, env.timer.State())
	assert.Equal(t, actID, env.timer.CurrentActivityID())

	messages := env.sink.all()
	require.Len(t, messages, 1)
	assert.Equal(t, "Slot starting: Coding", messages[0])
}

func TestHandleStart_NoteAppendedToNotification(t *testing.T) {
	env := newTestEnv(t)
	actID := env.addActivity(t, "Coding")

	env.policy.HandleStart(context.Background(), startEvent(actID, "focus sprint"))

	messages := env.sink.all()
	require.Len(t, messages, 1)
	assert.Equal(t, "Slot starting: Coding - focus sprint", messages[0])
}

func TestHandleStart_TimerAlreadyRunningIsLeftAlone(t *testing.T) {
	env := newTestEnv(t)
	actX := env.addActivity(t, "Writing")
	actY := env.addActivity(t, "Reading")
	ctx := context.Background()

	_, err := env.timer.Start(ctx, actX)
	require.NoError(t, err)

	env.policy.HandleStart(ctx, startEvent(actY, ""))

	assert.Equal(t, actX, env.timer.CurrentActivityID(),
		"a running timer is never hijacked by a slot start")
}

func TestHandleStart_UnassignedSlotSkipsTimer(t *testing.T) {
	env := newTestEnv(t)

	env.policy.HandleStart(context.Background(), startEvent("", ""))

	assert.Equal(t, domain.TimerIdle, env.timer.State())
	messages := env.sink.all()
	require.Len(t, messages, 1)
	assert.Equal(t, "Slot starting: Unassigned", messages[0])
}

func TestHandleStart_UnknownActivityFallbackTitle(t *testing.T) {
	env := newTestEnv(t)

	// The slot references an activity that was deleted since the
	// timetable was written; the reminder still goes out.
	env.policy.HandleStart(context.Background(), startEvent("ghost-id", ""))

	messages := env.sink.all()
	require.Len(t, messages, 1)
	assert.Equal(t, "Slot starting: Activity ghost-id", messages[0])
}

func TestHandleEnd_StopsOnlyMatchingActivity(t *testing.T) {
	env := newTestEnv(t)
	actX := env.addActivity(t, "Writing")
	actY := env.addActivity(t, "Reading")
	ctx := context.Background()

	env.policy.HandleStart(ctx, startEvent(actX, ""))
	require.Equal(t, domain.TimerRunning, env.timer.State())

	env.policy.HandleEnd(ctx, endEvent(actY))
	assert.Equal(t, domain.TimerRunning, env.timer.State(),
		"ending a different slot must not stop the timer")

	env.policy.HandleEnd(ctx, endEvent(actX))
	assert.Equal(t, domain.TimerIdle, env.timer.State())
}

func TestHandleEnd_StopsPausedTimerToo(t *testing.T) {
	env := newTestEnv(t)
	actID := env.addActivity(t, "Coding")
	ctx := context.Background()

	env.policy.HandleStart(ctx, startEvent(actID, ""))
	env.timer.Pause()

	env.policy.HandleEnd(ctx, endEvent(actID))
	assert.Equal(t, domain.TimerIdle, env.timer.State())
}

func TestDoNotDisturb_SuppressesVisibleNotificationOnly(t *testing.T) {
	env := newTestEnv(t)
	actID := env.addActivity(t, "Coding")
	ctx := context.Background()

	require.NoError(t, env.settings.Set(ctx, DNDKey, "1"))

	env.policy.HandleStart(ctx, startEvent(actID, ""))

	assert.Empty(t, env.sink.all(), "DND hides the toast")
	assert.Equal(t, domain.TimerRunning, env.timer.State(), "automation still runs under DND")

	env.policy.HandleEnd(ctx, endEvent(actID))
	assert.Empty(t, env.sink.all())
	assert.Equal(t, domain.TimerIdle, env.timer.State())
}

func TestDoNotDisturb_DefaultsOff(t *testing.T) {
	env := newTestEnv(t)
	assert.False(t, env.policy.DoNotDisturb(context.Background()))
}

func TestSetDoNotDisturb_PersistsAndAlwaysConfirms(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.policy.SetDoNotDisturb(ctx, true))
	assert.True(t, env.policy.DoNotDisturb(ctx))

	val, err := env.settings.Get(ctx, DNDKey)
	require.NoError(t, err)
	assert.Equal(t, "1", val)

	// The confirmation bypasses the freshly-enabled DND.
	messages := env.sink.all()
	require.Len(t, messages, 1)
	assert.Equal(t, "Do Not Disturb ON", messages[0])

	require.NoError(t, env.policy.SetDoNotDisturb(ctx, false))
	assert.False(t, env.policy.DoNotDisturb(ctx))
	messages = env.sink.all()
	require.Len(t, messages, 2)
	assert.Equal(t, "Do Not Disturb OFF", messages[1])
}

func TestSnooze_ReplaysLastStartWithoutTouchingTimer(t *testing.T) {
	env := newTestEnv(t)
	actID := env.addActivity(t, "Coding")
	ctx := context.Background()

	env.policy.HandleStart(ctx, startEvent(actID, ""))
	_, err := env.timer.Stop(ctx)
	require.NoError(t, err)

	env.policy.Snooze()

	delay, ok := env.snooze.lastArmed()
	require.True(t, ok, "snooze schedules a replay")
	assert.Equal(t, DefaultSnoozeDelay, delay)

	env.snooze.Fire()

	messages := env.sink.all()
	require.Len(t, messages, 3)
	assert.Equal(t, "Slot starting: Coding", messages[0])
	assert.True(t, strings.HasPrefix(messages[1], "Snoozed reminder"))
	assert.Equal(t, "Slot starting: Coding", messages[2], "replay repeats the original reminder")
	assert.Equal(t, domain.TimerIdle, env.timer.State(), "replay is visual only")
}

func TestSnooze_RetriggerReplacesPendingReplay(t *testing.T) {
	env := newTestEnv(t)
	actID := env.addActivity(t, "Coding")
	ctx := context.Background()

	env.policy.HandleStart(ctx, startEvent(actID, ""))

	env.policy.Snooze()
	env.policy.Snooze()

	assert.Len(t, env.snooze.armed, 2,
		"re-arming the same one-shot alarm replaces the pending replay")
}

func TestSnooze_WithoutPriorStartIsNoOp(t *testing.T) {
	env := newTestEnv(t)

	env.policy.Snooze()

	_, ok := env.snooze.lastArmed()
	assert.False(t, ok)
	assert.Empty(t, env.sink.all())
}

func TestSnooze_CustomDelay(t *testing.T) {
	env := newTestEnv(t)
	actID := env.addActivity(t, "Coding")

	snooze := &fakeAlarm{}
	policy := NewPolicy(env.timer, env.activities, env.settings, env.sink, testLogger(),
		WithSnoozeDelay(2*time.Minute),
		WithSnoozeAlarmFactory(func(fn func()) Alarm {
			snooze.fn = fn
			return snooze
		}))

	policy.HandleStart(context.Background(), startEvent(actID, ""))
	policy.Snooze()

	delay, ok := snooze.lastArmed()
	require.True(t, ok)
	assert.Equal(t, 2*time.Minute, delay)
	assert.Contains(t, env.sink.all()[len(env.sink.all())-1], "2 minutes")
}
