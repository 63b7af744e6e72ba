package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/daywatch/internal/domain"
	"github.com/alexanderramin/daywatch/internal/repository"
)

// chainEpsilon is the maximum End-to-Start gap treated as back-to-back:
// when a slot ends and the next slot starts within this window, the start
// is dispatched in the same turn so tracking never sees an idle gap.
const chainEpsilon = time.Second

// Driver owns today's event list and keeps exactly one pending wake-up
// armed for its head. Firing pops the head, routes it to the reminder
// policy and re-arms for the new head. A rebuild replaces the whole list
// and any pending wake-up atomically.
type Driver struct {
	timetables repository.TimetableRepo
	policy     *Policy
	logger     *slog.Logger
	now        Clock

	mu     sync.Mutex
	events []Event
	alarm  Alarm
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithDriverClock overrides the wall-clock source.
func WithDriverClock(c Clock) DriverOption {
	return func(d *Driver) { d.now = c }
}

// WithAlarmFactory overrides how the pending wake-up is created.
func WithAlarmFactory(f AlarmFactory) DriverOption {
	return func(d *Driver) { d.alarm = f(d.fire) }
}

// NewDriver creates a Driver. Call Rebuild to load and arm today's events.
func NewDriver(timetables repository.TimetableRepo, policy *Policy, logger *slog.Logger, opts ...DriverOption) *Driver {
	d := &Driver{
		timetables: timetables,
		policy:     policy,
		logger:     logger,
		now:        func() time.Time { return time.Now() },
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.alarm == nil {
		d.alarm = NewAlarm(d.fire)
	}
	return d
}

// Rebuild recomputes today's event list from storage and re-arms the
// wake-up. The previous list and any pending wake-up are discarded first,
// so a stale fire can never dispatch an abandoned event. Events already in
// the past are dropped as missed, not fired retroactively.
func (d *Driver) Rebuild(ctx context.Context) error {
	today := d.now()
	date := today.Format("2006-01-02")

	var entries []*domain.TimetableEntry
	tt, err := d.timetables.GetByDate(ctx, date)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		// No plan for today; the driver stays idle.
	case err != nil:
		return fmt.Errorf("loading timetable for %s: %w", date, err)
	default:
		entries, err = d.timetables.ListEntries(ctx, tt.ID)
		if err != nil {
			return fmt.Errorf("loading timetable entries: %w", err)
		}
	}

	events := BuildDayEvents(entries, today)

	d.mu.Lock()
	d.events = events
	d.armNextLocked()
	remaining := len(d.events)
	d.mu.Unlock()

	d.logger.Info("schedule rebuilt", "date", date, "slots", len(entries), "pending_events", remaining)
	return nil
}

// Pending returns a copy of the not-yet-dispatched events.
func (d *Driver) Pending() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Event, len(d.events))
	copy(out, d.events)
	return out
}

// Stop cancels the pending wake-up and drops the event list.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = nil
	d.alarm.Stop()
}

// armNextLocked drops already-elapsed events and arms the wake-up for the
// new head, if any. Callers hold d.mu.
func (d *Driver) armNextLocked() {
	d.alarm.Stop()
	now := d.now()
	for len(d.events) > 0 && !d.events[0].At.After(now) {
		missed := d.events[0]
		d.events = d.events[1:]
		d.logger.Debug("dropping missed event",
			"kind", string(missed.Kind), "at", missed.At, "activity_id", missed.ActivityID)
	}
	if len(d.events) == 0 {
		return
	}
	d.alarm.Arm(d.events[0].At.Sub(now))
}

// fire handles one wake-up: pop the head event, dispatch it, and re-arm.
// An End event immediately followed by a Start within chainEpsilon pulls
// that Start into the same turn (back-to-back slots hand over with no
// gap). Dispatch happens outside the lock so policy callbacks can read
// driver state.
//
// A wake-up whose callback has already started cannot be cancelled by
// Rebuild, so fire may run against a freshly swapped list whose head is
// hours away. The head is only dispatched when it is actually due;
// otherwise the stale wake-up just re-arms for it.
func (d *Driver) fire() {
	ctx := context.Background()

	d.mu.Lock()
	if len(d.events) == 0 {
		d.mu.Unlock()
		return
	}
	if d.events[0].At.After(d.now()) {
		d.armNextLocked()
		d.mu.Unlock()
		return
	}
	ev := d.events[0]
	d.events = d.events[1:]

	var chained *Event
	if ev.Kind == domain.EventEnd && len(d.events) > 0 {
		next := d.events[0]
		if next.Kind == domain.EventStart && absGap(next.At, ev.At) <= chainEpsilon {
			d.events = d.events[1:]
			chained = &next
		}
	}
	d.mu.Unlock()

	switch ev.Kind {
	case domain.EventStart:
		d.policy.HandleStart(ctx, ev)
	case domain.EventEnd:
		d.policy.HandleEnd(ctx, ev)
	}
	if chained != nil {
		d.policy.HandleStart(ctx, *chained)
	}

	d.mu.Lock()
	d.armNextLocked()
	d.mu.Unlock()
}

func absGap(a, b time.Time) time.Duration {
	gap := a.Sub(b)
	if gap < 0 {
		return -gap
	}
	return gap
}
