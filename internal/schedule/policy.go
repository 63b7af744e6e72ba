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
	"github.com/alexanderramin/daywatch/internal/timer"
)

// DNDKey is the settings key holding the do-not-disturb flag ("1"/"0").
const DNDKey = "notifications.dnd"

// DefaultSnoozeDelay is how long a snoozed start reminder waits before
// being shown again.
const DefaultSnoozeDelay = 5 * time.Minute

// NotificationSink receives user-visible notification text: a toast, a
// tray balloon, a log line. Do-not-disturb suppresses delivery before the
// sink is reached.
type NotificationSink interface {
	Notify(message string)
}

// SinkFunc adapts a plain function to NotificationSink.
type SinkFunc func(message string)

func (f SinkFunc) Notify(message string) { f(message) }

// NewLogSink returns a sink that writes notifications through the logger.
func NewLogSink(logger *slog.Logger) NotificationSink {
	return SinkFunc(func(message string) {
		logger.Info("notification", "message", message)
	})
}

// Policy decides, per dispatched event, whether to command the elapsed
// timer and whether to surface a visible notification. Do-not-disturb
// suppresses only the visible surface; auto start/stop always runs. The
// policy holds the one-directional reference to the timer; the timer
// knows nothing about scheduling.
type Policy struct {
	timer      *timer.Service
	activities repository.ActivityRepo
	settings   repository.SettingRepo
	sink       NotificationSink
	logger     *slog.Logger

	snoozeDelay time.Duration
	newAlarm    AlarmFactory

	mu         sync.Mutex
	lastStart  *Event
	snooze     Alarm
	startedFns []func(activityID string)
	endedFns   []func(activityID string)
}

// PolicyOption configures a Policy.
type PolicyOption func(*Policy)

// WithSnoozeDelay overrides the snooze replay delay.
func WithSnoozeDelay(d time.Duration) PolicyOption {
	return func(p *Policy) { p.snoozeDelay = d }
}

// WithSnoozeAlarmFactory overrides how the snooze wake-up is created.
func WithSnoozeAlarmFactory(f AlarmFactory) PolicyOption {
	return func(p *Policy) { p.newAlarm = f }
}

// NewPolicy creates a reminder policy commanding the given timer.
func NewPolicy(
	ts *timer.Service,
	activities repository.ActivityRepo,
	settings repository.SettingRepo,
	sink NotificationSink,
	logger *slog.Logger,
	opts ...PolicyOption,
) *Policy {
	p := &Policy{
		timer:       ts,
		activities:  activities,
		settings:    settings,
		sink:        sink,
		logger:      logger,
		snoozeDelay: DefaultSnoozeDelay,
		newAlarm:    NewAlarm,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// OnSlotStarted registers a callback fired with the slot's activity id
// after a start event is handled.
func (p *Policy) OnSlotStarted(fn func(activityID string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startedFns = append(p.startedFns, fn)
}

// OnSlotEnded registers a callback fired with the slot's activity id
// after an end event is handled.
func (p *Policy) OnSlotEnded(fn func(activityID string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endedFns = append(p.endedFns, fn)
}

// HandleStart processes a slot-start event: remember it for snooze, show
// the start notification, and auto-start the timer if it is idle. Timer
// errors are swallowed so a double-start can never stall the driver.
func (p *Policy) HandleStart(ctx context.Context, ev Event) {
	p.mu.Lock()
	evCopy := ev
	p.lastStart = &evCopy
	startedFns := append([]func(string){}, p.startedFns...)
	p.mu.Unlock()

	p.showStartNotification(ctx, ev)

	if ev.ActivityID != "" && p.timer.State() == domain.TimerIdle {
		if _, err := p.timer.Start(ctx, ev.ActivityID); err != nil {
			p.logger.Warn("auto-start failed", "activity_id", ev.ActivityID, "error", err)
		}
	}

	for _, fn := range startedFns {
		fn(ev.ActivityID)
	}
}

// HandleEnd processes a slot-end event: auto-stop the timer when it is
// tracking this slot's activity, then show the end notification.
func (p *Policy) HandleEnd(ctx context.Context, ev Event) {
	state := p.timer.State()
	if (state == domain.TimerRunning || state == domain.TimerPaused) &&
		p.timer.CurrentActivityID() == ev.ActivityID {
		if _, err := p.timer.Stop(ctx); err != nil {
			p.logger.Warn("auto-stop persistence failed", "activity_id", ev.ActivityID, "error", err)
		}
	}

	p.notify(ctx, "Slot ended: "+p.activityTitle(ctx, ev.ActivityID), false)

	p.mu.Lock()
	endedFns := append([]func(string){}, p.endedFns...)
	p.mu.Unlock()
	for _, fn := range endedFns {
		fn(ev.ActivityID)
	}
}

// Snooze re-delivers the last start notification after the snooze delay.
// Only the visible reminder is replayed; the timer is not touched. A
// second snooze before the first fires replaces it.
func (p *Policy) Snooze() {
	p.mu.Lock()
	if p.lastStart == nil {
		p.mu.Unlock()
		return
	}
	if p.snooze == nil {
		p.snooze = p.newAlarm(p.replayLastStart)
	}
	p.snooze.Arm(p.snoozeDelay)
	delay := p.snoozeDelay
	p.mu.Unlock()

	p.notify(context.Background(), fmt.Sprintf("Snoozed reminder for %d minutes", int(delay.Minutes())), false)
}

func (p *Policy) replayLastStart() {
	p.mu.Lock()
	last := p.lastStart
	p.mu.Unlock()
	if last == nil {
		return
	}
	p.showStartNotification(context.Background(), *last)
}

// DoNotDisturb reports the persisted DND flag. A missing setting means off.
func (p *Policy) DoNotDisturb(ctx context.Context) bool {
	val, err := p.settings.Get(ctx, DNDKey)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			p.logger.Warn("reading dnd setting failed", "error", err)
		}
		return false
	}
	return val == "1"
}

// SetDoNotDisturb persists the DND flag. The confirmation is always
// delivered, even when DND is being switched on.
func (p *Policy) SetDoNotDisturb(ctx context.Context, enabled bool) error {
	val := "0"
	if enabled {
		val = "1"
	}
	if err := p.settings.Set(ctx, DNDKey, val); err != nil {
		return fmt.Errorf("persisting dnd setting: %w", err)
	}
	msg := "Do Not Disturb OFF"
	if enabled {
		msg = "Do Not Disturb ON"
	}
	p.notify(ctx, msg, true)
	return nil
}

func (p *Policy) showStartNotification(ctx context.Context, ev Event) {
	msg := "Slot starting: " + p.activityTitle(ctx, ev.ActivityID)
	if ev.Note != "" {
		msg += " - " + ev.Note
	}
	p.notify(ctx, msg, false)
}

// notify delivers a message to the sink unless DND suppresses it. force
// bypasses DND (used for the DND toggle confirmation itself).
func (p *Policy) notify(ctx context.Context, message string, force bool) {
	if !force && p.DoNotDisturb(ctx) {
		p.logger.Debug("notification suppressed by dnd", "message", message)
		return
	}
	p.sink.Notify(message)
}

func (p *Policy) activityTitle(ctx context.Context, activityID string) string {
	if activityID == "" {
		return "Unassigned"
	}
	act, err := p.activities.GetByID(ctx, activityID)
	if err != nil {
		return "Activity " + activityID
	}
	return act.Title
}
