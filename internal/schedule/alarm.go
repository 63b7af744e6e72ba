package schedule

import (
	"sync"
	"time"
)

// Alarm is a re-armable one-shot wake-up. Arming replaces any pending
// wake-up; Stop cancels without firing.
type Alarm interface {
	Arm(d time.Duration)
	Stop()
}

// AlarmFactory builds an Alarm that invokes fn when it fires. Tests
// substitute a manual implementation so nothing sleeps.
type AlarmFactory func(fn func()) Alarm

// NewAlarm returns the real Alarm backed by time.AfterFunc.
func NewAlarm(fn func()) Alarm {
	return &timerAlarm{fn: fn}
}

type timerAlarm struct {
	mu sync.Mutex
	fn func()
	t  *time.Timer
}

func (a *timerAlarm) Arm(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.t != nil {
		a.t.Stop()
	}
	if d < 0 {
		d = 0
	}
	a.t = time.AfterFunc(d, a.fn)
}

func (a *timerAlarm) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.t != nil {
		a.t.Stop()
		a.t = nil
	}
}
