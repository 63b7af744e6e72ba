// Package timer implements the elapsed-time tracking state machine.
//
// A Service tracks at most one live session (idle -> running -> paused ->
// running ... -> idle). An open-ended session row is persisted on Start and
// finalized with its end time and total duration on Stop. Elapsed time is
// accumulation-based: completed running intervals are folded into an
// accumulator on pause/stop, and the interval since the last resume is
// added on read only while running, so repeated pause/resume cycles cannot
// drift or double count.
package timer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/daywatch/internal/domain"
	"github.com/alexanderramin/daywatch/internal/repository"
	"github.com/google/uuid"
)

// ErrAlreadyActive is returned by Start while a session is running or
// paused. The caller must stop the active session first.
var ErrAlreadyActive = errors.New("timer already active")

// Clock supplies the current time. Tests substitute a fake.
type Clock func() time.Time

// Service is the elapsed timer. All exported methods are safe for
// concurrent use; callbacks are invoked outside the internal lock.
type Service struct {
	sessions  repository.SessionRepo
	logger    *slog.Logger
	now       Clock
	tickEvery time.Duration

	mu           sync.Mutex
	state        domain.TimerState
	activityID   string
	sessionID    string
	startedAt    time.Time
	accumSeconds int
	lastResume   time.Time
	tickStop     chan struct{}

	tickFns    []func(elapsedSeconds int)
	stateFns   []func(domain.TimerState)
	startedFns []func(sessionID string)
	stoppedFns []func(sessionID string, durationSeconds int)
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall-clock source.
func WithClock(c Clock) Option {
	return func(s *Service) { s.now = c }
}

// WithTickInterval overrides the tick period (default one second).
func WithTickInterval(d time.Duration) Option {
	return func(s *Service) { s.tickEvery = d }
}

// NewService creates an idle timer persisting sessions through the given repo.
func NewService(sessions repository.SessionRepo, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		sessions:  sessions,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		tickEvery: time.Second,
		state:     domain.TimerIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// OnTick registers a callback for elapsed-seconds ticks while running.
func (s *Service) OnTick(fn func(elapsedSeconds int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickFns = append(s.tickFns, fn)
}

// OnStateChange registers a callback for state transitions.
func (s *Service) OnStateChange(fn func(domain.TimerState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stateFns = append(s.stateFns, fn)
}

// OnStarted registers a callback fired with the new session id.
func (s *Service) OnStarted(fn func(sessionID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startedFns = append(s.startedFns, fn)
}

// OnStopped registers a callback fired with the finalized session id and
// its total duration in seconds.
func (s *Service) OnStopped(fn func(sessionID string, durationSeconds int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stoppedFns = append(s.stoppedFns, fn)
}

// State returns the current timer state.
func (s *Service) State() domain.TimerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentActivityID returns the activity being tracked, or "" when idle.
func (s *Service) CurrentActivityID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activityID
}

// CurrentSessionID returns the open session id, or "" when idle.
func (s *Service) CurrentSessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Elapsed returns whole seconds tracked so far in the live session:
// the accumulator plus, while running, the interval since last resume.
func (s *Service) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

func (s *Service) elapsedLocked() int {
	elapsed := s.accumSeconds
	if s.state == domain.TimerRunning {
		elapsed += wholeSeconds(s.now().Sub(s.lastResume))
	}
	return elapsed
}

// Start begins tracking the given activity. Legal only from idle; returns
// ErrAlreadyActive otherwise. On success the open session row has been
// persisted and the returned id identifies it.
func (s *Service) Start(ctx context.Context, activityID string) (string, error) {
	s.mu.Lock()
	if s.state != domain.TimerIdle {
		s.mu.Unlock()
		return "", fmt.Errorf("starting timer for activity %s: %w", activityID, ErrAlreadyActive)
	}

	now := s.now()
	sessionID := uuid.New().String()
	session := &domain.ActivitySession{
		ID:         sessionID,
		ActivityID: activityID,
		StartedAt:  now,
	}
	if err := s.sessions.CreateOpen(ctx, session); err != nil {
		s.mu.Unlock()
		return "", fmt.Errorf("persisting open session: %w", err)
	}

	s.activityID = activityID
	s.sessionID = sessionID
	s.startedAt = now
	s.lastResume = now
	s.accumSeconds = 0
	s.startTickerLocked()
	stateFns := s.setStateLocked(domain.TimerRunning)
	startedFns := append([]func(string){}, s.startedFns...)
	tickFns := append([]func(int){}, s.tickFns...)
	s.mu.Unlock()

	for _, fn := range stateFns {
		fn(domain.TimerRunning)
	}
	for _, fn := range startedFns {
		fn(sessionID)
	}
	for _, fn := range tickFns {
		fn(0)
	}
	return sessionID, nil
}

// Pause freezes the timer. No-op unless running.
func (s *Service) Pause() {
	s.mu.Lock()
	if s.state != domain.TimerRunning {
		s.mu.Unlock()
		return
	}
	s.accumSeconds += wholeSeconds(s.now().Sub(s.lastResume))
	s.stopTickerLocked()
	stateFns := s.setStateLocked(domain.TimerPaused)
	s.mu.Unlock()

	for _, fn := range stateFns {
		fn(domain.TimerPaused)
	}
}

// Resume continues a paused timer. No-op unless paused.
func (s *Service) Resume() {
	s.mu.Lock()
	if s.state != domain.TimerPaused {
		s.mu.Unlock()
		return
	}
	s.lastResume = s.now()
	s.startTickerLocked()
	stateFns := s.setStateLocked(domain.TimerRunning)
	s.mu.Unlock()

	for _, fn := range stateFns {
		fn(domain.TimerRunning)
	}
}

// Stop finalizes the live session and returns its id. From idle it is a
// no-op returning "". The session fields are reset even if the
// persistence write fails; the error is returned for the caller to log.
func (s *Service) Stop(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.state == domain.TimerIdle {
		s.mu.Unlock()
		return "", nil
	}

	s.stopTickerLocked()
	end := s.now()
	if s.state == domain.TimerRunning {
		s.accumSeconds += wholeSeconds(end.Sub(s.lastResume))
	}
	duration := s.accumSeconds
	sessionID := s.sessionID

	persistErr := s.sessions.Finalize(ctx, sessionID, end, duration)

	s.activityID = ""
	s.sessionID = ""
	s.startedAt = time.Time{}
	s.lastResume = time.Time{}
	s.accumSeconds = 0
	stateFns := s.setStateLocked(domain.TimerIdle)
	stoppedFns := append([]func(string, int){}, s.stoppedFns...)
	s.mu.Unlock()

	for _, fn := range stateFns {
		fn(domain.TimerIdle)
	}
	for _, fn := range stoppedFns {
		fn(sessionID, duration)
	}

	if persistErr != nil {
		s.logger.Error("session finalize failed",
			"session_id", sessionID, "duration_seconds", duration, "error", persistErr)
		return sessionID, fmt.Errorf("finalizing session %s: %w", sessionID, persistErr)
	}
	return sessionID, nil
}

// setStateLocked transitions to the new state and returns the callbacks to
// invoke after unlocking. Returns nil if the state is unchanged.
func (s *Service) setStateLocked(state domain.TimerState) []func(domain.TimerState) {
	if state == s.state {
		return nil
	}
	s.state = state
	return append([]func(domain.TimerState){}, s.stateFns...)
}

func (s *Service) startTickerLocked() {
	if s.tickEvery <= 0 {
		return
	}
	stop := make(chan struct{})
	s.tickStop = stop
	go func() {
		ticker := time.NewTicker(s.tickEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.onTick()
			case <-stop:
				return
			}
		}
	}()
}

func (s *Service) stopTickerLocked() {
	if s.tickStop != nil {
		close(s.tickStop)
		s.tickStop = nil
	}
}

// onTick recomputes elapsed time and fans it out. The accumulator is not
// mutated here; that happens only on pause/stop. A tick racing a
// stop/pause observes the new state and does nothing.
func (s *Service) onTick() {
	s.mu.Lock()
	if s.state != domain.TimerRunning {
		s.mu.Unlock()
		return
	}
	elapsed := s.elapsedLocked()
	tickFns := append([]func(int){}, s.tickFns...)
	s.mu.Unlock()

	for _, fn := range tickFns {
		fn(elapsed)
	}
}

// wholeSeconds truncates a delta to whole seconds, clamping negatives
// so a clock hiccup can never shrink the accumulator.
func wholeSeconds(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}
