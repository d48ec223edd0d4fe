package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// TimerState is the phase of the rest timer.
type TimerState string

const (
	TimerIdle    TimerState = "idle"    // Not shown
	TimerRunning TimerState = "running" // Counting down
	TimerExpired TimerState = "expired" // Reached zero, waiting for dismiss
)

// Allowed increments for the add-time buttons.
const (
	AddTimeShort = 10
	AddTimeLong  = 30
)

// TimerSnapshot is a point-in-time view of the timer.
type TimerSnapshot struct {
	State     TimerState `json:"state"`
	Remaining int        `json:"remaining"` // Seconds
	Initial   int        `json:"initial"`   // Seconds requested by the last Start
	Alerts    int        `json:"alerts"`    // Times the timer has expired since startup
	Display   string     `json:"display"`   // m:ss
}

// RestTimer counts down the rest period between sets. Only one countdown
// exists at a time: starting a new one replaces whatever was active.
//
// The countdown runs on a goroutine owned by the timer and is cancelled on
// every exit from the running state. With a zero tick interval no goroutine
// is started and the owner drives the countdown through Tick.
type RestTimer struct {
	mu         sync.Mutex
	state      TimerState
	remaining  int
	initial    int
	alerts     int
	interval   time.Duration
	onComplete func()

	// generation invalidates ticks from a replaced countdown that were
	// already waiting on mu when it got cancelled.
	generation uint64
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewRestTimer creates an idle timer. onComplete (optional) runs once each
// time a countdown reaches zero, outside the timer's lock.
func NewRestTimer(interval time.Duration, onComplete func()) *RestTimer {
	return &RestTimer{
		state:      TimerIdle,
		interval:   interval,
		onComplete: onComplete,
	}
}

// Start begins a countdown of seconds, replacing any active one.
// Durations <= 0 are ignored and leave the current timer as it is.
func (t *RestTimer) Start(seconds int) bool {
	if seconds <= 0 {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopTickerLocked()
	t.state = TimerRunning
	t.remaining = seconds
	t.initial = seconds
	t.startTickerLocked()
	log.Debugf("rest timer started: %ds", seconds)
	return true
}

// AddTime extends a running or expired countdown. An expired timer goes back to running.
// Returns false when the timer is idle.
func (t *RestTimer) AddTime(seconds int) bool {
	if seconds <= 0 {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case TimerRunning:
		t.remaining += seconds
	case TimerExpired:
		t.remaining += seconds
		t.state = TimerRunning
		t.startTickerLocked()
	default:
		return false
	}
	return true
}

// Dismiss returns the timer to idle, from running (early cancel) or expired.
func (t *RestTimer) Dismiss() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopTickerLocked()
	t.state = TimerIdle
	t.remaining = 0
}

// Close tears the timer down and waits for the countdown goroutine to exit.
func (t *RestTimer) Close() {
	t.mu.Lock()
	t.stopTickerLocked()
	t.state = TimerIdle
	t.remaining = 0
	done := t.done
	t.done = nil
	t.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Tick advances the countdown by one second.
func (t *RestTimer) Tick() {
	t.mu.Lock()
	gen := t.generation
	t.mu.Unlock()
	t.tick(gen)
}

func (t *RestTimer) tick(gen uint64) {
	t.mu.Lock()
	if gen != t.generation || t.state != TimerRunning {
		t.mu.Unlock()
		return
	}

	t.remaining--
	if t.remaining > 0 {
		t.mu.Unlock()
		return
	}

	t.remaining = 0
	t.state = TimerExpired
	t.alerts++
	t.stopTickerLocked()
	cb := t.onComplete
	t.mu.Unlock()

	log.Info("rest timer expired, time for the next set")
	if cb != nil {
		cb()
	}
}

// Snapshot returns the current timer view.
func (t *RestTimer) Snapshot() TimerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TimerSnapshot{
		State:     t.state,
		Remaining: t.remaining,
		Initial:   t.initial,
		Alerts:    t.alerts,
		Display:   FormatRemaining(t.remaining),
	}
}

// FormatRemaining renders seconds as m:ss.
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// startTickerLocked spawns the countdown goroutine. Caller holds mu.
func (t *RestTimer) startTickerLocked() {
	t.stopTickerLocked()
	t.generation++
	if t.interval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done
	gen := t.generation
	interval := t.interval

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.tick(gen)
			}
		}
	}()
}

// stopTickerLocked cancels the countdown goroutine, if any. Caller holds mu.
// It does not wait for the goroutine, which may itself be blocked on mu.
func (t *RestTimer) stopTickerLocked() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.generation++
}
