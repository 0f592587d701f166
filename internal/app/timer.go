package app

import (
	"fmt"
	"sync"
	"time"
)

// Timer is the on-air countdown. It never touches scoring state; onChange
// fires after every tick so the board can be re-rendered.
type Timer struct {
	mu       sync.Mutex
	seconds  int
	preset   int
	running  bool
	interval time.Duration
	stop     chan struct{}
	onChange func()
}

func NewTimer(seconds int, interval time.Duration, onChange func()) *Timer {
	if interval <= 0 {
		interval = time.Second
	}
	if onChange == nil {
		onChange = func() {}
	}
	return &Timer{seconds: seconds, preset: seconds, interval: interval, onChange: onChange}
}

// Set loads a new countdown value; it also becomes the reset value.
func (t *Timer) Set(seconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seconds = seconds
	t.preset = seconds
}

// Toggle starts or stops the countdown and reports whether it is running.
// A timer at zero does not start.
func (t *Timer) Toggle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		t.haltLocked()
		return false
	}
	if t.seconds <= 0 {
		return false
	}
	t.running = true
	stop := make(chan struct{})
	t.stop = stop
	go t.run(stop)
	return true
}

// Reset stops the countdown and restores the last Set value.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.haltLocked()
	t.seconds = t.preset
}

// Stop halts the countdown goroutine.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.haltLocked()
}

func (t *Timer) haltLocked() {
	t.running = false
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *Timer) run(stop chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		t.mu.Lock()
		if t.stop != stop {
			t.mu.Unlock()
			return
		}
		if t.seconds > 0 {
			t.seconds--
		}
		done := t.seconds == 0
		if done {
			t.running = false
			t.stop = nil
		}
		t.mu.Unlock()

		t.onChange()
		if done {
			return
		}
	}
}

func (t *Timer) Seconds() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seconds
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Display renders the remaining time as MM:SS.
func (t *Timer) Display() string {
	s := t.Seconds()
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

// Alert reports an expired countdown.
func (t *Timer) Alert() bool {
	return t.Seconds() == 0
}
