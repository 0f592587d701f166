package app

import (
	"sync"
	"time"

	"quizshow-scoreboard/internal/domain"
)

// feed fans board snapshots out to subscribers. Changes inside the debounce
// window collapse into one snapshot taken when the window closes.
type feed struct {
	snapshot func() domain.Board
	debounce time.Duration

	mu          sync.Mutex
	pending     *time.Timer
	closed      bool
	subscribers map[chan domain.Board]struct{}
}

func newFeed(debounce time.Duration, snapshot func() domain.Board) *feed {
	return &feed{
		snapshot:    snapshot,
		debounce:    debounce,
		subscribers: make(map[chan domain.Board]struct{}),
	}
}

func (f *feed) subscribe(initial domain.Board) (<-chan domain.Board, func()) {
	ch := make(chan domain.Board, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	ch <- initial

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// notify schedules a render unless one is already pending.
func (f *feed) notify() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || f.pending != nil || len(f.subscribers) == 0 {
		return
	}
	f.pending = time.AfterFunc(f.debounce, f.flush)
}

func (f *feed) flush() {
	f.mu.Lock()
	f.pending = nil
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()

	board := f.snapshot()

	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- board:
		default:
			// Drop the oldest queued board so a slow renderer only sees the latest.
			select {
			case <-ch:
			default:
			}
			ch <- board
		}
	}
}

func (f *feed) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	if f.pending != nil {
		f.pending.Stop()
		f.pending = nil
	}
	for ch := range f.subscribers {
		delete(f.subscribers, ch)
		close(ch)
	}
}
