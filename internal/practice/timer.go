package practice

import (
	"sync"
	"time"
)

// Scheduler drives the per-question countdown. Start cancels any previous
// run before scheduling a new one, so at most one countdown is live. Each run
// is identified by the token passed to its tick callback; ticks carrying a
// stale token must be ignored by the receiver.
type Scheduler interface {
	Start(tick func(token uint64)) uint64
	Stop()
	Active() bool
}

// Timer is a Scheduler backed by time.Ticker.
type Timer struct {
	interval time.Duration

	mu    sync.Mutex
	stop  chan struct{}
	token uint64
}

func NewTimer(interval time.Duration) *Timer {
	if interval <= 0 {
		interval = time.Second
	}
	return &Timer{interval: interval}
}

func (t *Timer) Start(tick func(token uint64)) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.token++
	token := t.token
	stop := make(chan struct{})
	t.stop = stop

	go run(t.interval, stop, func() { tick(token) })
	return token
}

// Stop cancels the live countdown, if any. Calling it repeatedly is a no-op.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Timer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

func (t *Timer) stopLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func run(interval time.Duration, stop <-chan struct{}, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// Stop may race with a tick that is already due.
			select {
			case <-stop:
				return
			default:
			}
			fn()
		}
	}
}
