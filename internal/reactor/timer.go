package reactor

import (
	"sync"
	"time"
)

// Timer is a single-shot timer whose handler runs as a reactor job.
// SetAbsolute replaces any pending deadline; Stop also invalidates a fire
// that was already posted but has not yet run.
type Timer struct {
	r   *Reactor
	mu  sync.Mutex
	gen uint64
	t   *time.Timer
}

// NewTimer creates an unarmed timer bound to the reactor.
func (r *Reactor) NewTimer() *Timer {
	return &Timer{r: r}
}

// SetAbsolute arms the timer to run fn at deadline. A deadline in the past
// fires immediately (as the next posted job).
func (tm *Timer) SetAbsolute(deadline time.Time, fn func()) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.stopLocked()
	tm.gen++
	gen := tm.gen
	d := time.Until(deadline)
	if d < 0 {
		d = 0
	}
	tm.t = time.AfterFunc(d, func() {
		tm.r.Post(func() {
			tm.mu.Lock()
			live := tm.gen == gen
			tm.mu.Unlock()
			if live {
				fn()
			}
		})
	})
}

// Stop disarms the timer. Safe when not armed.
func (tm *Timer) Stop() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.stopLocked()
	tm.gen++
}

func (tm *Timer) stopLocked() {
	if tm.t != nil {
		tm.t.Stop()
		tm.t = nil
	}
}
