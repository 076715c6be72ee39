package cache

import (
	"sync"
	"time"
)

// Coalescer collapses bursts of save requests into one flush. Each Trigger
// replaces the pending slot rather than queueing, and the flush runs once
// the idle interval passes without another Trigger. Close flushes any
// pending work before returning, so the last request is never lost.
type Coalescer struct {
	mu      sync.Mutex
	idle    time.Duration
	flush   func()
	timer   *time.Timer
	pending bool
	closed  bool
}

func NewCoalescer(idle time.Duration, flush func()) *Coalescer {
	if idle <= 0 {
		idle = 500 * time.Millisecond
	}
	return &Coalescer{idle: idle, flush: flush}
}

// Trigger records a save request and restarts the idle timer.
func (coalescer *Coalescer) Trigger() {
	coalescer.mu.Lock()
	defer coalescer.mu.Unlock()

	if coalescer.closed {
		return
	}
	coalescer.pending = true
	if coalescer.timer != nil {
		coalescer.timer.Stop()
	}
	coalescer.timer = time.AfterFunc(coalescer.idle, coalescer.flushPending)
}

// Flush runs any pending work immediately.
func (coalescer *Coalescer) Flush() {
	coalescer.flushPending()
}

// Close stops the timer and performs a final flush of pending work. Further
// triggers are ignored.
func (coalescer *Coalescer) Close() {
	coalescer.mu.Lock()
	if coalescer.closed {
		coalescer.mu.Unlock()
		return
	}
	coalescer.closed = true
	if coalescer.timer != nil {
		coalescer.timer.Stop()
	}
	coalescer.mu.Unlock()

	coalescer.flushPending()
}

func (coalescer *Coalescer) flushPending() {
	coalescer.mu.Lock()
	if !coalescer.pending {
		coalescer.mu.Unlock()
		return
	}
	coalescer.pending = false
	coalescer.mu.Unlock()

	coalescer.flush()
}
