package cache

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestCoalescerCollapsesBursts(t *testing.T) {
	var flushes atomic.Int32
	coalescer := NewCoalescer(20*time.Millisecond, func() {
		flushes.Add(1)
	})
	defer coalescer.Close()

	for i := 0; i < 10; i++ {
		coalescer.Trigger()
	}

	deadline := time.Now().Add(time.Second)
	for flushes.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := flushes.Load(); got != 1 {
		t.Fatalf("expected one coalesced flush, got %d", got)
	}
}

func TestCoalescerCloseFlushesPendingWork(t *testing.T) {
	var flushes atomic.Int32
	coalescer := NewCoalescer(time.Hour, func() {
		flushes.Add(1)
	})

	coalescer.Trigger()
	coalescer.Close()

	if got := flushes.Load(); got != 1 {
		t.Fatalf("expected Close to run the pending flush, got %d", got)
	}
}

func TestCoalescerCloseIsIdempotent(t *testing.T) {
	var flushes atomic.Int32
	coalescer := NewCoalescer(time.Hour, func() {
		flushes.Add(1)
	})

	coalescer.Trigger()
	coalescer.Close()
	coalescer.Close()
	coalescer.Trigger()

	if got := flushes.Load(); got != 1 {
		t.Fatalf("expected exactly one flush across repeated Close and late Trigger, got %d", got)
	}
}

func TestCoalescerFlushWithoutPendingIsNoop(t *testing.T) {
	var flushes atomic.Int32
	coalescer := NewCoalescer(time.Hour, func() {
		flushes.Add(1)
	})
	defer coalescer.Close()

	coalescer.Flush()
	if got := flushes.Load(); got != 0 {
		t.Fatalf("expected no flush without pending work, got %d", got)
	}
}
