package clock

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestLoopDoRunsOnLoop(t *testing.T) {
	l := NewLoop(0)
	defer l.Close()

	counter := 0
	for i := 0; i < 100; i++ {
		if !l.Do(func() { counter++ }) {
			t.Fatalf("Do returned false on open loop")
		}
	}
	if counter != 100 {
		t.Fatalf("counter = %d, want 100", counter)
	}
}

func TestLoopAfterFuncDeliversOnce(t *testing.T) {
	l := NewLoop(0)
	defer l.Close()

	fired := make(chan struct{}, 2)
	l.Do(func() {
		l.AfterFunc(5*time.Millisecond, func() { fired <- struct{}{} })
	})
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for AfterFunc")
	}
	select {
	case <-fired:
		t.Fatalf("AfterFunc fired twice")
	case <-time.After(30 * time.Millisecond):
	}
}

func TestLoopStoppedTimerIsDropped(t *testing.T) {
	l := NewLoop(0)
	defer l.Close()

	var n atomic.Int32
	var tm Timer
	l.Do(func() {
		tm = l.Every(2*time.Millisecond, func() { n.Add(1) })
	})
	time.Sleep(20 * time.Millisecond)
	l.Do(func() { tm.Stop() })
	after := n.Load()
	time.Sleep(20 * time.Millisecond)
	if got := n.Load(); got != after {
		t.Fatalf("ticks after stop: %d -> %d", after, got)
	}
	if after == 0 {
		t.Fatalf("ticker never fired")
	}
}

func TestLoopCloseRejectsWork(t *testing.T) {
	l := NewLoop(0)
	l.Close()
	if l.Post(func() {}) {
		t.Fatalf("Post succeeded on closed loop")
	}
	if l.Do(func() {}) {
		t.Fatalf("Do succeeded on closed loop")
	}
	select {
	case <-l.Done():
	default:
		t.Fatalf("Done not closed after Close")
	}
}
