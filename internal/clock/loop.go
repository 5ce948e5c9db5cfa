// internal/clock/loop.go
//
// Loop is a real-time Scheduler backed by one goroutine and a mailbox.
// Timer callbacks, Post and Do all execute on that goroutine, one at a time,
// in arrival order. It plays the role of a host event queue: callers outside
// the loop never touch loop-owned state directly.
//
// Do must not be called from a callback already running on the loop.

package clock

import (
	"sync"
	"sync/atomic"
	"time"
)

const defaultMailbox = 256

type Loop struct {
	mailbox chan func()
	quit    chan struct{}
	done    chan struct{}
	once    sync.Once

	mu     sync.Mutex
	timers map[*loopTimer]struct{}
}

// NewLoop starts a loop goroutine. buffer <= 0 selects a default mailbox size.
func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = defaultMailbox
	}
	l := &Loop{
		mailbox: make(chan func(), buffer),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		timers:  make(map[*loopTimer]struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case <-l.quit:
			return
		case fn := <-l.mailbox:
			fn()
		}
	}
}

// Post enqueues fn without waiting. Returns false once the loop is closed.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.quit:
		return false
	default:
	}
	select {
	case <-l.quit:
		return false
	case l.mailbox <- fn:
		return true
	}
}

// Do runs fn on the loop and waits for it to finish.
// Returns false if the loop closed before fn ran.
func (l *Loop) Do(fn func()) bool {
	ran := make(chan struct{})
	if !l.Post(func() {
		defer close(ran)
		fn()
	}) {
		return false
	}
	select {
	case <-ran:
		return true
	case <-l.done:
		return false
	}
}

// Close stops the loop and every timer it handed out, then waits for the
// loop goroutine to exit.
func (l *Loop) Close() {
	l.once.Do(func() {
		close(l.quit)
		l.mu.Lock()
		timers := make([]*loopTimer, 0, len(l.timers))
		for t := range l.timers {
			timers = append(timers, t)
		}
		l.mu.Unlock()
		for _, t := range timers {
			t.Stop()
		}
	})
	<-l.done
}

// Done is closed once the loop goroutine has exited.
func (l *Loop) Done() <-chan struct{} { return l.done }

func (l *Loop) Now() time.Time { return time.Now() }

func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{loop: l}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			// stopped also marks a one-shot as fired
			if t.stopped.Swap(true) {
				return
			}
			l.forget(t)
			fn()
		})
	})
	l.track(t)
	return t
}

func (l *Loop) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		panic("clock: non-positive interval for Every")
	}
	t := &loopTimer{loop: l, quit: make(chan struct{})}
	l.track(t)
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.quit:
				return
			case <-l.quit:
				return
			case <-ticker.C:
				l.Post(func() {
					if t.stopped.Load() {
						return
					}
					fn()
				})
			}
		}
	}()
	return t
}

func (l *Loop) track(t *loopTimer) {
	l.mu.Lock()
	l.timers[t] = struct{}{}
	l.mu.Unlock()
}

func (l *Loop) forget(t *loopTimer) {
	l.mu.Lock()
	delete(l.timers, t)
	l.mu.Unlock()
}

type loopTimer struct {
	loop    *Loop
	stopped atomic.Bool
	timer   *time.Timer
	quit    chan struct{}
}

func (t *loopTimer) Stop() bool {
	if t.stopped.Swap(true) {
		return false
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	if t.quit != nil {
		close(t.quit)
	}
	t.loop.forget(t)
	return true
}
