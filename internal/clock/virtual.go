// internal/clock/virtual.go
//
// Virtual is a deterministic Scheduler whose time only moves when Advance is
// called. Due callbacks fire in timestamp order; callbacks due at the same
// instant fire in the order their timers were created.

package clock

import (
	"container/heap"
	"time"
)

// Virtual is not safe for concurrent use; drive it from one goroutine.
type Virtual struct {
	now   time.Time
	seq   uint64
	queue timerHeap
}

type virtualTimer struct {
	v      *Virtual
	at     time.Time
	seq    uint64
	period time.Duration
	fn     func()
	done   bool
	index  int
}

// NewVirtual returns a virtual clock reading start.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

func (v *Virtual) Now() time.Time { return v.now }

func (v *Virtual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	return v.schedule(d, 0, fn)
}

func (v *Virtual) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		panic("clock: non-positive interval for Every")
	}
	return v.schedule(d, d, fn)
}

// Pending reports how many timers are still scheduled.
func (v *Virtual) Pending() int { return v.queue.Len() }

// Advance moves time forward by d, firing every callback that falls due on
// the way, including ones scheduled by callbacks during the advance.
func (v *Virtual) Advance(d time.Duration) {
	target := v.now.Add(d)
	for v.queue.Len() > 0 {
		t := v.queue[0]
		if t.at.After(target) {
			break
		}
		heap.Pop(&v.queue)
		v.now = t.at
		if t.period > 0 {
			// periodic timers keep their original sequence so simultaneous
			// ticks always fire in the order the timers were created
			t.at = t.at.Add(t.period)
			heap.Push(&v.queue, t)
		} else {
			t.done = true
		}
		t.fn()
	}
	v.now = target
}

func (v *Virtual) schedule(d, period time.Duration, fn func()) *virtualTimer {
	t := &virtualTimer{v: v, at: v.now.Add(d), seq: v.nextSeq(), period: period, fn: fn, index: -1}
	heap.Push(&v.queue, t)
	return t
}

func (v *Virtual) nextSeq() uint64 {
	v.seq++
	return v.seq
}

func (t *virtualTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	if t.index >= 0 {
		heap.Remove(&t.v.queue, t.index)
	}
	return true
}

// timerHeap orders timers by deadline, then by scheduling sequence.
type timerHeap []*virtualTimer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*virtualTimer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
