package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestVirtualFiresInDeadlineOrder(t *testing.T) {
	v := NewVirtual(epoch)
	var got []string
	v.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	v.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	v.AfterFunc(20*time.Millisecond, func() { got = append(got, "b") })

	v.Advance(25 * time.Millisecond)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("after 25ms fired %v, want [a b]", got)
	}
	v.Advance(5 * time.Millisecond)
	if len(got) != 3 || got[2] != "c" {
		t.Fatalf("after 30ms fired %v, want [a b c]", got)
	}
	if v.Pending() != 0 {
		t.Fatalf("pending = %d, want 0", v.Pending())
	}
}

func TestVirtualSameInstantKeepsScheduleOrder(t *testing.T) {
	v := NewVirtual(epoch)
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		v.AfterFunc(time.Second, func() { got = append(got, i) })
	}
	v.Advance(time.Second)
	for i, n := range got {
		if n != i {
			t.Fatalf("fire order %v, want 0..4", got)
		}
	}
}

func TestVirtualEveryAndStop(t *testing.T) {
	v := NewVirtual(epoch)
	n := 0
	tm := v.Every(10*time.Millisecond, func() { n++ })
	v.Advance(55 * time.Millisecond)
	if n != 5 {
		t.Fatalf("ticks after 55ms = %d, want 5", n)
	}
	if !tm.Stop() {
		t.Fatalf("Stop on live ticker returned false")
	}
	if tm.Stop() {
		t.Fatalf("second Stop returned true")
	}
	v.Advance(time.Second)
	if n != 5 {
		t.Fatalf("ticks after stop = %d, want 5", n)
	}
}

func TestVirtualCallbackCanStopItself(t *testing.T) {
	v := NewVirtual(epoch)
	n := 0
	var tm Timer
	tm = v.Every(time.Millisecond, func() {
		n++
		if n == 3 {
			tm.Stop()
		}
	})
	v.Advance(time.Second)
	if n != 3 {
		t.Fatalf("ticks = %d, want 3", n)
	}
}

func TestVirtualNestedScheduleWithinWindow(t *testing.T) {
	v := NewVirtual(epoch)
	var at []time.Duration
	v.AfterFunc(10*time.Millisecond, func() {
		at = append(at, v.Now().Sub(epoch))
		v.AfterFunc(10*time.Millisecond, func() {
			at = append(at, v.Now().Sub(epoch))
		})
	})
	v.Advance(25 * time.Millisecond)
	if len(at) != 2 || at[0] != 10*time.Millisecond || at[1] != 20*time.Millisecond {
		t.Fatalf("fired at %v, want [10ms 20ms]", at)
	}
	if got := v.Now().Sub(epoch); got != 25*time.Millisecond {
		t.Fatalf("now = %v, want 25ms", got)
	}
}

func TestVirtualStoppedOneShotNeverFires(t *testing.T) {
	v := NewVirtual(epoch)
	fired := false
	tm := v.AfterFunc(time.Millisecond, func() { fired = true })
	tm.Stop()
	v.Advance(time.Second)
	if fired {
		t.Fatalf("stopped timer fired")
	}
	if tm.Stop() {
		t.Fatalf("Stop after Stop returned true")
	}
}

func TestVirtualPeriodicKeepsCreationOrder(t *testing.T) {
	v := NewVirtual(epoch)
	var got []string
	v.Every(time.Second, func() { got = append(got, "first") })
	v.Every(500*time.Millisecond, func() { got = append(got, "second") })
	v.Advance(2 * time.Second)
	want := []string{"second", "first", "second", "second", "first", "second"}
	if len(got) != len(want) {
		t.Fatalf("fired %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("fired %v, want %v", got, want)
		}
	}
}
