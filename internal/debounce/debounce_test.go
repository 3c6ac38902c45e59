package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTrigger_CancelAndReplace(t *testing.T) {
	d := New(30 * time.Millisecond)
	defer d.Stop()

	var fired atomic.Int32
	for i := 0; i < 5; i++ {
		d.Trigger("col1", func() { fired.Add(1) })
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(80 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("fired %d times, want 1", got)
	}
}

func TestTrigger_KeysAreIndependent(t *testing.T) {
	d := New(20 * time.Millisecond)
	defer d.Stop()

	var a, b atomic.Int32
	d.Trigger("a", func() { a.Add(1) })
	d.Trigger("b", func() { b.Add(1) })
	// Re-triggering "a" must not delay "b".
	d.Trigger("a", func() { a.Add(1) })

	time.Sleep(80 * time.Millisecond)
	if a.Load() != 1 || b.Load() != 1 {
		t.Errorf("a=%d b=%d, want 1 and 1", a.Load(), b.Load())
	}
}

func TestFlush(t *testing.T) {
	d := New(50 * time.Millisecond)
	defer d.Stop()

	var fired atomic.Int32
	d.Trigger("a", func() { fired.Add(1) })

	if !d.Flush("a") {
		t.Error("Flush should report a pending timer")
	}
	if d.Flush("a") {
		t.Error("second Flush should report nothing pending")
	}

	time.Sleep(80 * time.Millisecond)
	if fired.Load() != 0 {
		t.Error("flushed timer still fired")
	}
}

func TestStop(t *testing.T) {
	d := New(50 * time.Millisecond)

	var fired atomic.Int32
	d.Trigger("a", func() { fired.Add(1) })
	d.Trigger("b", func() { fired.Add(1) })
	d.Stop()

	time.Sleep(80 * time.Millisecond)
	if fired.Load() != 0 {
		t.Errorf("stopped timers fired %d times", fired.Load())
	}
}
