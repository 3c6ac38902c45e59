// Package debounce provides a keyed cancel-and-replace debouncer.
// Triggering a key cancels that key's pending call only; other keys keep
// their own timers. Used to coalesce per-column width writes.
package debounce

import (
	"sync"
	"time"
)

// Debouncer schedules one pending function per key.
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
}

// New creates a Debouncer with the given delay.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

// Trigger schedules fn to run after the delay, cancelling any pending call
// for the same key.
func (d *Debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()
		fn()
	})
}

// Flush cancels the pending timer for key, if any, and reports whether one
// was pending. The function is not run; callers that need the effect apply
// it themselves.
func (d *Debouncer) Flush(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.timers[key]
	if ok {
		t.Stop()
		delete(d.timers, key)
	}
	return ok
}

// Stop cancels every pending timer.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for k, t := range d.timers {
		t.Stop()
		delete(d.timers, k)
	}
}
