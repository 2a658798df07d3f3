// Package locator turns a rapidly-changing location text field into two
// independently debounced derived values: a suggestion list and a
// geocoded center point.
package locator

import (
	"sync"
	"time"
)

// Debouncer delays propagation of a changing value until it has been
// stable for the configured interval. A superseded pending value is
// cancelled, never queued, so emit only ever sees the latest value.
// timer.Stop alone cannot guarantee that (a callback already running
// when Set fires again would emit the old value), so each arming bumps
// a generation and the callback re-checks it before emitting.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	gen   uint64
	emit  func(string)
}

func NewDebouncer(delay time.Duration, emit func(string)) *Debouncer {
	return &Debouncer{delay: delay, emit: emit}
}

// Set re-arms the timer with v, cancelling any pending emission.
func (d *Debouncer) Set(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		stale := gen != d.gen
		d.mu.Unlock()
		if stale {
			return
		}
		d.emit(v)
	})
}

// Stop cancels any pending emission.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
