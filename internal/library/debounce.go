package library

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a search edit triggers a pass.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer collapses a burst of query edits into one callback carrying the
// latest query. Only the final edit of a burst fires.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fire    func(query string)
	timer   *time.Timer
	gen     uint64
	query   string
	stopped bool
}

// NewDebouncer creates a debouncer that calls fire after delay of quiet.
func NewDebouncer(delay time.Duration, fire func(query string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, fire: fire}
}

// Edit records a new query and restarts the quiet period.
func (d *Debouncer) Edit(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.query = query
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.expire(gen) })
}

func (d *Debouncer) expire(gen uint64) {
	d.mu.Lock()
	// A newer edit or Clear superseded this timer.
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	q := d.query
	d.mu.Unlock()

	d.fire(q)
}

// Clear cancels any pending edit and fires an empty query immediately.
func (d *Debouncer) Clear() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.cancelLocked()
	d.query = ""
	d.mu.Unlock()

	d.fire("")
}

// Pending reports whether an edit is waiting for its quiet period.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Query returns the most recent edit.
func (d *Debouncer) Query() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.query
}

// Stop cancels any pending edit. Later edits are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

func (d *Debouncer) cancelLocked() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
