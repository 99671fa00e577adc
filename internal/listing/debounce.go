package listing

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet window applied to search input.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer collapses bursts of values into a single emission. Each Set
// restarts the quiet-window timer; only the last value of a window is
// delivered. After Stop nothing is ever emitted.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	emit    func(string)
	timer   *time.Timer
	stopped bool
}

func NewDebouncer(delay time.Duration, emit func(string)) *Debouncer {
	return &Debouncer{delay: delay, emit: emit}
}

// Set schedules value for emission once it has been stable for the delay.
func (d *Debouncer) Set(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	// Emitting under the mutex means Stop cannot return while an emission
	// is in flight; emit must not call back into Set or Stop.
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		if d.stopped {
			return
		}
		d.emit(value)
	})
}

// Stop tears the debouncer down. A pending value is discarded.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
