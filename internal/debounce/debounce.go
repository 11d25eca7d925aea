// Package debounce collapses bursts of calls into a single invocation that
// runs once the input has been quiet for a fixed interval.
package debounce

import (
	"sync"
	"time"
)

// Timer is the subset of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc arms f to run after d. It matches time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

type settings struct {
	after AfterFunc
}

// Option configures a Debouncer.
type Option func(*settings)

// WithAfterFunc replaces the timer source, typically with a ManualClock.
func WithAfterFunc(after AfterFunc) Option {
	return func(s *settings) {
		s.after = after
	}
}

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer delays fn until Call has not been invoked for delay.
// Only the argument of the last call in a burst is delivered.
type Debouncer[T any] struct {
	mu      sync.Mutex
	fn      func(T)
	delay   time.Duration
	after   AfterFunc
	timer   Timer
	seq     uint64
	stopped bool
}

// New wraps fn. The returned debouncer is safe for concurrent use; fn runs
// on whatever goroutine the timer source fires on.
func New[T any](fn func(T), delay time.Duration, opts ...Option) *Debouncer[T] {
	s := settings{after: realAfterFunc}
	for _, opt := range opts {
		opt(&s)
	}
	return &Debouncer[T]{
		fn:    fn,
		delay: delay,
		after: s.after,
	}
}

// Call cancels any pending invocation and schedules fn(arg).
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = d.after(d.delay, func() { d.fire(seq, arg) })
}

// a timer whose Stop lost the race still calls fire; the sequence check drops it
func (d *Debouncer[T]) fire(seq uint64, arg T) {
	d.mu.Lock()
	if d.stopped || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn(arg)
}

// Cancel drops the pending invocation, if any.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

func (d *Debouncer[T]) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}

// Stop cancels the pending invocation and disables the debouncer. No timer
// armed before Stop delivers afterwards, but an fn that had already
// started is not waited for, so fn may be running when Stop returns.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

// Pending reports whether an invocation is armed.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Delay returns the quiet interval.
func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}
