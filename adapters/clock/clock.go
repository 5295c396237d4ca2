// Package clock provides the time source events are stamped with.
package clock

import (
	"sync"
	"time"

	"github.com/artpar/modinput/ports"
)

// Real returns the wall clock time.
type Real struct{}

// Now returns the current time.
func (Real) Now() time.Time {
	return time.Now()
}

// Fake is a controllable clock. Each call to Now returns the current value
// and then moves it forward by the configured step, so consecutive events
// get distinct, predictable timestamps.
type Fake struct {
	mu      sync.Mutex
	current time.Time
	step    time.Duration
}

// NewFake creates a fake clock starting at t that does not advance on its own.
func NewFake(t time.Time) *Fake {
	return &Fake{current: t}
}

// WithStep makes every Now call advance the clock by d.
func (f *Fake) WithStep(d time.Duration) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = d
	return f
}

// Now returns the fake time and applies the step.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.current
	f.current = f.current.Add(f.step)
	return t
}

// Set moves the clock to t.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = t
}

var (
	_ ports.Clock = Real{}
	_ ports.Clock = (*Fake)(nil)
)
