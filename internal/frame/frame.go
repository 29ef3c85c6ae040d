// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package frame

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultInterval is the frame interval of a 60Hz display.
const DefaultInterval = time.Second / 60

// ErrBusy is returned when a Driver is asked to run a playable while another one is running.
var ErrBusy = errors.New("frame driver is busy")

// Playable is anything that can be advanced frame by frame.
type Playable interface {
	// Start begins playback at the given time.
	Start(now time.Time) error
	// Tick advances playback to the given time and reports whether playback has finished.
	Tick(now time.Time) bool
	// Cancel stops playback.
	Cancel()
}

// Driver ticks a single Playable at a fixed frame interval. All calls into the playable
// happen on the goroutine that called Run.
type Driver struct {
	interval time.Duration
	clock    clockwork.Clock
	onTick   func()

	// sem is a 1-slot semaphore that guards "is a playable running?"
	sem chan struct{}
}

// Option configures a Driver.
type Option func(*Driver)

// WithClock sets the clock the driver reads the frame time from.
func WithClock(clock clockwork.Clock) Option {
	return func(d *Driver) {
		d.clock = clock
	}
}

// WithTickHook registers a function that is called after every frame tick.
func WithTickHook(fn func()) Option {
	return func(d *Driver) {
		d.onTick = fn
	}
}

// New creates a new Driver with the given frame interval. A non-positive interval falls
// back to DefaultInterval.
func New(interval time.Duration, opts ...Option) *Driver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	driver := &Driver{
		interval: interval,
		clock:    clockwork.NewRealClock(),
		sem:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(driver)
	}
	return driver
}

// Interval returns the frame interval of the driver.
func (d *Driver) Interval() time.Duration {
	return d.interval
}

// Busy reports whether the driver is currently running a playable.
func (d *Driver) Busy() bool {
	return len(d.sem) > 0
}

// Run starts the playable and ticks it on every frame until it has finished. If the context
// is cancelled first, the playable is cancelled and the context error is returned. Run returns
// ErrBusy if the driver is already running another playable.
func (d *Driver) Run(ctx context.Context, p Playable) error {
	if p == nil {
		return nil
	}

	// Try to acquire the semaphore without blocking.
	select {
	case d.sem <- struct{}{}:
	default:
		return ErrBusy
	}
	defer func() { <-d.sem }()

	if err := p.Start(d.clock.Now()); err != nil {
		return err
	}

	ticker := d.clock.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.Cancel()
			return ctx.Err()
		case now := <-ticker.Chan():
			finished := p.Tick(now)
			if d.onTick != nil {
				d.onTick()
			}
			if finished {
				return nil
			}
		}
	}
}
