// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package camera

import (
	"errors"
	"time"

	"github.com/wneessen/birdseye/internal/geo"
)

// ErrTransitionStarted is returned when a Transition is started twice.
var ErrTransitionStarted = errors.New("camera transition already started")

// Transition moves the camera through a sequence of positions, spending a fixed duration on
// each step. It is played frame by frame by a frame driver.
type Transition struct {
	from     Position
	steps    []Position
	step     time.Duration
	onCamera func(Position)
	onDone   func(cancelled bool)

	started   bool
	done      bool
	current   int
	stepStart time.Time
}

// NewTransition returns a Transition from the given position through all steps. onCamera is
// called with the interpolated camera position on every frame.
func NewTransition(from Position, steps []Position, step time.Duration, onCamera func(Position)) *Transition {
	return &Transition{
		from:     from,
		steps:    steps,
		step:     step,
		onCamera: onCamera,
	}
}

// OnDone registers a function that is called once the transition finished or was cancelled.
func (t *Transition) OnDone(fn func(cancelled bool)) *Transition {
	t.onDone = fn
	return t
}

// Start satisfies the frame.Playable interface.
func (t *Transition) Start(now time.Time) error {
	if t.started {
		return ErrTransitionStarted
	}
	t.started = true
	t.stepStart = now
	t.emit(t.from)
	if len(t.steps) == 0 {
		t.finish(false)
	}
	return nil
}

// Tick satisfies the frame.Playable interface.
func (t *Transition) Tick(now time.Time) bool {
	if !t.started {
		return true
	}
	for !t.done {
		prev := t.from
		if t.current > 0 {
			prev = t.steps[t.current-1]
		}
		next := t.steps[t.current]

		elapsed := max(now.Sub(t.stepStart), 0)
		if elapsed < t.step {
			t.emit(interpolate(prev, next, float64(elapsed)/float64(t.step)))
			return false
		}

		t.emit(next)
		t.stepStart = t.stepStart.Add(t.step)
		t.current++
		if t.current >= len(t.steps) {
			t.finish(false)
		}
	}
	return true
}

// Cancel satisfies the frame.Playable interface.
func (t *Transition) Cancel() {
	if !t.started || t.done {
		return
	}
	t.finish(true)
}

func (t *Transition) finish(cancelled bool) {
	t.done = true
	if t.onDone != nil {
		t.onDone(cancelled)
	}
}

func (t *Transition) emit(p Position) {
	if t.onCamera != nil {
		t.onCamera(p)
	}
}

func interpolate(a, b Position, f float64) Position {
	delta := geo.NormalizeBearing(b.Bearing-a.Bearing+180) - 180
	return Position{
		Target:  geo.Planar{}.Interpolate(a.Target, b.Target, f),
		Zoom:    lerp(a.Zoom, b.Zoom, f),
		Tilt:    lerp(a.Tilt, b.Tilt, f),
		Bearing: geo.NormalizeBearing(a.Bearing + delta*f),
	}
}
