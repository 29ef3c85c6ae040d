// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package animation

import (
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/birdseye/internal/geo"
	"github.com/wneessen/birdseye/internal/route"
)

// ErrNotIdle is returned when Start is called on a timeline that already played.
var ErrNotIdle = errors.New("timeline is not idle")

// State represents the lifecycle state of a Timeline.
type State int

const (
	Idle State = iota
	Playing
	Completed
	Cancelled
)

// String satisfies the fmt.Stringer interface for the State type.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Handlers are the callbacks a Timeline invokes while playing. All handlers are optional
// and are called on the goroutine that drives the timeline.
type Handlers struct {
	OnStart  func()
	OnEnd    func()
	OnCancel func()
	// OnRepeat receives the number of the pass that is about to start, beginning with 1.
	OnRepeat  func(iteration int)
	OnSegment func(seg Segment)
	// OnBearing and OnPosition receive the interpolated camera bearing and marker position
	// on every tick.
	OnBearing  func(bearing float64)
	OnPosition func(pos geo.Coordinate)
}

// Timeline is the played sequence of segments for one route traversal. A Timeline is single
// use: once completed or cancelled it cannot be started again. It is not safe for concurrent
// use and is meant to be driven from a single goroutine.
type Timeline struct {
	segments []Segment
	policy   HeadingPolicy
	interp   geo.Interpolator
	repeat   int
	handlers Handlers

	state     State
	current   int
	iteration int
	segStart  time.Time
}

// BuildTimeline plans the segments of the route and returns an idle Timeline for them.
func BuildTimeline(r route.Route, opts Options, currentBearing float64, handlers Handlers) (*Timeline, error) {
	segments, err := Plan(r, opts, currentBearing)
	if err != nil {
		return nil, err
	}
	return &Timeline{
		segments: segments,
		policy:   opts.HeadingPolicy,
		interp:   opts.interpolator(),
		repeat:   opts.Repeat,
		handlers: handlers,
		state:    Idle,
	}, nil
}

// Segments returns a copy of the planned segments.
func (t *Timeline) Segments() []Segment {
	segments := make([]Segment, len(t.segments))
	copy(segments, t.segments)
	return segments
}

// State returns the current lifecycle state.
func (t *Timeline) State() State {
	return t.state
}

// Current returns the index of the segment that is currently played.
func (t *Timeline) Current() int {
	return t.current
}

// Total returns the planned duration of the timeline including all repeats.
func (t *Timeline) Total() time.Duration {
	var total time.Duration
	for _, seg := range t.segments {
		total += seg.Duration()
	}
	return total * time.Duration(t.repeat+1)
}

// Start begins playback at the given time. The first segment and its initial values are
// emitted right away.
func (t *Timeline) Start(now time.Time) error {
	if t.state != Idle {
		return fmt.Errorf("%w: %s", ErrNotIdle, t.state)
	}
	t.state = Playing
	t.current = 0
	t.segStart = now

	if t.handlers.OnStart != nil {
		t.handlers.OnStart()
	}
	if !t.playing() {
		return nil
	}
	t.enterSegment()
	if !t.playing() {
		return nil
	}
	t.emit(t.segments[0], 0)
	return nil
}

// Tick advances the timeline to the given time and emits the current bearing and position.
// If the time lies beyond the end of the current segment, the final values of every crossed
// segment are emitted in order and the overflow is carried into the next segment. Tick
// returns true once the timeline is no longer playing.
func (t *Timeline) Tick(now time.Time) bool {
	for t.playing() {
		seg := t.segments[t.current]
		elapsed := max(now.Sub(t.segStart), 0)
		if elapsed < seg.Duration() {
			t.emit(seg, elapsed)
			return !t.playing()
		}

		t.emit(seg, seg.Duration())
		if !t.playing() {
			break
		}
		t.segStart = t.segStart.Add(seg.Duration())
		t.advance()
	}
	return true
}

// Cancel stops a playing timeline. OnCancel fires once and OnEnd never fires afterwards.
// Cancel on a timeline that is not playing is a no-op.
func (t *Timeline) Cancel() {
	if t.state != Playing {
		return
	}
	t.state = Cancelled
	if t.handlers.OnCancel != nil {
		t.handlers.OnCancel()
	}
}

// advance moves to the next segment, the next pass or completes the timeline.
func (t *Timeline) advance() {
	switch {
	case t.current+1 < len(t.segments):
		t.current++
	case t.iteration < t.repeat:
		t.iteration++
		t.current = 0
		if t.handlers.OnRepeat != nil {
			t.handlers.OnRepeat(t.iteration)
		}
		if !t.playing() {
			return
		}
	default:
		t.state = Completed
		if t.handlers.OnEnd != nil {
			t.handlers.OnEnd()
		}
		return
	}
	t.enterSegment()
}

func (t *Timeline) enterSegment() {
	if t.handlers.OnSegment != nil {
		t.handlers.OnSegment(t.segments[t.current])
	}
}

// emit reports bearing and position of the segment at the given elapsed time. Rotation and
// traversal progress independently, each reaching fraction 1 at the end of its own duration.
func (t *Timeline) emit(seg Segment, elapsed time.Duration) {
	if t.handlers.OnBearing != nil {
		t.handlers.OnBearing(seg.BearingAt(fraction(elapsed, seg.RotationDuration), t.policy))
	}
	if !t.playing() {
		return
	}
	if t.handlers.OnPosition != nil {
		t.handlers.OnPosition(seg.PositionAt(fraction(elapsed, seg.TraversalDuration), t.interp))
	}
}

func (t *Timeline) playing() bool {
	return t.state == Playing
}

func fraction(elapsed, total time.Duration) float64 {
	if total <= 0 || elapsed >= total {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return float64(elapsed) / float64(total)
}
