// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package animation

import (
	"fmt"
	"math"
	"time"

	"github.com/wneessen/birdseye/internal/geo"
	"github.com/wneessen/birdseye/internal/route"
)

// Segment is the transition from one waypoint to the next. The camera rotates from
// HeadingIn to HeadingOut while the marker travels From -> To; both run at the same time.
type Segment struct {
	Index int

	From geo.Coordinate
	To   geo.Coordinate

	HeadingIn  float64
	HeadingOut float64
	// HeadingDelta is the signed rotation in degrees under the heading policy.
	HeadingDelta float64
	// Distance is the segment length in meters.
	Distance float64

	RotationDuration  time.Duration
	TraversalDuration time.Duration
}

// Duration returns the time the segment occupies on the timeline, which is the longer of
// its rotation and its traversal.
func (s Segment) Duration() time.Duration {
	return max(s.RotationDuration, s.TraversalDuration)
}

// BearingAt returns the interpolated camera bearing at fraction f of the rotation.
func (s Segment) BearingAt(f float64, policy HeadingPolicy) float64 {
	switch {
	case f <= 0:
		return s.HeadingIn
	case f >= 1:
		return s.HeadingOut
	}
	bearing := s.HeadingIn + f*s.HeadingDelta
	if policy == HeadingShortest {
		return geo.NormalizeBearing(bearing)
	}
	return bearing
}

// PositionAt returns the interpolated marker position at fraction f of the traversal.
func (s Segment) PositionAt(f float64, ip geo.Interpolator) geo.Coordinate {
	return ip.Interpolate(s.From, s.To, f)
}

// Plan computes the segments for a route without creating a timeline. currentBearing is the
// camera bearing at the moment of scheduling and serves as incoming heading of the first
// segment. Every later segment enters with the bearing of the preceding segment. A segment
// between coincident waypoints has no bearing of its own and keeps the incoming heading, so a
// duplicated waypoint never turns the camera.
func Plan(r route.Route, opts Options, currentBearing float64) ([]Segment, error) {
	if r.Len() < route.MinWaypoints {
		return nil, fmt.Errorf("%w: got %d", route.ErrInvalidRoute, r.Len())
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	segments := make([]Segment, 0, r.Segments())
	h1 := currentBearing
	for i := 0; i < r.Segments(); i++ {
		from, to := r.At(i), r.At(i+1)

		h2, ok := opts.Model.BearingOK(from, to)
		if !ok {
			h2 = h1
		}
		delta := opts.HeadingPolicy.Delta(h1, h2)
		dist := opts.Model.Distance(from, to)

		seg := Segment{
			Index:             i,
			From:              from,
			To:                to,
			HeadingIn:         h1,
			HeadingOut:        h2,
			HeadingDelta:      delta,
			Distance:          dist,
			RotationDuration:  time.Duration(math.Round(math.Abs(delta))) * opts.HeadingChangeRate,
			TraversalDuration: time.Duration(math.Round(dist)) * opts.PositionRate,
		}
		if opts.TraversalDuration > 0 {
			seg.TraversalDuration = opts.TraversalDuration
		}
		if opts.UniformDuration > 0 {
			seg.RotationDuration = opts.UniformDuration
			seg.TraversalDuration = opts.UniformDuration
		}
		segments = append(segments, seg)
		h1 = h2
	}

	return segments, nil
}
