// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package animation

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/wneessen/birdseye/internal/geo"
)

const (
	// DefaultHeadingChangeRate is the camera rotation time per degree of heading change.
	DefaultHeadingChangeRate = time.Millisecond * 5
	// DefaultPositionRate is the marker travel time per meter of segment distance.
	DefaultPositionRate = time.Millisecond * 10
)

// ErrInvalidOptions is returned when the timeline options contain negative rates or durations.
var ErrInvalidOptions = errors.New("invalid animation options")

// HeadingPolicy decides how the difference between two headings is measured.
type HeadingPolicy int

const (
	// HeadingNumeric uses the plain numeric difference of both heading values. A change from
	// 350° to 10° is measured as 340° and the camera turns the long way round. This is the
	// default.
	HeadingNumeric HeadingPolicy = iota
	// HeadingShortest uses the shortest angular difference across the 0/360 wrap. A change
	// from 350° to 10° is measured as 20° and the camera turns through north.
	HeadingShortest
)

// ParseHeadingPolicy returns the HeadingPolicy for the given name. Allowed values: numeric, shortest
func ParseHeadingPolicy(name string) (HeadingPolicy, error) {
	switch strings.ToLower(name) {
	case "", "numeric":
		return HeadingNumeric, nil
	case "shortest":
		return HeadingShortest, nil
	default:
		return HeadingNumeric, fmt.Errorf("unsupported heading policy: %s", name)
	}
}

// String satisfies the fmt.Stringer interface for the HeadingPolicy type.
func (p HeadingPolicy) String() string {
	if p == HeadingShortest {
		return "shortest"
	}
	return "numeric"
}

// Delta returns the signed heading change from h1 to h2 under the policy. Its absolute value
// is the number of degrees the camera turns.
func (p HeadingPolicy) Delta(h1, h2 float64) float64 {
	if p == HeadingShortest {
		return math.Mod(math.Mod(h2-h1, 360)+540, 360) - 180
	}
	return h2 - h1
}

// Options control how a route is turned into a timeline.
type Options struct {
	// HeadingChangeRate is the rotation duration per (rounded) degree of heading change.
	HeadingChangeRate time.Duration
	// PositionRate is the traversal duration per (rounded) meter of segment distance.
	PositionRate time.Duration
	// TraversalDuration, if set, replaces the distance based traversal duration of every segment.
	TraversalDuration time.Duration
	// UniformDuration, if set, replaces the duration of every rotation and traversal.
	UniformDuration time.Duration
	// Repeat is the number of times the whole route is replayed after the first pass.
	Repeat int

	HeadingPolicy HeadingPolicy
	Model         geo.Model
	// Interpolator moves the marker between waypoints. Defaults to geo.Planar.
	Interpolator geo.Interpolator
}

// DefaultOptions returns the default animation rates with no overrides.
func DefaultOptions() Options {
	return Options{
		HeadingChangeRate: DefaultHeadingChangeRate,
		PositionRate:      DefaultPositionRate,
		HeadingPolicy:     HeadingNumeric,
		Model:             geo.Spherical,
		Interpolator:      geo.Planar{},
	}
}

// Validate checks the options for negative values.
func (o Options) Validate() error {
	switch {
	case o.HeadingChangeRate < 0:
		return fmt.Errorf("%w: negative heading change rate %s", ErrInvalidOptions, o.HeadingChangeRate)
	case o.PositionRate < 0:
		return fmt.Errorf("%w: negative position rate %s", ErrInvalidOptions, o.PositionRate)
	case o.TraversalDuration < 0:
		return fmt.Errorf("%w: negative traversal duration %s", ErrInvalidOptions, o.TraversalDuration)
	case o.UniformDuration < 0:
		return fmt.Errorf("%w: negative uniform duration %s", ErrInvalidOptions, o.UniformDuration)
	case o.Repeat < 0:
		return fmt.Errorf("%w: negative repeat count %d", ErrInvalidOptions, o.Repeat)
	}
	return nil
}

func (o Options) interpolator() geo.Interpolator {
	if o.Interpolator == nil {
		return geo.Planar{}
	}
	return o.Interpolator
}
