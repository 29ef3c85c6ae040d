// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package route

import (
	"github.com/wneessen/birdseye/internal/geo"
)

// Builder assembles waypoints before they are frozen into a Route. A Builder is not safe
// for concurrent use.
type Builder struct {
	points []geo.Coordinate
}

// NewBuilder returns a Builder pre-filled with the given waypoints.
func NewBuilder(points ...geo.Coordinate) *Builder {
	b := &Builder{points: make([]geo.Coordinate, 0, len(points))}
	b.points = append(b.points, points...)
	return b
}

// Append adds waypoints to the end of the builder and returns the builder for chaining.
func (b *Builder) Append(points ...geo.Coordinate) *Builder {
	b.points = append(b.points, points...)
	return b
}

// Len returns the number of waypoints collected so far.
func (b *Builder) Len() int {
	return len(b.points)
}

// Last returns the most recently appended waypoint, if any.
func (b *Builder) Last() (geo.Coordinate, bool) {
	if len(b.points) == 0 {
		return geo.Coordinate{}, false
	}
	return b.points[len(b.points)-1], true
}

// Reset discards all collected waypoints.
func (b *Builder) Reset() {
	b.points = b.points[:0]
}

// Build validates the collected waypoints and returns them as an immutable Route.
func (b *Builder) Build() (Route, error) {
	return New(b.points...)
}
