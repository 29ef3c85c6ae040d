// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package route

import (
	"errors"
	"fmt"

	"github.com/wneessen/birdseye/internal/geo"
)

// MinWaypoints is the smallest number of waypoints a route can consist of.
const MinWaypoints = 2

var (
	// ErrInvalidRoute is returned when a route has fewer than MinWaypoints waypoints.
	ErrInvalidRoute = errors.New("route requires at least two waypoints")

	// ErrInvalidWaypoint is returned when a waypoint is outside the valid coordinate range.
	ErrInvalidWaypoint = errors.New("waypoint out of range")
)

// Route is an immutable, ordered sequence of waypoints. The order defines the direction
// of travel. The zero value is an empty, invalid route.
type Route struct {
	points []geo.Coordinate
}

// New returns a Route for the given waypoints. The waypoints are copied, so later changes
// to the passed slice do not affect the route.
func New(points ...geo.Coordinate) (Route, error) {
	if len(points) < MinWaypoints {
		return Route{}, fmt.Errorf("%w: got %d", ErrInvalidRoute, len(points))
	}
	for i, p := range points {
		if !p.Valid() {
			return Route{}, fmt.Errorf("%w: waypoint %d (%s)", ErrInvalidWaypoint, i, p)
		}
	}

	cp := make([]geo.Coordinate, len(points))
	copy(cp, points)
	return Route{points: cp}, nil
}

// MustNew works like New but panics on error. Meant for package level route definitions.
func MustNew(points ...geo.Coordinate) Route {
	r, err := New(points...)
	if err != nil {
		panic(err)
	}
	return r
}

// Len returns the number of waypoints.
func (r Route) Len() int {
	return len(r.points)
}

// Segments returns the number of segments, which is one less than the number of waypoints.
func (r Route) Segments() int {
	if len(r.points) < 1 {
		return 0
	}
	return len(r.points) - 1
}

// At returns the waypoint at index i. It panics if i is out of range.
func (r Route) At(i int) geo.Coordinate {
	return r.points[i]
}

// Start returns the first waypoint.
func (r Route) Start() geo.Coordinate {
	return r.points[0]
}

// End returns the last waypoint.
func (r Route) End() geo.Coordinate {
	return r.points[len(r.points)-1]
}

// Points returns a copy of the waypoints.
func (r Route) Points() []geo.Coordinate {
	cp := make([]geo.Coordinate, len(r.points))
	copy(cp, r.points)
	return cp
}

// Valid reports whether the route satisfies the minimum waypoint requirement.
func (r Route) Valid() bool {
	return len(r.points) >= MinWaypoints
}

// Length returns the sum of all segment distances in meters using the given earth model.
func (r Route) Length(model geo.Model) float64 {
	var total float64
	for i := 0; i < r.Segments(); i++ {
		total += model.Distance(r.points[i], r.points[i+1])
	}
	return total
}
