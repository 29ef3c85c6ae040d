// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geo

import (
	"fmt"
	"strings"

	"github.com/golang/geo/s2"
)

// Interpolator computes intermediate coordinates between two points. Implementations must
// return exactly from at fraction 0 and exactly to at fraction 1.
type Interpolator interface {
	Interpolate(from, to Coordinate, fraction float64) Coordinate
}

// Planar interpolates latitude and longitude independently and linearly. This is not a
// great-circle path, but it is what a marker moving in a straight line on a Mercator map
// looks like over short distances.
type Planar struct{}

// GreatCircle interpolates along the great circle between both points.
type GreatCircle struct{}

// ParseInterpolator returns the Interpolator for the given name. Allowed values: planar, greatcircle
func ParseInterpolator(name string) (Interpolator, error) {
	switch strings.ToLower(name) {
	case "", "planar":
		return Planar{}, nil
	case "greatcircle":
		return GreatCircle{}, nil
	default:
		return nil, fmt.Errorf("unsupported interpolation: %s", name)
	}
}

// Interpolate returns the coordinate at fraction f of the way from "from" to "to".
func (Planar) Interpolate(from, to Coordinate, f float64) Coordinate {
	switch {
	case f <= 0:
		return from
	case f >= 1:
		return to
	}
	return Coordinate{
		Lat: from.Lat + f*(to.Lat-from.Lat),
		Lon: from.Lon + f*(to.Lon-from.Lon),
	}
}

// Interpolate returns the coordinate at fraction f of the great-circle arc from "from" to "to".
func (GreatCircle) Interpolate(from, to Coordinate, f float64) Coordinate {
	switch {
	case f <= 0:
		return from
	case f >= 1:
		return to
	}
	a := s2.PointFromLatLng(s2.LatLngFromDegrees(from.Lat, from.Lon))
	b := s2.PointFromLatLng(s2.LatLngFromDegrees(to.Lat, to.Lon))
	ll := s2.LatLngFromPoint(s2.Interpolate(f, a, b))
	return Coordinate{Lat: ll.Lat.Degrees(), Lon: ll.Lng.Degrees()}
}
