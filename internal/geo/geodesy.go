// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geo

import (
	"fmt"
	"math"
	"strings"

	"github.com/StefanSchroeder/Golang-Ellipsoid/ellipsoid"
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// Model selects the earth model used for bearing and distance calculations.
type Model int

const (
	// Spherical treats the earth as a sphere (haversine distance, great-circle initial bearing).
	Spherical Model = iota
	// WGS84 uses the WGS84 ellipsoid and solves the inverse geodesic problem.
	WGS84
)

var wgs84 = ellipsoid.Init("WGS84", ellipsoid.Degrees, ellipsoid.Meter,
	ellipsoid.LongitudeIsSymmetric, ellipsoid.BearingNotSymmetric)

// ParseModel returns the Model for the given name. Allowed values: spherical, wgs84
func ParseModel(name string) (Model, error) {
	switch strings.ToLower(name) {
	case "", "spherical":
		return Spherical, nil
	case "wgs84":
		return WGS84, nil
	default:
		return Spherical, fmt.Errorf("unsupported earth model: %s", name)
	}
}

// String satisfies the fmt.Stringer interface for the Model type.
func (m Model) String() string {
	switch m {
	case WGS84:
		return "wgs84"
	default:
		return "spherical"
	}
}

// Bearing returns the initial compass heading in degrees [0,360) for travelling from one
// coordinate to the other along the geodesic of the model.
//
// The bearing between two coincident points is undefined. In this case Bearing returns 0
// (north); use BearingOK to detect it.
func (m Model) Bearing(from, to Coordinate) float64 {
	bearing, _ := m.BearingOK(from, to)
	return bearing
}

// BearingOK works like Bearing but reports false for coincident points, for which no
// meaningful bearing exists.
func (m Model) BearingOK(from, to Coordinate) (float64, bool) {
	if from.Equal(to) {
		return 0, false
	}

	var bearing float64
	switch m {
	case WGS84:
		_, bearing = wgs84.To(from.Lat, from.Lon, to.Lat, to.Lon)
	default:
		bearing = orbgeo.Bearing(point(from), point(to))
	}
	if math.IsNaN(bearing) {
		return 0, false
	}
	return NormalizeBearing(bearing), true
}

// Distance returns the geodesic distance between both coordinates in meters.
func (m Model) Distance(a, b Coordinate) float64 {
	if a.Equal(b) {
		return 0
	}

	switch m {
	case WGS84:
		distance, _ := wgs84.To(a.Lat, a.Lon, b.Lat, b.Lon)
		if math.IsNaN(distance) {
			return 0
		}
		return math.Abs(distance)
	default:
		return orbgeo.DistanceHaversine(point(a), point(b))
	}
}

// Bearing returns the initial great-circle bearing on a spherical earth. See Model.Bearing.
func Bearing(from, to Coordinate) float64 {
	return Spherical.Bearing(from, to)
}

// BearingOK returns the initial great-circle bearing on a spherical earth and whether it is
// defined. See Model.BearingOK.
func BearingOK(from, to Coordinate) (float64, bool) {
	return Spherical.BearingOK(from, to)
}

// Distance returns the great-circle distance on a spherical earth in meters.
func Distance(a, b Coordinate) float64 {
	return Spherical.Distance(a, b)
}

// NormalizeBearing maps any angle in degrees into [0,360).
func NormalizeBearing(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// point converts a Coordinate into an orb.Point, which is ordered lon/lat.
func point(c Coordinate) orb.Point {
	return orb.Point{c.Lon, c.Lat}
}
