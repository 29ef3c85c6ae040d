// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package camera

import (
	"errors"
	"fmt"
	"math"

	"github.com/wneessen/birdseye/internal/geo"
	"github.com/wneessen/birdseye/internal/route"
)

const (
	DefaultZoom        = 16.0
	DefaultObliqueZoom = 18.0
	DefaultObliqueTilt = 60.0
	DefaultMaxZoom     = 19.0

	// MinAdjustedZoom is the lowest zoom level AdjustedZoom returns.
	MinAdjustedZoom = 14.0

	// zoomHeightBase is the height in meters that corresponds to zoom level 0.
	zoomHeightBase = 35200000.0
)

// ErrNotEnoughPositions is returned when a lift-off is requested with less than two positions.
var ErrNotEnoughPositions = errors.New("not enough camera positions")

// Position describes where the camera looks at and from which angle.
type Position struct {
	Target  geo.Coordinate `json:"target"`
	Zoom    float64        `json:"zoom"`
	Tilt    float64        `json:"tilt"`
	Bearing float64        `json:"bearing"`
}

// String satisfies the fmt.Stringer interface for the Position type.
func (p Position) String() string {
	return fmt.Sprintf("target=%s zoom=%.1f tilt=%.1f bearing=%.1f", p.Target, p.Zoom, p.Tilt,
		p.Bearing)
}

// Settings hold the zoom and tilt levels the camera helpers work with.
type Settings struct {
	Zoom        float64
	ObliqueZoom float64
	ObliqueTilt float64
	MaxZoom     float64
}

// DefaultSettings returns the default zoom and tilt levels.
func DefaultSettings() Settings {
	return Settings{
		Zoom:        DefaultZoom,
		ObliqueZoom: DefaultObliqueZoom,
		ObliqueTilt: DefaultObliqueTilt,
		MaxZoom:     DefaultMaxZoom,
	}
}

// MaximumTilt returns the highest tilt in degrees the map allows at the given zoom level.
func MaximumTilt(zoom float64) float64 {
	switch {
	case zoom > 15.5:
		return 67.5
	case zoom >= 14:
		return lerp(45, 67.5, (zoom-14)/1.5)
	case zoom >= 10:
		return lerp(30, 45, (zoom-10)/4)
	default:
		return 30
	}
}

// AdjustedZoom returns the zoom level that shows the ground from the given height in meters,
// clamped to [MinAdjustedZoom, DefaultMaxZoom].
func AdjustedZoom(height float64) float64 {
	if height <= 0 {
		return DefaultMaxZoom
	}
	zoom := math.Round(math.Log2(zoomHeightBase / height))
	return math.Min(math.Max(zoom, MinAdjustedZoom), DefaultMaxZoom)
}

// ForRoute returns a camera position above the start of the route that looks along its
// first segment.
func ForRoute(r route.Route, zoom, tilt float64) Position {
	if r.Len() == 0 {
		return Position{Zoom: zoom, Tilt: tilt}
	}
	pos := Position{Target: r.Start(), Zoom: zoom, Tilt: tilt}
	if r.Len() > 1 {
		pos.Bearing = geo.Bearing(r.At(0), r.At(1))
	}
	return pos
}

// LiftOff returns n camera positions that simulate lifting off from the current position.
// The first position is at maximum zoom and tilt, every following one zooms out by one level
// and the last one ends at the default zoom. Target and bearing of the current position are
// kept throughout.
func (s Settings) LiftOff(current Position, n int) ([]Position, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d, need at least 2", ErrNotEnoughPositions, n)
	}

	positions := make([]Position, 0, n)
	at := func(zoom float64) Position {
		return Position{
			Target:  current.Target,
			Zoom:    zoom,
			Tilt:    MaximumTilt(zoom),
			Bearing: current.Bearing,
		}
	}
	positions = append(positions, at(s.MaxZoom))
	for i := 1; i < n-1; i++ {
		positions = append(positions, at(s.MaxZoom-float64(i)))
	}
	positions = append(positions, at(s.Zoom))

	return positions, nil
}

// TogglePerspective switches between the oblique view and the top view at maximum zoom.
// Target and bearing are kept.
func (s Settings) TogglePerspective(current Position) Position {
	next := current
	if s.IsOblique(current) {
		next.Zoom = s.MaxZoom
		next.Tilt = MaximumTilt(s.MaxZoom)
		return next
	}
	next.Zoom = s.ObliqueZoom
	next.Tilt = s.ObliqueTilt
	return next
}

// IsOblique reports whether the position uses the oblique zoom and tilt.
func (s Settings) IsOblique(p Position) bool {
	return p.Zoom == s.ObliqueZoom && p.Tilt == s.ObliqueTilt
}

// LiftOff returns the lift-off positions for the default settings.
func LiftOff(current Position, n int) ([]Position, error) {
	return DefaultSettings().LiftOff(current, n)
}

// TogglePerspective toggles the perspective using the default settings.
func TogglePerspective(current Position) Position {
	return DefaultSettings().TogglePerspective(current)
}

func lerp(a, b, f float64) float64 {
	return a + (b-a)*f
}
