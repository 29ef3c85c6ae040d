// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package surface

import (
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/wneessen/birdseye/internal/geo"
)

// Theme is the map style used by viewers.
type Theme string

const (
	ThemeDay   Theme = "day"
	ThemeNight Theme = "night"
)

// ThemeAt returns the day theme if the sun is up at the given coordinate and time, otherwise
// the night theme. Polar days and nights without sunrise or sunset use the day theme.
func ThemeAt(c geo.Coordinate, now time.Time) Theme {
	now = now.UTC()
	sunriseTime, sunsetTime := sunrise.SunriseSunset(c.Lat, c.Lon, now.Year(), now.Month(), now.Day())
	if sunriseTime.IsZero() || sunsetTime.IsZero() {
		return ThemeDay
	}
	if now.After(sunriseTime) && now.Before(sunsetTime) {
		return ThemeDay
	}
	return ThemeNight
}
