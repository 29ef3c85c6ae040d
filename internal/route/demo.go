// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package route

import "github.com/wneessen/birdseye/internal/geo"

// demo is a short walk through downtown San Francisco, from Market Street up to
// Washington Square.
var demo = MustNew(
	geo.Coordinate{Lat: 37.783986, Lon: -122.408059},
	geo.Coordinate{Lat: 37.785716, Lon: -122.40587},
	geo.Coordinate{Lat: 37.785731, Lon: -122.406267},
	geo.Coordinate{Lat: 37.799446, Lon: -122.408989},
)

// Demo returns the built-in demo route.
func Demo() Route {
	return demo
}
