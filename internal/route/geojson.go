// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package route

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/wneessen/birdseye/internal/geo"
)

// ErrNoLineString is returned when a GeoJSON document does not contain a usable line geometry.
var ErrNoLineString = errors.New("no LineString geometry found in GeoJSON document")

// LoadFile reads a GeoJSON document from path and returns its route. See FromGeoJSON.
func LoadFile(path string) (Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Route{}, fmt.Errorf("failed to read route file: %w", err)
	}
	return FromGeoJSON(data)
}

// FromGeoJSON parses a GeoJSON document into a Route. Supported are a bare LineString or
// MultiPoint geometry, a Feature holding one of those, or a FeatureCollection, in which case
// the first feature with a supported geometry is used.
func FromGeoJSON(data []byte) (Route, error) {
	var doc struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Route{}, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}

	switch doc.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return Route{}, fmt.Errorf("failed to parse GeoJSON feature collection: %w", err)
		}
		for _, f := range fc.Features {
			if r, err := fromGeometry(f.Geometry); err == nil || !errors.Is(err, ErrNoLineString) {
				return r, err
			}
		}
		return Route{}, ErrNoLineString
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return Route{}, fmt.Errorf("failed to parse GeoJSON feature: %w", err)
		}
		return fromGeometry(f.Geometry)
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return Route{}, fmt.Errorf("failed to parse GeoJSON geometry: %w", err)
		}
		return fromGeometry(g.Geometry())
	}
}

// ToGeoJSON renders the route as a GeoJSON Feature with a LineString geometry.
func (r Route) ToGeoJSON(properties map[string]any) ([]byte, error) {
	line := make(orb.LineString, 0, len(r.points))
	for _, p := range r.points {
		line = append(line, orb.Point{p.Lon, p.Lat})
	}
	feature := geojson.NewFeature(line)
	for k, v := range properties {
		feature.Properties[k] = v
	}
	return feature.MarshalJSON()
}

func fromGeometry(g orb.Geometry) (Route, error) {
	var points []orb.Point
	switch geom := g.(type) {
	case orb.LineString:
		points = geom
	case orb.MultiPoint:
		points = geom
	default:
		return Route{}, ErrNoLineString
	}

	builder := NewBuilder()
	for _, p := range points {
		builder.Append(geo.Coordinate{Lat: p.Lat(), Lon: p.Lon()})
	}
	return builder.Build()
}
