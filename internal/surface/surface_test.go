// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package surface

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/wneessen/birdseye/internal/camera"
	"github.com/wneessen/birdseye/internal/eventbus"
	"github.com/wneessen/birdseye/internal/geo"
	"github.com/wneessen/birdseye/internal/logger"
	"github.com/wneessen/birdseye/internal/route"
)

func testMap(t *testing.T, opts ...Option) (*Map, *eventbus.Bus) {
	t.Helper()
	bus := eventbus.New(logger.NewLogger(slog.LevelError, io.Discard))
	return New(bus, route.Demo(), opts...), bus
}

func TestHSVToColor(t *testing.T) {
	tests := []struct {
		name  string
		alpha uint8
		h     float64
		s, v  float64
		want  Color
	}{
		{"default polyline color", 128, 360, 1, 1, 0x80FF0000},
		{"red", 255, 0, 1, 1, 0xFFFF0000},
		{"green", 255, 120, 1, 1, 0xFF00FF00},
		{"blue", 255, 240, 1, 1, 0xFF0000FF},
		{"yellow", 255, 60, 1, 1, 0xFFFFFF00},
		{"gray without saturation", 255, 200, 0, 0.5, 0xFF808080},
		{"black without value", 10, 90, 1, 0, 0x0A000000},
		{"out of range values are clamped", 255, 0, 3, -1, 0xFF000000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HSVToColor(tc.alpha, tc.h, tc.s, tc.v); got != tc.want {
				t.Errorf("expected color %s, got %s", tc.want, got)
			}
		})
	}
	t.Run("color channels and css", func(t *testing.T) {
		r, g, b, a := DefaultPolylineColor.RGBA()
		if r != 255 || g != 0 || b != 0 || a != 128 {
			t.Errorf("unexpected channels: %d %d %d %d", r, g, b, a)
		}
		if css := DefaultPolylineColor.CSS(); css != "rgba(255,0,0,0.502)" {
			t.Errorf("unexpected css color: %s", css)
		}
	})
}

func TestThemeAt(t *testing.T) {
	sf := geo.Coordinate{Lat: 37.783986, Lon: -122.408059}
	t.Run("afternoon is day", func(t *testing.T) {
		if theme := ThemeAt(sf, time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)); theme != ThemeDay {
			t.Errorf("expected day theme, got %s", theme)
		}
	})
	t.Run("early morning is night", func(t *testing.T) {
		if theme := ThemeAt(sf, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)); theme != ThemeNight {
			t.Errorf("expected night theme, got %s", theme)
		}
	})
}

func TestNew(t *testing.T) {
	t.Run("map starts at the beginning of the route", func(t *testing.T) {
		m, _ := testMap(t)
		snap := m.Snapshot()
		r := route.Demo()
		if snap.Marker.Position != r.Start() || snap.Camera.Target != r.Start() {
			t.Errorf("expected marker and camera at %s, got %s and %s", r.Start(), snap.Marker.Position,
				snap.Camera.Target)
		}
		if snap.Camera.Zoom != camera.DefaultObliqueZoom || snap.Camera.Tilt != camera.DefaultObliqueTilt {
			t.Errorf("expected oblique camera, got %s", snap.Camera)
		}
		if len(snap.Polyline.Points) != r.Len() {
			t.Errorf("expected %d polyline points, got %d", r.Len(), len(snap.Polyline.Points))
		}
		if !snap.Marker.Visible {
			t.Error("expected marker to be visible")
		}
	})
	t.Run("options are applied", func(t *testing.T) {
		m, _ := testMap(t, WithMarker(false), WithBuildings(true), WithTheme(ThemeNight),
			WithPolylineStyle(0xFF00FF00, 4), WithCamera(camera.Position{Zoom: 12}))
		snap := m.Snapshot()
		if snap.Marker.Visible || !snap.Buildings || snap.Theme != ThemeNight {
			t.Errorf("unexpected state: %+v", snap)
		}
		if snap.Polyline.Color != 0xFF00FF00 || snap.Polyline.Width != 4 {
			t.Errorf("unexpected polyline style: %+v", snap.Polyline)
		}
		if snap.Camera.Zoom != 12 {
			t.Errorf("expected camera zoom 12, got %f", snap.Camera.Zoom)
		}
	})
}

func TestMap_Updates(t *testing.T) {
	t.Run("bearing and position are published separately", func(t *testing.T) {
		m, bus := testMap(t)
		bearings, unsubBearing := bus.Subscribe(eventbus.TopicBearing, 1)
		defer unsubBearing()
		positions, unsubPosition := bus.Subscribe(eventbus.TopicPosition, 1)
		defer unsubPosition()

		m.SetBearing(123)
		pos := geo.Coordinate{Lat: 1, Lon: 2}
		m.SetPosition(pos)

		if event := <-bearings; event.Payload.(float64) != 123 {
			t.Errorf("expected bearing 123, got %v", event.Payload)
		}
		if event := <-positions; event.Payload.(geo.Coordinate) != pos {
			t.Errorf("expected position %s, got %v", pos, event.Payload)
		}
		snap := m.Snapshot()
		if snap.Camera.Bearing != 123 || snap.Camera.Target != pos || snap.Marker.Position != pos {
			t.Errorf("unexpected state after updates: %+v", snap)
		}
	})
	t.Run("toggles flip the state", func(t *testing.T) {
		m, bus := testMap(t)
		states, unsub := bus.Subscribe(eventbus.TopicState, 4)
		defer unsub()

		if m.ToggleMarker() {
			t.Error("expected marker to be hidden")
		}
		if !m.ToggleBuildings() {
			t.Error("expected buildings to be shown")
		}
		<-states
		event := <-states
		if snap := event.Payload.(Snapshot); snap.Marker.Visible || !snap.Buildings {
			t.Errorf("unexpected published state: %+v", snap)
		}
	})
	t.Run("playing state is tracked", func(t *testing.T) {
		m, _ := testMap(t)
		m.SetPlaying(true, "playing")
		if !m.Playing() || m.Snapshot().Animation != "playing" {
			t.Error("expected map to be playing")
		}
		m.SetPlaying(false, "completed")
		if m.Playing() {
			t.Error("expected map to not be playing")
		}
	})
	t.Run("snapshots are copies", func(t *testing.T) {
		m, _ := testMap(t)
		snap := m.Snapshot()
		snap.Polyline.Points[0] = geo.Coordinate{}
		if m.Snapshot().Polyline.Points[0] == (geo.Coordinate{}) {
			t.Error("expected snapshot modification to not affect the map")
		}
	})
	t.Run("status messages are published", func(t *testing.T) {
		m, bus := testMap(t)
		m.Notify("Animation Start")
		event, ok := bus.Last(eventbus.TopicStatus)
		if !ok || event.Payload.(Status).Message != "Animation Start" {
			t.Errorf("expected status message, got %v", event.Payload)
		}
	})
	t.Run("snapshot renders as JSON", func(t *testing.T) {
		m, _ := testMap(t)
		data, err := json.Marshal(m.Snapshot())
		if err != nil {
			t.Fatalf("failed to marshal snapshot: %s", err)
		}
		if !strings.Contains(string(data), `"color":"#80FF0000"`) {
			t.Errorf("expected hex color in JSON, got %s", data)
		}
	})
	t.Run("route can be replaced", func(t *testing.T) {
		m, _ := testMap(t)
		r := route.MustNew(geo.Coordinate{Lat: 1, Lon: 1}, geo.Coordinate{Lat: 2, Lon: 2})
		m.SetRoute(r)
		snap := m.Snapshot()
		if len(snap.Polyline.Points) != 2 || snap.Marker.Position != r.Start() {
			t.Errorf("unexpected state after route change: %+v", snap)
		}
	})
}

func TestColor_UnmarshalText(t *testing.T) {
	var c Color
	if err := c.UnmarshalText([]byte("#80FF0000")); err != nil {
		t.Fatalf("failed to parse color: %s", err)
	}
	if c != DefaultPolylineColor {
		t.Errorf("expected %s, got %s", DefaultPolylineColor, c)
	}
	if err := c.UnmarshalText([]byte("red")); err == nil {
		t.Error("expected error for invalid color")
	}
}
