// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package surface

import (
	"sync"
	"time"

	"github.com/wneessen/birdseye/internal/camera"
	"github.com/wneessen/birdseye/internal/eventbus"
	"github.com/wneessen/birdseye/internal/geo"
	"github.com/wneessen/birdseye/internal/route"
)

// Marker is the avatar that travels along the route.
type Marker struct {
	Position geo.Coordinate `json:"position"`
	Visible  bool           `json:"visible"`
}

// Polyline is the drawn route.
type Polyline struct {
	Points []geo.Coordinate `json:"points"`
	Color  Color            `json:"color"`
	CSS    string           `json:"css"`
	Width  float64          `json:"width"`
}

// Snapshot is a copy of the map state at one point in time.
type Snapshot struct {
	Camera    camera.Position `json:"camera"`
	Marker    Marker          `json:"marker"`
	Polyline  Polyline        `json:"polyline"`
	Buildings bool            `json:"buildings"`
	Theme     Theme           `json:"theme"`
	Playing   bool            `json:"playing"`
	Animation string          `json:"animation"`
}

// Status is the payload of status events.
type Status struct {
	Message string `json:"message"`
}

// Option configures the initial state of a Map.
type Option func(*Snapshot)

// WithMarker sets the initial marker visibility.
func WithMarker(visible bool) Option {
	return func(s *Snapshot) {
		s.Marker.Visible = visible
	}
}

// WithBuildings sets whether 3D buildings are shown initially.
func WithBuildings(enabled bool) Option {
	return func(s *Snapshot) {
		s.Buildings = enabled
	}
}

// WithCamera sets the initial camera position.
func WithCamera(pos camera.Position) Option {
	return func(s *Snapshot) {
		s.Camera = pos
	}
}

// WithPolylineStyle sets color and width of the route polyline.
func WithPolylineStyle(color Color, width float64) Option {
	return func(s *Snapshot) {
		s.Polyline.Color = color
		s.Polyline.CSS = color.CSS()
		s.Polyline.Width = width
	}
}

// WithTheme overrides the theme derived from the time of day.
func WithTheme(theme Theme) Option {
	return func(s *Snapshot) {
		s.Theme = theme
	}
}

// Map is the surface the animation is drawn on. It holds camera, marker and route state and
// publishes every change on the event bus. It is safe for concurrent use.
type Map struct {
	mu    sync.RWMutex
	bus   *eventbus.Bus
	state Snapshot
}

// New returns a Map showing the given route. The camera starts above the first waypoint in
// the oblique perspective and the marker sits on the first waypoint.
func New(bus *eventbus.Bus, r route.Route, opts ...Option) *Map {
	state := Snapshot{
		Camera: camera.ForRoute(r, camera.DefaultObliqueZoom, camera.DefaultObliqueTilt),
		Marker: Marker{Position: r.Start(), Visible: true},
		Polyline: Polyline{
			Points: r.Points(),
			Color:  DefaultPolylineColor,
			CSS:    DefaultPolylineColor.CSS(),
			Width:  DefaultPolylineWidth,
		},
		Theme:     ThemeAt(r.Start(), time.Now()),
		Animation: "idle",
	}
	for _, opt := range opts {
		opt(&state)
	}
	return &Map{bus: bus, state: state}
}

// Snapshot returns a copy of the current map state.
func (m *Map) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot()
}

// Camera returns the current camera position.
func (m *Map) Camera() camera.Position {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Camera
}

// Playing reports whether an animation is currently running on the map.
func (m *Map) Playing() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Playing
}

// SetBearing turns the camera to the given bearing.
func (m *Map) SetBearing(bearing float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Camera.Bearing = bearing
	m.publish(eventbus.TopicBearing, bearing)
}

// SetPosition moves the marker and the camera target to the given coordinate.
func (m *Map) SetPosition(pos geo.Coordinate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Marker.Position = pos
	m.state.Camera.Target = pos
	m.publish(eventbus.TopicPosition, pos)
}

// SetCamera replaces the camera position.
func (m *Map) SetCamera(pos camera.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Camera = pos
	m.publish(eventbus.TopicCamera, pos)
}

// SetRoute replaces the drawn route and puts the marker on its first waypoint.
func (m *Map) SetRoute(r route.Route) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Polyline.Points = r.Points()
	m.state.Marker.Position = r.Start()
	m.publish(eventbus.TopicState, m.snapshot())
}

// SetPlaying records whether an animation runs and the state of its timeline.
func (m *Map) SetPlaying(playing bool, animation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Playing = playing
	m.state.Animation = animation
	m.publish(eventbus.TopicState, m.snapshot())
}

// ToggleMarker shows or hides the marker and returns the new visibility.
func (m *Map) ToggleMarker() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Marker.Visible = !m.state.Marker.Visible
	m.publish(eventbus.TopicState, m.snapshot())
	return m.state.Marker.Visible
}

// ToggleBuildings enables or disables 3D buildings and returns the new setting.
func (m *Map) ToggleBuildings() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Buildings = !m.state.Buildings
	m.publish(eventbus.TopicState, m.snapshot())
	return m.state.Buildings
}

// UpdateTheme recomputes the theme for the start of the route at the given time and returns it.
func (m *Map) UpdateTheme(now time.Time) Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	var start geo.Coordinate
	if len(m.state.Polyline.Points) > 0 {
		start = m.state.Polyline.Points[0]
	}
	theme := ThemeAt(start, now)
	if theme != m.state.Theme {
		m.state.Theme = theme
		m.publish(eventbus.TopicState, m.snapshot())
	}
	return theme
}

// Notify publishes a status message for viewers.
func (m *Map) Notify(message string) {
	m.publish(eventbus.TopicStatus, Status{Message: message})
}

// snapshot copies the state. The caller must hold the lock.
func (m *Map) snapshot() Snapshot {
	state := m.state
	state.Polyline.Points = make([]geo.Coordinate, len(m.state.Polyline.Points))
	copy(state.Polyline.Points, m.state.Polyline.Points)
	return state
}

func (m *Map) publish(topic eventbus.Topic, payload any) {
	if m.bus == nil {
		return
	}
	m.bus.Publish(topic, payload)
}
