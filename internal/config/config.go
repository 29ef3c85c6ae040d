// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kkyr/fig"

	"github.com/wneessen/birdseye/internal/animation"
	"github.com/wneessen/birdseye/internal/camera"
	"github.com/wneessen/birdseye/internal/geo"
)

const configEnv = "BIRDSEYE"

// Config represents the application's configuration structure.
type Config struct {
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	Route struct {
		// GeoJSON file holding a LineString. The built-in demo route is used if empty.
		File              string        `fig:"file"`
		// Duration per degree and per meter. fig treats 0 as unset and applies the default;
		// use "1ns" for effectively instant rotation or traversal.
		HeadingChangeRate time.Duration `fig:"heading_change_rate" default:"5ms"`
		PositionRate      time.Duration `fig:"position_rate" default:"10ms"`
		TraversalDuration time.Duration `fig:"traversal_duration"`
		UniformDuration   time.Duration `fig:"uniform_duration"`
		// Allowed values: numeric, shortest
		HeadingPolicy string `fig:"heading_policy" default:"numeric"`
		// Allowed values: planar, greatcircle
		Interpolation string `fig:"interpolation" default:"planar"`
		// Allowed values: spherical, wgs84
		EarthModel string `fig:"earth_model" default:"spherical"`
		Repeat     int    `fig:"repeat"`
	} `fig:"route"`

	Camera struct {
		Zoom             float64       `fig:"zoom" default:"16"`
		ObliqueZoom      float64       `fig:"oblique_zoom" default:"18"`
		ObliqueTilt      float64       `fig:"oblique_tilt" default:"60"`
		MaxZoom          float64       `fig:"max_zoom" default:"19"`
		LiftOffPositions int           `fig:"liftoff_positions" default:"2"`
		LiftOffStep      time.Duration `fig:"liftoff_step" default:"1s"`
	} `fig:"camera"`

	Marker struct {
		// fig treats false as unset, so the marker is shown unless hidden explicitly.
		Hide bool `fig:"hide"`
	} `fig:"marker"`

	Map struct {
		Buildings bool `fig:"buildings"`
	} `fig:"map"`

	Frame struct {
		Interval time.Duration `fig:"interval" default:"16ms"`
	} `fig:"frame"`

	Intervals struct {
		// Automatically replays the animation when idle. Disabled if zero.
		Replay time.Duration `fig:"replay"`
	} `fig:"intervals"`

	Playback struct {
		Autoplay bool `fig:"autoplay"`
	} `fig:"playback"`

	Server struct {
		Listen  string `fig:"listen" default:"127.0.0.1:8765"`
		Disable bool   `fig:"disable"`
	} `fig:"server"`

	NATS struct {
		URL           string `fig:"url"`
		SubjectPrefix string `fig:"subject_prefix" default:"birdseye"`
	} `fig:"nats"`

	GPSD struct {
		Enable      bool    `fig:"enable"`
		Host        string  `fig:"host" default:"localhost"`
		Port        string  `fig:"port" default:"2947"`
		MinDistance float64 `fig:"min_distance" default:"10"`
	} `fig:"gpsd"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	if c.Locale == "" {
		c.Locale = getLocale()
	}
	if _, err := c.AnimationOptions(); err != nil {
		return err
	}
	if c.Route.File != "" {
		c.Route.File = expandHome(c.Route.File)
	}
	if c.Camera.MaxZoom < c.Camera.Zoom || c.Camera.MaxZoom < c.Camera.ObliqueZoom {
		return fmt.Errorf("invalid camera max zoom: %g", c.Camera.MaxZoom)
	}
	if c.Camera.ObliqueTilt < 0 || c.Camera.ObliqueTilt > camera.MaximumTilt(c.Camera.ObliqueZoom) {
		return fmt.Errorf("invalid camera oblique tilt: %g", c.Camera.ObliqueTilt)
	}
	if c.Camera.LiftOffPositions < 2 {
		return fmt.Errorf("invalid camera lift-off positions: %d", c.Camera.LiftOffPositions)
	}
	if c.Camera.LiftOffStep <= 0 {
		return fmt.Errorf("invalid camera lift-off step: %s", c.Camera.LiftOffStep)
	}
	if c.Frame.Interval <= 0 {
		return fmt.Errorf("invalid frame interval: %s", c.Frame.Interval)
	}
	if c.Intervals.Replay < 0 {
		return fmt.Errorf("invalid replay interval: %s", c.Intervals.Replay)
	}
	if c.GPSD.MinDistance < 0 {
		return fmt.Errorf("invalid gpsd minimum distance: %g", c.GPSD.MinDistance)
	}

	return nil
}

// AnimationOptions converts the route section into animation.Options.
func (c *Config) AnimationOptions() (animation.Options, error) {
	opts := animation.DefaultOptions()
	policy, err := animation.ParseHeadingPolicy(c.Route.HeadingPolicy)
	if err != nil {
		return opts, err
	}
	interpolator, err := geo.ParseInterpolator(c.Route.Interpolation)
	if err != nil {
		return opts, err
	}
	model, err := geo.ParseModel(c.Route.EarthModel)
	if err != nil {
		return opts, err
	}

	opts.HeadingChangeRate = c.Route.HeadingChangeRate
	opts.PositionRate = c.Route.PositionRate
	opts.TraversalDuration = c.Route.TraversalDuration
	opts.UniformDuration = c.Route.UniformDuration
	opts.Repeat = c.Route.Repeat
	opts.HeadingPolicy = policy
	opts.Interpolator = interpolator
	opts.Model = model
	return opts, opts.Validate()
}

func (c *Config) CameraSettings() camera.Settings {
	return camera.Settings{
		Zoom:        c.Camera.Zoom,
		ObliqueZoom: c.Camera.ObliqueZoom,
		ObliqueTilt: c.Camera.ObliqueTilt,
		MaxZoom:     c.Camera.MaxZoom,
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func getLocale() string {
	locale := os.Getenv("LC_MESSAGES")
	if idx := strings.Index(locale, "."); idx != -1 {
		lang := locale[:idx]
		return strings.ReplaceAll(lang, "_", "-")
	}
	return locale
}
