// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wneessen/birdseye/internal/animation"
	"github.com/wneessen/birdseye/internal/geo"
)

func TestNew(t *testing.T) {
	const (
		expectLogLevel          = slog.LevelInfo
		expectHeadingChangeRate = time.Millisecond * 5
		expectPositionRate      = time.Millisecond * 10
		expectHeadingPolicy     = "numeric"
		expectZoom              = 16
		expectObliqueZoom       = 18
		expectListen            = "127.0.0.1:8765"
		expectGPSDPort          = "2947"
		expectLiftOffPositions  = 2
	)
	t.Run("new config with all defaults set", func(t *testing.T) {
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.LogLevel != expectLogLevel {
			t.Errorf("expected log level to be: %s, got %s", expectLogLevel, conf.LogLevel)
		}
		if conf.Route.HeadingChangeRate != expectHeadingChangeRate {
			t.Errorf("expected heading change rate to be: %s, got %s", expectHeadingChangeRate,
				conf.Route.HeadingChangeRate)
		}
		if conf.Route.PositionRate != expectPositionRate {
			t.Errorf("expected position rate to be: %s, got %s", expectPositionRate, conf.Route.PositionRate)
		}
		if conf.Route.HeadingPolicy != expectHeadingPolicy {
			t.Errorf("expected heading policy to be: %s, got %s", expectHeadingPolicy, conf.Route.HeadingPolicy)
		}
		if conf.Camera.Zoom != expectZoom {
			t.Errorf("expected camera zoom to be: %d, got %g", expectZoom, conf.Camera.Zoom)
		}
		if conf.Camera.ObliqueZoom != expectObliqueZoom {
			t.Errorf("expected oblique zoom to be: %d, got %g", expectObliqueZoom, conf.Camera.ObliqueZoom)
		}
		if conf.Server.Listen != expectListen {
			t.Errorf("expected listen address to be: %s, got %s", expectListen, conf.Server.Listen)
		}
		if conf.GPSD.Port != expectGPSDPort {
			t.Errorf("expected gpsd port to be: %s, got %s", expectGPSDPort, conf.GPSD.Port)
		}
		if conf.Marker.Hide {
			t.Error("expected marker to be visible by default")
		}
		if conf.Intervals.Replay != 0 {
			t.Errorf("expected replay to be disabled, got %s", conf.Intervals.Replay)
		}
		if conf.Camera.LiftOffPositions != expectLiftOffPositions {
			t.Errorf("expected lift-off positions to be: %d, got %d", expectLiftOffPositions,
				conf.Camera.LiftOffPositions)
		}
	})
	t.Run("zero rates fall back to the defaults", func(t *testing.T) {
		t.Setenv("BIRDSEYE_ROUTE_HEADING_CHANGE_RATE", "0s")
		t.Setenv("BIRDSEYE_ROUTE_POSITION_RATE", "0s")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Route.HeadingChangeRate != expectHeadingChangeRate {
			t.Errorf("expected heading change rate to be: %s, got %s", expectHeadingChangeRate,
				conf.Route.HeadingChangeRate)
		}
		if conf.Route.PositionRate != expectPositionRate {
			t.Errorf("expected position rate to be: %s, got %s", expectPositionRate, conf.Route.PositionRate)
		}
	})
	t.Run("nanosecond rates are kept", func(t *testing.T) {
		t.Setenv("BIRDSEYE_ROUTE_HEADING_CHANGE_RATE", "1ns")
		t.Setenv("BIRDSEYE_ROUTE_POSITION_RATE", "1ns")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		opts, err := conf.AnimationOptions()
		if err != nil {
			t.Fatalf("failed to convert animation options: %s", err)
		}
		if opts.HeadingChangeRate != time.Nanosecond || opts.PositionRate != time.Nanosecond {
			t.Errorf("expected rates of 1ns, got %s and %s", opts.HeadingChangeRate, opts.PositionRate)
		}
	})
	t.Run("new config with values from env", func(t *testing.T) {
		t.Setenv("BIRDSEYE_ROUTE_HEADING_POLICY", "shortest")
		t.Setenv("BIRDSEYE_ROUTE_EARTH_MODEL", "wgs84")
		t.Setenv("BIRDSEYE_ROUTE_REPEAT", "2")
		t.Setenv("BIRDSEYE_INTERVALS_REPLAY", "1m")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Route.Repeat != 2 {
			t.Errorf("expected repeat to be: 2, got %d", conf.Route.Repeat)
		}
		if conf.Intervals.Replay != time.Minute {
			t.Errorf("expected replay interval to be: %s, got %s", time.Minute, conf.Intervals.Replay)
		}
		opts, err := conf.AnimationOptions()
		if err != nil {
			t.Fatalf("failed to convert animation options: %s", err)
		}
		if opts.HeadingPolicy != animation.HeadingShortest {
			t.Errorf("expected heading policy to be: %s, got %s", animation.HeadingShortest, opts.HeadingPolicy)
		}
		if opts.Model != geo.WGS84 {
			t.Errorf("expected earth model to be: %s, got %s", geo.WGS84, opts.Model)
		}
		if opts.Repeat != 2 {
			t.Errorf("expected option repeat to be: 2, got %d", opts.Repeat)
		}
	})
	t.Run("new config with invalid values from env", func(t *testing.T) {
		t.Setenv("BIRDSEYE_LOGLEVEL", "invalid")
		_, err := New()
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("config validate enumerations", func(t *testing.T) {
		tests := []struct {
			name  string
			key   string
			value string
		}{
			{"heading policy", "BIRDSEYE_ROUTE_HEADING_POLICY", "sideways"},
			{"interpolation", "BIRDSEYE_ROUTE_INTERPOLATION", "cubic"},
			{"earth model", "BIRDSEYE_ROUTE_EARTH_MODEL", "flat"},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				t.Setenv(tc.key, tc.value)
				_, err := New()
				if err == nil {
					t.Error("expected config to fail, but didn't")
				}
			})
		}
	})
	t.Run("config validate ranges", func(t *testing.T) {
		tests := []struct {
			name  string
			key   string
			value string
		}{
			{"negative repeat", "BIRDSEYE_ROUTE_REPEAT", "-1"},
			{"negative position rate", "BIRDSEYE_ROUTE_POSITION_RATE", "-10ms"},
			{"negative uniform duration", "BIRDSEYE_ROUTE_UNIFORM_DURATION", "-1s"},
			{"max zoom below zoom", "BIRDSEYE_CAMERA_MAX_ZOOM", "12"},
			{"tilt beyond maximum", "BIRDSEYE_CAMERA_OBLIQUE_TILT", "80"},
			{"single lift-off position", "BIRDSEYE_CAMERA_LIFTOFF_POSITIONS", "1"},
			{"negative frame interval", "BIRDSEYE_FRAME_INTERVAL", "-1s"},
			{"negative replay interval", "BIRDSEYE_INTERVALS_REPLAY", "-1m"},
			{"negative gpsd distance", "BIRDSEYE_GPSD_MIN_DISTANCE", "-5"},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				t.Setenv(tc.key, tc.value)
				_, err := New()
				if err == nil {
					t.Error("expected config to fail, but didn't")
				}
			})
		}
	})
	t.Run("locale is taken from LC_MESSAGES", func(t *testing.T) {
		t.Setenv("LC_MESSAGES", "de_DE.UTF-8")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Locale != "de-DE" {
			t.Errorf("expected locale to be: de-DE, got %s", conf.Locale)
		}
	})
	t.Run("route file in home directory is expanded", func(t *testing.T) {
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skipf("no home directory available: %s", err)
		}
		t.Setenv("BIRDSEYE_ROUTE_FILE", "~/route.geojson")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		want := filepath.Join(home, "route.geojson")
		if conf.Route.File != want {
			t.Errorf("expected route file to be: %s, got %s", want, conf.Route.File)
		}
	})
}

func TestConfig_CameraSettings(t *testing.T) {
	t.Run("camera settings reflect the camera section", func(t *testing.T) {
		t.Setenv("BIRDSEYE_CAMERA_ZOOM", "15")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		settings := conf.CameraSettings()
		if settings.Zoom != 15 {
			t.Errorf("expected zoom to be: 15, got %g", settings.Zoom)
		}
		if settings.ObliqueZoom != 18 || settings.ObliqueTilt != 60 || settings.MaxZoom != 19 {
			t.Errorf("unexpected camera settings: %+v", settings)
		}
	})
}

func TestNewFromFile(t *testing.T) {
	const (
		expectLogLevel     = slog.LevelInfo
		expectPositionRate = time.Millisecond * 10
		expectLiftOffStep  = time.Second
		expectSubject      = "birdseye"
	)
	t.Run("reading config from valid file succeeds", func(t *testing.T) {
		conf, err := NewFromFile("../../etc", "config.toml")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.LogLevel != expectLogLevel {
			t.Errorf("expected log level to be: %s, got %s", expectLogLevel, conf.LogLevel)
		}
		if conf.Route.PositionRate != expectPositionRate {
			t.Errorf("expected position rate to be: %s, got %s", expectPositionRate, conf.Route.PositionRate)
		}
		if conf.Camera.LiftOffPositions != 2 {
			t.Errorf("expected lift-off positions to be: 2, got %d", conf.Camera.LiftOffPositions)
		}
		if conf.Camera.LiftOffStep != expectLiftOffStep {
			t.Errorf("expected lift-off step to be: %s, got %s", expectLiftOffStep, conf.Camera.LiftOffStep)
		}
		if conf.NATS.SubjectPrefix != expectSubject {
			t.Errorf("expected subject prefix to be: %s, got %s", expectSubject, conf.NATS.SubjectPrefix)
		}
		if conf.GPSD.Enable {
			t.Error("expected gpsd recorder to be disabled")
		}
	})
	t.Run("reading config from non-existent file fails", func(t *testing.T) {
		_, err := NewFromFile("../../etc", "non-existent.toml")
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("reading invalid config file fails", func(t *testing.T) {
		_, err := NewFromFile("../../testdata", "invalid.toml")
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
}
