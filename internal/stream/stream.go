// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/wneessen/birdseye/internal/eventbus"
	"github.com/wneessen/birdseye/internal/logger"
	"github.com/wneessen/birdseye/internal/metrics"
	"github.com/wneessen/birdseye/internal/route"
	"github.com/wneessen/birdseye/internal/surface"
)

const (
	// eventBuffer is the per-connection event buffer. Slow viewers miss frames.
	eventBuffer  = 64
	pingInterval = 30 * time.Second
)

// Controller executes viewer commands.
type Controller interface {
	ToggleAnimation(ctx context.Context) error
	LiftOff(ctx context.Context) error
	ToggleMarker() bool
	ToggleBuildings() bool
	TogglePerspective()
}

// State provides the data served to viewers.
type State interface {
	Snapshot() surface.Snapshot
	Route() route.Route
}

// Server streams the map state to remote viewers and accepts their commands.
type Server struct {
	app    *fiber.App
	bus    *eventbus.Bus
	ctrl   Controller
	state  State
	logger *logger.Logger
	ctx    context.Context
}

// New returns a Server with all routes registered.
func New(log *logger.Logger, bus *eventbus.Bus, ctrl Controller, state State) *Server {
	server := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "birdseye",
			DisableStartupMessage: true,
		}),
		bus:    bus,
		ctrl:   ctrl,
		state:  state,
		logger: log,
		ctx:    context.Background(),
	}
	server.routes()
	return server
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Serve listens on the given address until the context is cancelled. Commands received from
// viewers run with this context.
func (s *Server) Serve(ctx context.Context, addr string) error {
	s.ctx = ctx
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.app.Listen(addr)
	}()
	s.logger.Info("stream server listening", slog.String("address", addr))

	select {
	case err := <-errChan:
		return fmt.Errorf("stream server failed: %w", err)
	case <-ctx.Done():
		if err := s.app.ShutdownWithTimeout(5 * time.Second); err != nil {
			return fmt.Errorf("failed to shut down stream server: %w", err)
		}
		return nil
	}
}

func (s *Server) routes() {
	s.app.Use(metrics.Middleware())
	s.app.Get("/metrics", metrics.Handler())
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.app.Get("/state", s.handleState)
	s.app.Get("/route", s.handleRoute)

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws", websocket.New(s.handleWebSocket))
}

func (s *Server) handleState(c *fiber.Ctx) error {
	return c.JSON(s.state.Snapshot())
}

func (s *Server) handleRoute(c *fiber.Ctx) error {
	snap := s.state.Snapshot()
	data, err := s.state.Route().ToGeoJSON(map[string]any{
		"stroke":       snap.Polyline.CSS,
		"stroke-width": snap.Polyline.Width,
	})
	if err != nil {
		s.logger.Error("failed to render route", logger.Err(err))
		return fiber.ErrInternalServerError
	}
	c.Set(fiber.HeaderContentType, "application/geo+json")
	return c.Send(data)
}

// Dispatch executes a single viewer action and returns the reply sent back to the viewer.
func (s *Server) Dispatch(ctx context.Context, action string) Reply {
	reply := Reply{Action: action, Status: "ok"}
	var err error
	switch action {
	case ActionToggleAnimation:
		err = s.ctrl.ToggleAnimation(ctx)
	case ActionLiftOff:
		err = s.ctrl.LiftOff(ctx)
	case ActionToggleMarker:
		reply.Enabled = boolPtr(s.ctrl.ToggleMarker())
	case ActionToggleBuildings:
		reply.Enabled = boolPtr(s.ctrl.ToggleBuildings())
	case ActionTogglePerspective:
		s.ctrl.TogglePerspective()
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if err != nil {
		return Reply{Action: action, Error: err.Error()}
	}
	return reply
}

// ErrUnknownAction is returned for viewer commands that are not supported.
var ErrUnknownAction = errors.New("unknown action")

func boolPtr(b bool) *bool {
	return &b
}
