// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package stream

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/wneessen/birdseye/internal/logger"
	"github.com/wneessen/birdseye/internal/metrics"
)

// Actions accepted from viewers.
const (
	ActionToggleAnimation   = "toggle_animation"
	ActionToggleMarker      = "toggle_marker"
	ActionToggleBuildings   = "toggle_buildings"
	ActionTogglePerspective = "toggle_perspective"
	ActionLiftOff           = "lift_off"
)

// Command is sent by viewers.
type Command struct {
	Action string `json:"action"`
}

// Reply answers a viewer command.
type Reply struct {
	Action  string `json:"action"`
	Status  string `json:"status,omitempty"`
	Enabled *bool  `json:"enabled,omitempty"`
	Error   string `json:"error,omitempty"`
}

// handleWebSocket pushes every bus event to the viewer and executes the viewer's commands.
func (s *Server) handleWebSocket(c *websocket.Conn) {
	defer func() { _ = c.Close() }()

	remoteAddr := c.RemoteAddr().String()
	s.logger.Debug("viewer connected", slog.String("remote", remoteAddr))
	metrics.ActiveWebSockets.Inc()
	defer metrics.ActiveWebSockets.Dec()

	var mu sync.Mutex
	writeJSON := func(v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		return c.WriteMessage(websocket.TextMessage, data)
	}

	events, unsub := s.bus.SubscribeAll(eventBuffer)
	defer unsub()

	// The conn is released to a pool once the handler returns, so the writer has to exit first.
	done, exited := make(chan struct{}), make(chan struct{})
	defer func() {
		close(done)
		<-exited
	}()
	go func() {
		defer close(exited)
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				if err := writeJSON(event); err != nil {
					s.logger.Debug("failed to push event to viewer", logger.Err(err),
						slog.String("remote", remoteAddr))
					return
				}
			case <-ticker.C:
				mu.Lock()
				err := c.WriteMessage(websocket.PingMessage, nil)
				mu.Unlock()
				if err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			break
		}

		var cmd Command
		if err = json.Unmarshal(msg, &cmd); err != nil {
			_ = writeJSON(Reply{Error: "invalid JSON"})
			continue
		}
		reply := s.Dispatch(s.ctx, cmd.Action)
		if reply.Error != "" {
			s.logger.Warn("viewer command failed", slog.String("action", cmd.Action),
				slog.String("error", reply.Error))
		}
		_ = writeJSON(reply)
	}
	s.logger.Debug("viewer disconnected", slog.String("remote", remoteAddr))
}
