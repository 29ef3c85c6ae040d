// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/wneessen/birdseye/internal/logger"
)

type signalSource interface {
	Notify(c chan<- os.Signal, sig ...os.Signal)
	Stop(c chan<- os.Signal)
}

// stdLibSignalSource is the production implementation.
type stdLibSignalSource struct{}

func (stdLibSignalSource) Notify(c chan<- os.Signal, sig ...os.Signal) {
	signal.Notify(c, sig...)
}

func (stdLibSignalSource) Stop(c chan<- os.Signal) {
	signal.Stop(c)
}

// HandleSignals toggles the animation on SIGUSR1 and logs the current map state on SIGUSR2.
func (s *Service) HandleSignals(ctx context.Context, sigChan chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigChan:
			switch sig {
			case syscall.SIGUSR1:
				if err := s.ToggleAnimation(ctx); err != nil {
					s.logger.Error("failed to toggle animation", logger.Err(err))
				}
			case syscall.SIGUSR2:
				snap := s.surface.Snapshot()
				s.logger.Info("current map state", slog.String("animation", snap.Animation),
					slog.Bool("playing", snap.Playing), slog.String("camera", snap.Camera.String()),
					slog.Int("waypoints", len(snap.Polyline.Points)))
			}
		}
	}
}
