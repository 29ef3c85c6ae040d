// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package recorder

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/stratoberry/go-gpsd"

	"github.com/wneessen/birdseye/internal/geo"
	"github.com/wneessen/birdseye/internal/logger"
	"github.com/wneessen/birdseye/internal/metrics"
	"github.com/wneessen/birdseye/internal/route"
)

const (
	DefaultHost        = "localhost"
	DefaultPort        = "2947"
	DefaultMinDistance = 10.0

	// truncPrecision limits recorded coordinates to roughly 1m.
	truncPrecision = 5
	retryPeriod    = time.Second * 30
)

// Fix results used as metric labels.
const (
	resultRecorded = "recorded"
	resultNoFix    = "no_fix"
	resultInvalid  = "invalid"
	resultNotMoved = "not_moved"
)

// Recorder collects gpsd position fixes into a route.
type Recorder struct {
	mu          sync.Mutex
	builder     *route.Builder
	minDistance float64
	addr        string
	logger      *logger.Logger
	onRecord    func(geo.Coordinate)
}

// New returns a Recorder for the gpsd daemon at host:port. A fix is only recorded if it lies
// at least minDistance meters away from the previously recorded one.
func New(log *logger.Logger, host, port string, minDistance float64) *Recorder {
	if host == "" {
		host = DefaultHost
	}
	if port == "" {
		port = DefaultPort
	}
	if minDistance < 0 {
		minDistance = DefaultMinDistance
	}
	return &Recorder{
		builder:     route.NewBuilder(),
		minDistance: minDistance,
		addr:        net.JoinHostPort(host, port),
		logger:      log,
	}
}

// OnRecord registers a function that is called for every recorded waypoint.
func (r *Recorder) OnRecord(fn func(geo.Coordinate)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRecord = fn
}

// Record adds a fix to the route and reports whether it was recorded. Fixes without at least
// a 2D fix, with invalid coordinates or too close to the last waypoint are ignored.
func (r *Recorder) Record(lat, lon float64, mode gpsd.Mode) bool {
	if mode < gpsd.Mode2D {
		metrics.RecorderFixes.WithLabelValues(resultNoFix).Inc()
		return false
	}
	coord := geo.Coordinate{
		Lat: geo.Truncate(lat, truncPrecision),
		Lon: geo.Truncate(lon, truncPrecision),
	}
	if !coord.Valid() {
		metrics.RecorderFixes.WithLabelValues(resultInvalid).Inc()
		return false
	}

	r.mu.Lock()
	if last, ok := r.builder.Last(); ok && !coord.HasMovedFrom(last, r.minDistance) {
		r.mu.Unlock()
		metrics.RecorderFixes.WithLabelValues(resultNotMoved).Inc()
		return false
	}
	r.builder.Append(coord)
	onRecord := r.onRecord
	r.mu.Unlock()

	metrics.RecorderFixes.WithLabelValues(resultRecorded).Inc()
	if onRecord != nil {
		onRecord(coord)
	}
	return true
}

// Len returns the number of recorded waypoints.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.builder.Len()
}

// Route builds a route from the recorded waypoints. It fails with route.ErrInvalidRoute
// until at least two waypoints are recorded.
func (r *Recorder) Route() (route.Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.builder.Build()
}

// Reset discards all recorded waypoints.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builder.Reset()
}

// Run connects to gpsd and records TPV reports until the context is cancelled. Lost
// connections are retried periodically.
func (r *Recorder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		session, err := gpsd.Dial(r.addr)
		if err != nil {
			r.logger.Warn("failed to connect to gpsd", logger.Err(err), slog.String("address", r.addr))
			if !sleepOrDone(ctx, retryPeriod) {
				return
			}
			continue
		}
		r.logger.Info("recording route from gpsd", slog.String("address", r.addr))

		// Install TPV filter: this gets called for every TPV report
		session.AddFilter("TPV", func(report interface{}) {
			tpv, ok := report.(*gpsd.TPVReport)
			if !ok {
				return
			}
			if r.Record(tpv.Lat, tpv.Lon, tpv.Mode) {
				r.logger.Debug("recorded waypoint", slog.Float64("lat", tpv.Lat), slog.Float64("lon", tpv.Lon))
			}
		})

		// Watch returns a channel that closes when the watch ends (e.g. connection lost).
		done := session.Watch()
		select {
		case <-ctx.Done():
			// go-gpsd has no Close(); the connection is torn down on exit.
			return
		case <-done:
			r.logger.Warn("gpsd connection lost", slog.String("address", r.addr))
		}

		if !sleepOrDone(ctx, retryPeriod) {
			return
		}
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
