// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const namespace = "birdseye"

// Timeline lifecycle events used as label values of Timelines.
const (
	EventStarted   = "started"
	EventCompleted = "completed"
	EventCancelled = "cancelled"
	EventRepeated  = "repeated"
)

var (
	// Animation metrics
	Timelines = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "animation",
		Name:      "timelines_total",
		Help:      "Total timeline lifecycle events by event type",
	}, []string{"event"})

	SegmentsPlayed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "animation",
		Name:      "segments_played_total",
		Help:      "Total route segments entered during playback",
	})

	TimelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "animation",
		Name:      "timeline_planned_duration_seconds",
		Help:      "Planned duration of started timelines",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	})

	FrameTicks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "frame",
		Name:      "ticks_total",
		Help:      "Total frame ticks delivered to running playables",
	})

	// Outer surface metrics
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	NATSPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "nats",
		Name:      "published_total",
		Help:      "Total events forwarded to NATS by topic",
	}, []string{"topic"})

	RecorderFixes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "gpsd",
		Name:      "fixes_total",
		Help:      "Total gpsd fixes by result",
	}, []string{"result"})

	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})
)

// unmatchedPath labels requests that hit no route. Raw paths would create a series per URL.
const unmatchedPath = "unmatched"

// ObserveTimeline records the start of a timeline with the given planned duration.
func ObserveTimeline(planned time.Duration) {
	Timelines.WithLabelValues(EventStarted).Inc()
	TimelineDuration.Observe(planned.Seconds())
}

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		code := c.Response().StatusCode()
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}
		path := c.Route().Path
		if path == "" || code == fiber.StatusNotFound {
			path = unmatchedPath
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(code)).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
