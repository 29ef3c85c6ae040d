// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveTimeline(t *testing.T) {
	before := testutil.ToFloat64(Timelines.WithLabelValues(EventStarted))
	ObserveTimeline(time.Second * 3)
	after := testutil.ToFloat64(Timelines.WithLabelValues(EventStarted))
	if after-before != 1 {
		t.Errorf("expected started counter to increase by 1, got %f", after-before)
	}
}

func TestHandler(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/metrics", Handler())

	FrameTicks.Inc()
	if _, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil)); err != nil {
		t.Fatalf("failed to request metrics: %s", err)
	}
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	if err != nil {
		t.Fatalf("failed to request metrics: %s", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %s", err)
	}
	for _, name := range []string{"birdseye_frame_ticks_total", "birdseye_http_requests_total"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("expected metric %s in response", name)
		}
	}
}

func TestMiddleware(t *testing.T) {
	t.Run("unmatched paths share a single label", func(t *testing.T) {
		app := fiber.New()
		app.Use(Middleware())
		app.Get("/state", func(c *fiber.Ctx) error { return c.SendString("ok") })

		counter := httpRequestsTotal.WithLabelValues(fiber.MethodGet, unmatchedPath, "404")
		before := testutil.ToFloat64(counter)
		seriesBefore := testutil.CollectAndCount(httpRequestsTotal)
		for _, path := range []string{"/does-not-exist", "/another/missing/path"} {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
			if err != nil {
				t.Fatalf("failed to request %s: %s", path, err)
			}
			_ = resp.Body.Close()
			if resp.StatusCode != fiber.StatusNotFound {
				t.Errorf("expected status 404 for %s, got %d", path, resp.StatusCode)
			}
		}
		if got := testutil.ToFloat64(counter) - before; got != 2 {
			t.Errorf("expected unmatched counter to increase by 2, got %f", got)
		}
		if series := testutil.CollectAndCount(httpRequestsTotal); series-seriesBefore > 1 {
			t.Errorf("expected at most one new series, got %d", series-seriesBefore)
		}
	})
	t.Run("matched routes use the route pattern", func(t *testing.T) {
		app := fiber.New()
		app.Use(Middleware())
		app.Get("/state", func(c *fiber.Ctx) error { return c.SendString("ok") })

		counter := httpRequestsTotal.WithLabelValues(fiber.MethodGet, "/state", "200")
		before := testutil.ToFloat64(counter)
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/state", nil))
		if err != nil {
			t.Fatalf("failed to request state: %s", err)
		}
		_ = resp.Body.Close()
		if got := testutil.ToFloat64(counter) - before; got != 1 {
			t.Errorf("expected state counter to increase by 1, got %f", got)
		}
	})
}
