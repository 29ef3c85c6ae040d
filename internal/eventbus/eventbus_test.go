// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package eventbus

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/wneessen/birdseye/internal/logger"
)

func testBus(t *testing.T) *Bus {
	t.Helper()
	return New(logger.NewLogger(slog.LevelDebug, io.Discard))
}

func TestBus_Subscribe(t *testing.T) {
	t.Run("subscriber receives events of its topic", func(t *testing.T) {
		bus := testBus(t)
		ch, unsub := bus.Subscribe(TopicBearing, 4)
		defer unsub()

		bus.Publish(TopicPosition, "ignored")
		bus.Publish(TopicBearing, 90.0)

		event := <-ch
		if event.Topic != TopicBearing {
			t.Errorf("expected topic %s, got %s", TopicBearing, event.Topic)
		}
		if event.Payload.(float64) != 90 {
			t.Errorf("expected payload 90, got %v", event.Payload)
		}
		if len(ch) != 0 {
			t.Errorf("expected no further events, got %d", len(ch))
		}
	})
	t.Run("last event is replayed to new subscribers", func(t *testing.T) {
		bus := testBus(t)
		bus.Publish(TopicStatus, "first")
		bus.Publish(TopicStatus, "second")

		ch, unsub := bus.Subscribe(TopicStatus, 1)
		defer unsub()
		if event := <-ch; event.Payload != "second" {
			t.Errorf("expected replayed payload second, got %v", event.Payload)
		}
	})
	t.Run("replay does not block unbuffered subscribers", func(t *testing.T) {
		bus := testBus(t)
		bus.Publish(TopicStatus, "first")
		_, unsub := bus.Subscribe(TopicStatus, 0)
		unsub()
		if bus.Dropped() != 1 {
			t.Errorf("expected 1 dropped event, got %d", bus.Dropped())
		}
	})
	t.Run("unsubscribe closes the channel and is idempotent", func(t *testing.T) {
		bus := testBus(t)
		ch, unsub := bus.Subscribe(TopicCamera, 1)
		unsub()
		unsub()
		if _, ok := <-ch; ok {
			t.Error("expected channel to be closed")
		}
		bus.Publish(TopicCamera, "after")
	})
}

func TestBus_SubscribeAll(t *testing.T) {
	t.Run("global subscriber receives all topics", func(t *testing.T) {
		bus := testBus(t)
		ch, unsub := bus.SubscribeAll(8)
		defer unsub()

		for _, topic := range Topics() {
			bus.Publish(topic, string(topic))
		}
		for _, topic := range Topics() {
			if event := <-ch; event.Topic != topic {
				t.Errorf("expected topic %s, got %s", topic, event.Topic)
			}
		}
	})
	t.Run("last events are replayed in topic order", func(t *testing.T) {
		bus := testBus(t)
		bus.Publish(TopicStatus, "status")
		bus.Publish(TopicBearing, 1.0)

		ch, unsub := bus.SubscribeAll(8)
		defer unsub()
		if event := <-ch; event.Topic != TopicBearing {
			t.Errorf("expected bearing first, got %s", event.Topic)
		}
		if event := <-ch; event.Topic != TopicStatus {
			t.Errorf("expected status second, got %s", event.Topic)
		}
	})
}

func TestBus_Publish(t *testing.T) {
	t.Run("publish never blocks on slow subscribers", func(t *testing.T) {
		bus := testBus(t)
		_, unsub := bus.Subscribe(TopicPosition, 1)
		defer unsub()
		for i := 0; i < 10; i++ {
			bus.Publish(TopicPosition, i)
		}
		if bus.Dropped() != 9 {
			t.Errorf("expected 9 dropped events, got %d", bus.Dropped())
		}
	})
	t.Run("sequence numbers increase", func(t *testing.T) {
		bus := testBus(t)
		first := bus.Publish(TopicBearing, 1.0)
		second := bus.Publish(TopicPosition, 2.0)
		if second.Seq <= first.Seq {
			t.Errorf("expected increasing sequence numbers, got %d and %d", first.Seq, second.Seq)
		}
		last, ok := bus.Last(TopicPosition)
		if !ok || last.Seq != second.Seq {
			t.Errorf("expected last event %d, got %d", second.Seq, last.Seq)
		}
		if _, ok = bus.Last(TopicCamera); ok {
			t.Error("expected no last event for unused topic")
		}
	})
	t.Run("concurrent publish and subscribe", func(t *testing.T) {
		bus := testBus(t)
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					bus.Publish(TopicBearing, float64(j))
				}
			}()
			go func() {
				defer wg.Done()
				ch, unsub := bus.SubscribeAll(16)
				for j := 0; j < 10 && len(ch) > 0; j++ {
					<-ch
				}
				unsub()
			}()
		}
		wg.Wait()
	})
}
