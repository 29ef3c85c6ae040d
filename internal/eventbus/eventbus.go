// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package eventbus

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wneessen/birdseye/internal/logger"
)

// Topic identifies a stream of events on the bus.
type Topic string

const (
	TopicBearing  Topic = "bearing"
	TopicPosition Topic = "position"
	TopicCamera   Topic = "camera"
	TopicState    Topic = "state"
	TopicStatus   Topic = "status"
)

// Topics returns all known topics in a stable order.
func Topics() []Topic {
	return []Topic{TopicBearing, TopicPosition, TopicCamera, TopicState, TopicStatus}
}

// Event is a single message published on the bus.
type Event struct {
	Topic   Topic     `json:"topic"`
	Seq     uint64    `json:"seq"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload"`
}

// Bus fans out published events to its subscribers. Publishing never blocks: subscribers
// that cannot keep up miss events. The last event of every topic is replayed to new
// subscribers.
type Bus struct {
	mu          sync.RWMutex
	logger      *logger.Logger
	last        map[Topic]Event
	subscribers map[Topic]map[chan Event]struct{}
	globalSubs  map[chan Event]struct{}
	seq         uint64
	dropped     atomic.Uint64
}

// New initializes and returns a new Bus.
func New(log *logger.Logger) *Bus {
	return &Bus{
		logger:      log,
		last:        make(map[Topic]Event),
		subscribers: make(map[Topic]map[chan Event]struct{}),
		globalSubs:  make(map[chan Event]struct{}),
	}
}

// Subscribe adds a subscriber for events of the given topic with the given buffer size,
// returning an event channel and an unsubscribe function.
func (b *Bus) Subscribe(topic Topic, size int) (<-chan Event, func()) {
	ch := make(chan Event, size)
	b.mu.Lock()
	if _, ok := b.subscribers[topic]; !ok {
		b.subscribers[topic] = make(map[chan Event]struct{})
	}
	b.subscribers[topic][ch] = struct{}{}
	if last, ok := b.last[topic]; ok {
		b.send(ch, last)
	}
	b.mu.Unlock()
	b.logger.Debug("event bus subscription added", slog.String("topic", string(topic)))

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			b.mu.Lock()
			if subs, ok := b.subscribers[topic]; ok {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(b.subscribers, topic)
				}
			}
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, unsub
}

// SubscribeAll adds a subscriber for events of all topics.
func (b *Bus) SubscribeAll(size int) (<-chan Event, func()) {
	ch := make(chan Event, size)
	b.mu.Lock()
	b.globalSubs[ch] = struct{}{}
	for _, topic := range Topics() {
		if last, ok := b.last[topic]; ok {
			b.send(ch, last)
		}
	}
	b.mu.Unlock()
	b.logger.Debug("event bus subscription added", slog.String("topic", "*"))

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.globalSubs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, unsub
}

// Publish stores the payload as last event of the topic and broadcasts it to all
// subscribers of the topic and all global subscribers.
func (b *Bus) Publish(topic Topic, payload any) Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	event := Event{Topic: topic, Seq: b.seq, At: time.Now(), Payload: payload}
	b.last[topic] = event
	for ch := range b.subscribers[topic] {
		b.send(ch, event)
	}
	for ch := range b.globalSubs {
		b.send(ch, event)
	}
	return event
}

// Last returns the most recent event of the topic.
func (b *Bus) Last(topic Topic) (Event, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	event, ok := b.last[topic]
	return event, ok
}

// Dropped returns the number of events that could not be delivered to a subscriber.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

// send delivers the event without blocking. The caller must hold the lock.
func (b *Bus) send(ch chan Event, event Event) {
	select {
	case ch <- event:
	default:
		b.dropped.Add(1)
	}
}
