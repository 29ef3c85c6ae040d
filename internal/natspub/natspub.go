// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package natspub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/wneessen/birdseye/internal/eventbus"
	"github.com/wneessen/birdseye/internal/logger"
	"github.com/wneessen/birdseye/internal/metrics"
)

const (
	DefaultPrefix = "birdseye"
	eventBuffer   = 256
)

// Conn is the part of a NATS connection the publisher needs. It is satisfied by *nats.Conn.
type Conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// Publisher forwards events of the bus to NATS subjects named <prefix>.<topic>.
type Publisher struct {
	conn   Conn
	bus    *eventbus.Bus
	prefix string
	logger *logger.Logger
}

// Connect opens a NATS connection that keeps reconnecting in the background.
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("birdseye"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}

// New returns a Publisher for the given connection. An empty prefix uses DefaultPrefix.
func New(log *logger.Logger, bus *eventbus.Bus, conn Conn, prefix string) *Publisher {
	prefix = strings.TrimSuffix(prefix, ".")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Publisher{conn: conn, bus: bus, prefix: prefix, logger: log}
}

// Subject returns the NATS subject for a topic.
func (p *Publisher) Subject(topic eventbus.Topic) string {
	return p.prefix + "." + string(topic)
}

// Run forwards events until the context is cancelled, then drains the connection.
func (p *Publisher) Run(ctx context.Context) {
	events, unsub := p.bus.SubscribeAll(eventBuffer)
	defer unsub()
	defer func() {
		if err := p.conn.Drain(); err != nil {
			p.logger.Warn("failed to drain NATS connection", logger.Err(err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			p.forward(event)
		}
	}
}

func (p *Publisher) forward(event eventbus.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to encode event", logger.Err(err), slog.String("topic", string(event.Topic)))
		return
	}
	if err = p.conn.Publish(p.Subject(event.Topic), data); err != nil {
		p.logger.Warn("failed to publish event to NATS", logger.Err(err),
			slog.String("topic", string(event.Topic)))
		return
	}
	metrics.NATSPublished.WithLabelValues(string(event.Topic)).Inc()
}
