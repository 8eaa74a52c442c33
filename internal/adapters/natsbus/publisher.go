// Package natsbus publishes entity-changed events on NATS.
package natsbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel/propagation"

	"ims/internal/domain"
)

// SubjectPrefix is followed by the entity kind, e.g. ims.entity.risk.
const SubjectPrefix = "ims.entity."

type Config struct {
	URL            string
	Name           string
	ReconnectWait  time.Duration
	MaxReconnects  int
	ConnectTimeout time.Duration
}

type Publisher struct {
	conn       *nats.Conn
	propagator propagation.TextMapPropagator
}

func Connect(cfg Config) (*Publisher, error) {
	if cfg.Name == "" {
		cfg.Name = "ims"
	}
	if cfg.ReconnectWait == 0 {
		cfg.ReconnectWait = 2 * time.Second
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.Timeout(cfg.ConnectTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Publisher{conn: conn, propagator: propagation.TraceContext{}}, nil
}

// Subject returns the subject an event is published on.
func Subject(ev domain.EntityChanged) string {
	return SubjectPrefix + string(ev.Kind)
}

// Message builds the NATS message for ev, carrying the trace context of ctx
// in its headers.
func (p *Publisher) Message(ctx context.Context, ev domain.EntityChanged) (*nats.Msg, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	hdr := nats.Header{}
	p.propagator.Inject(ctx, propagation.HeaderCarrier(hdr))
	return &nats.Msg{Subject: Subject(ev), Data: data, Header: hdr}, nil
}

func (p *Publisher) Publish(ctx context.Context, ev domain.EntityChanged) error {
	msg, err := p.Message(ctx, ev)
	if err != nil {
		return err
	}
	return p.conn.PublishMsg(msg)
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() {
	if p.conn == nil {
		return
	}
	_ = p.conn.Drain()
}

// Noop discards every event; used when no NATS URL is configured.
type Noop struct{}

func (Noop) Publish(context.Context, domain.EntityChanged) error { return nil }
