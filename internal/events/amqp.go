package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 3 * time.Second

// AMQP publishes envelopes to a durable topic exchange.
type AMQP struct {
	conn *amqp.Connection

	mu sync.Mutex
	ch *amqp.Channel

	now func() time.Time
}

// Dial connects to the broker at url and declares the events exchange.
func Dial(url string) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", Exchange, err)
	}
	return &AMQP{conn: conn, ch: ch, now: time.Now}, nil
}

func (p *AMQP) PublishOrderPlaced(ctx context.Context, ev OrderPlaced) error {
	env, err := newEnvelope(ctx, EventTypeOrderPlaced, ev.OrderID, ev, p.now())
	if err != nil {
		return fmt.Errorf("marshal %s: %w", EventTypeOrderPlaced, err)
	}
	return p.publish(ctx, OrderPlacedRoutingKey, env)
}

func (p *AMQP) PublishInvoicePaid(ctx context.Context, ev InvoicePaid) error {
	env, err := newEnvelope(ctx, EventTypeInvoicePaid, ev.OrderID, ev, p.now())
	if err != nil {
		return fmt.Errorf("marshal %s: %w", EventTypeInvoicePaid, err)
	}
	return p.publish(ctx, InvoicePaidRoutingKey, env)
}

func (p *AMQP) publish(ctx context.Context, routingKey string, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(pubCtx, Exchange, routingKey, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     env.EventID,
		CorrelationId: env.CorrelationID,
		Type:          env.EventName,
		Timestamp:     env.OccurredAt,
		Body:          body,
	})
}

func (p *AMQP) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	chErr := p.ch.Close()
	if err := p.conn.Close(); err != nil {
		return err
	}
	return chErr
}
