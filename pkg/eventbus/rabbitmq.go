// Package eventbus publishes integration events to a RabbitMQ topic
// exchange with publisher confirms.
package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/metrics"
)

const publishTimeout = 5 * time.Second

// ErrNotConfirmed is returned when the broker nacks a message or the
// confirmation does not arrive in time.
var ErrNotConfirmed = errors.New("eventbus: message not confirmed by broker")

// Envelope is the wire format of every integration event.
type Envelope struct {
	EventID    string          `json:"event_id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// NewEnvelope wraps data under a fresh event id.
func NewEnvelope(eventType string, data interface{}, at time.Time) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("eventbus: marshal %s: %w", eventType, err)
	}
	return Envelope{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OccurredAt: at.UTC(),
		Data:       raw,
	}, nil
}

// Publisher sends one event. The event type doubles as the routing key.
type Publisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// RabbitMQ owns one connection and one confirm-mode channel. Publishes are
// serialized so each confirmation matches its message.
type RabbitMQ struct {
	exchange string

	mu        sync.Mutex
	conn      *amqp.Connection
	ch        *amqp.Channel
	confirms  chan amqp.Confirmation
	closeErrs chan *amqp.Error
}

// Dial connects, declares the durable topic exchange and enables confirms.
func Dial(url, exchange string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("eventbus: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("eventbus: open channel: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("eventbus: confirm mode: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("eventbus: declare exchange %s: %w", exchange, err)
	}

	r := &RabbitMQ{
		exchange:  exchange,
		conn:      conn,
		ch:        ch,
		confirms:  ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
		closeErrs: conn.NotifyClose(make(chan *amqp.Error, 1)),
	}
	logger.Info("eventbus: connected", "exchange", exchange)
	return r, nil
}

// Publish sends data wrapped in an Envelope and waits for the broker ack.
func (r *RabbitMQ) Publish(ctx context.Context, eventType string, data interface{}) (err error) {
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		metrics.BrokerPublishes.WithLabelValues(result).Inc()
	}()

	env, err := NewEnvelope(eventType, data, time.Now())
	if err != nil {
		return err
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("eventbus: marshal envelope: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	select {
	case cerr := <-r.closeErrs:
		return fmt.Errorf("eventbus: connection closed: %v", cerr)
	default:
	}

	err = r.ch.Publish(r.exchange, eventType, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    env.EventID,
		Type:         eventType,
		Timestamp:    env.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("eventbus: publish %s: %w", eventType, err)
	}

	timer := time.NewTimer(publishTimeout)
	defer timer.Stop()
	select {
	case c := <-r.confirms:
		if !c.Ack {
			return ErrNotConfirmed
		}
		logger.WithCtx(ctx).Debug("eventbus: published", "type", eventType, "event_id", env.EventID)
		return nil
	case <-timer.C:
		return ErrNotConfirmed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close shuts the channel and connection.
func (r *RabbitMQ) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ch != nil {
		r.ch.Close()
	}
	return r.conn.Close()
}
