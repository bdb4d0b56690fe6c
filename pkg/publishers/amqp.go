package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// amqpPublisher implements the Publisher interface for RabbitMQ exchanges.
type amqpPublisher struct {
	id         string
	exchange   string
	routingKey string
	conn       *amqp.Connection
	ch         amqpChannel
	log        Logger
}

func newAMQPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.AMQP == nil {
		return nil, fmt.Errorf("publisher %q missing amqp configuration", cfg.ID)
	}

	conn, err := amqp.Dial(cfg.AMQP.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to amqp broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	return &amqpPublisher{
		id:         cfg.ID,
		exchange:   cfg.AMQP.Exchange,
		routingKey: cfg.AMQP.RoutingKey,
		conn:       conn,
		ch:         ch,
		log:        ensureLogger(log),
	}, nil
}

func (a *amqpPublisher) ID() string   { return a.id }
func (a *amqpPublisher) Type() string { return TypeAMQP }

func (a *amqpPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = a.ch.PublishWithContext(ctx, a.exchange, a.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    evt.CollectedAt,
		Headers:      amqp.Table{attrFeedID: evt.FeedID},
		Body:         payload,
	})
	if err != nil {
		a.log.ErrorObj("amqp publisher send failed", "publisher_amqp_error", deliveryFields(a.id, evt, map[string]any{
			"error": err.Error(),
		}))
		return fmt.Errorf("publish to amqp: %w", err)
	}
	a.log.DebugObj("amqp publisher delivered event", "publisher_amqp_delivery", deliveryFields(a.id, evt, nil))
	return nil
}

// Close shuts the channel and the broker connection.
func (a *amqpPublisher) Close() error {
	var errs []error
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
