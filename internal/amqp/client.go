// Package amqp publishes and consumes reminder fan-out messages over
// RabbitMQ. One durable direct exchange carries bill-created events and
// monthly digest messages on separate routing keys.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"contas/internal/core"
)

const (
	billCreatedKey = "bills.created"
	digestKey      = "reminders.digest"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	for _, key := range []string{billCreatedKey, digestKey} {
		if err := c.channel.QueueBind(c.queueName, key, c.exchangeName, false, nil); err != nil {
			return fmt.Errorf("bind queue for %s: %w", key, err)
		}
	}

	return nil
}

// PublishBillCreated announces a persisted bill. Implements
// services.EventPublisher.
func (c *Client) PublishBillCreated(ctx context.Context, b core.Bill) error {
	msg := &BillCreatedMessage{
		ID:         b.ID,
		WalletID:   b.WalletID,
		ValueCents: b.Value.Cents,
		DueDate:    b.DueDate.String(),
		Timestamp:  time.Now(),
	}
	if b.Series != nil {
		msg.SeriesID = b.Series.ID
	}
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return c.publish(ctx, billCreatedKey, body)
}

// PublishMonthlyDigest pushes a computed digest for downstream notifiers.
func (c *Client) PublishMonthlyDigest(ctx context.Context, msg *MonthlyDigestMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal digest: %w", err)
	}
	if err := c.publish(ctx, digestKey, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published monthly digest",
		"year", msg.Year,
		"month", msg.Month,
		"bills", len(msg.Bills),
		"total_cents", msg.TotalCents)
	return nil
}

func (c *Client) publish(ctx context.Context, routingKey string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

// Handlers dispatches consumed messages by routing key. Nil handlers skip
// their message type with an ack.
type Handlers struct {
	BillCreated   func(*BillCreatedMessage) error
	MonthlyDigest func(*MonthlyDigestMessage) error
}

// Consume processes queue messages until the context is cancelled. Handler
// errors nack with requeue; malformed payloads are dropped.
func (c *Client) Consume(ctx context.Context, h Handlers) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (manual ack below)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming reminder messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			c.dispatch(ctx, delivery, h)
		}
	}
}

func (c *Client) dispatch(ctx context.Context, delivery amqp091.Delivery, h Handlers) {
	handle := func() (handlerErr error, parseErr error) {
		switch delivery.RoutingKey {
		case billCreatedKey:
			if h.BillCreated == nil {
				return nil, nil
			}
			msg, err := BillCreatedMessageFromJSON(delivery.Body)
			if err != nil {
				return nil, err
			}
			return h.BillCreated(msg), nil
		case digestKey:
			if h.MonthlyDigest == nil {
				return nil, nil
			}
			msg, err := MonthlyDigestMessageFromJSON(delivery.Body)
			if err != nil {
				return nil, err
			}
			return h.MonthlyDigest(msg), nil
		default:
			return nil, fmt.Errorf("unknown routing key %q", delivery.RoutingKey)
		}
	}

	handlerErr, parseErr := handle()
	if parseErr != nil {
		// Undecodable messages would loop forever; reject without requeue.
		slog.ErrorContext(ctx, "Dropping malformed message",
			"key", delivery.RoutingKey, "error", parseErr)
		delivery.Nack(false, false)
		return
	}
	if handlerErr != nil {
		slog.ErrorContext(ctx, "Failed to handle message",
			"key", delivery.RoutingKey, "error", handlerErr)
		delivery.Nack(false, true)
		return
	}
	delivery.Ack(false)
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
