package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/savings/internal/core/events"
	"github.com/rabbitmq/amqp091-go"
)

type MessageHandler func(ctx context.Context, msg *LedgerMessage) error

// Consumer reads ledger messages from a queue bound to every ledger routing
// key on the exchange.
type Consumer struct {
	conn     *amqp091.Connection
	channel  Channel
	exchange string
	queue    string
	logger   *slog.Logger
}

func DialConsumer(url, exchange, queue string, logger *slog.Logger) (*Consumer, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	c, err := NewConsumer(channel, exchange, queue, logger)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func NewConsumer(channel Channel, exchange, queue string, logger *slog.Logger) (*Consumer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := declareExchange(channel, exchange); err != nil {
		return nil, err
	}

	_, err := channel.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	for _, key := range events.LedgerEventTypes {
		if err := channel.QueueBind(queue, key, exchange, false, nil); err != nil {
			return nil, fmt.Errorf("bind queue to %s: %w", key, err)
		}
	}

	return &Consumer{
		channel:  channel,
		exchange: exchange,
		queue:    queue,
		logger:   logger,
	}, nil
}

// Run delivers messages to handler until ctx is cancelled. Undecodable
// messages are dropped and handler failures are requeued.
func (c *Consumer) Run(ctx context.Context, handler MessageHandler) error {
	deliveries, err := c.channel.Consume(
		c.queue, // queue
		"",      // consumer
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.logger.InfoContext(ctx, "consuming ledger events", "queue", c.queue, "exchange", c.exchange)

	for {
		select {
		case <-ctx.Done():
			c.logger.InfoContext(ctx, "stopping ledger consumer", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.handle(ctx, delivery, handler)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, delivery amqp091.Delivery, handler MessageHandler) {
	msg, err := LedgerMessageFromJSON(delivery.Body)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to decode ledger message", "error", err)
		delivery.Nack(false, false)
		return
	}

	if err := handler(ctx, msg); err != nil {
		c.logger.ErrorContext(ctx, "failed to handle ledger message",
			"event_id", msg.EventID,
			"event_type", msg.EventType,
			"error", err)
		delivery.Nack(false, true)
		return
	}
	delivery.Ack(false)
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
