package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/savings/internal/core/events"
	"github.com/rabbitmq/amqp091-go"
)

const (
	exchangeKind   = "topic"
	publishTimeout = 5 * time.Second
)

// Channel is the subset of *amqp091.Channel used here.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp091.Table) (<-chan amqp091.Delivery, error)
	Close() error
}

type Subscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

// Publisher forwards ledger events to an AMQP topic exchange, using the
// event type as routing key.
type Publisher struct {
	conn     *amqp091.Connection
	channel  Channel
	exchange string
	logger   *slog.Logger
	now      func() time.Time
}

// Dial connects to the broker and declares the exchange.
func Dial(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p, err := NewPublisher(channel, exchange, logger)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func NewPublisher(channel Channel, exchange string, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := declareExchange(channel, exchange); err != nil {
		return nil, err
	}
	return &Publisher{
		channel:  channel,
		exchange: exchange,
		logger:   logger,
		now:      time.Now,
	}, nil
}

func declareExchange(channel Channel, exchange string) error {
	err := channel.ExchangeDeclare(
		exchange,     // name
		exchangeKind, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	return nil
}

func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	body, err := NewLedgerMessage(event).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,        // exchange
		event.EventType(), // routing key
		false,             // mandatory
		false,             // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    event.EventID(),
			Timestamp:    p.now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	p.logger.InfoContext(ctx, "published ledger event",
		"event_id", event.EventID(),
		"event_type", event.EventType(),
		"exchange", p.exchange)
	return nil
}

// HandleLedgerEvent publishes the event and swallows broker failures so a
// ledger mutation never fails because the broker is unreachable.
func (p *Publisher) HandleLedgerEvent(ctx context.Context, event events.Event) error {
	if err := p.Publish(ctx, event); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish ledger event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"error", err)
	}
	return nil
}

func (p *Publisher) RegisterEventHandlers(bus Subscriber) {
	for _, eventType := range events.LedgerEventTypes {
		bus.Subscribe(eventType, p.HandleLedgerEvent)
	}
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
