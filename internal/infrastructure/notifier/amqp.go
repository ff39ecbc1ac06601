package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/bistro/pos-system/internal/core/ports"
)

const DefaultExchange = "pos.orders"

// Publisher publishes order notifications to a durable fanout exchange so
// kitchen displays and other consumers can bind their own queues.
type Publisher struct {
	exchange string
	conn     *amqp.Connection
	log      zerolog.Logger

	mu      sync.Mutex
	channel *amqp.Channel
}

// NewPublisher dials url and declares the exchange.
func NewPublisher(url, exchange string, log zerolog.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	p := &Publisher{exchange: exchange, conn: conn, log: log}
	if _, err := p.openChannel(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return p, nil
}

func (p *Publisher) Name() string { return "amqp" }

func (p *Publisher) openChannel() (*amqp.Channel, error) {
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		p.exchange,
		amqp.ExchangeFanout,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("amqp exchange declare: %w", err)
	}
	p.channel = ch
	return ch, nil
}

// channelFor returns the open channel, reopening it after a channel-level error.
func (p *Publisher) channelFor() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil && !p.channel.IsClosed() {
		return p.channel, nil
	}
	if p.conn.IsClosed() {
		return nil, fmt.Errorf("amqp connection closed")
	}
	return p.openChannel()
}

func (p *Publisher) Notify(ctx context.Context, n ports.OrderNotification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	ch, err := p.channelFor()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx,
		p.exchange,
		"", // fanout ignores the routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    n.SaleID,
			Type:         n.Event,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	p.log.Debug().Str("order_number", n.OrderNumber).Str("exchange", p.exchange).Msg("order published")
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		_ = p.channel.Close()
	}
	return p.conn.Close()
}
