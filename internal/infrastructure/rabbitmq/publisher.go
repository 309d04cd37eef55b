package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"eventcheckout/internal/config"
)

// Publisher sends persistent JSON messages to a durable queue over the
// default exchange. A channel is opened per publish.
type Publisher struct {
	mu     sync.Mutex
	url    string
	queue  string
	conn   *amqp.Connection
	logger *zap.Logger
}

func NewPublisher(cfg config.RabbitMQConfig, logger *zap.Logger) (*Publisher, error) {
	p := &Publisher{
		url:    cfg.URL,
		queue:  cfg.CheckoutCompletedQueue,
		logger: logger,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}

	ch, err := p.conn.Channel()
	if err != nil {
		_ = p.conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = p.conn.Close()
		return nil, fmt.Errorf("declaring queue %s: %w", p.queue, err)
	}

	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dialing rabbitmq: %w", err)
	}
	p.conn = conn
	return nil
}

func (p *Publisher) Publish(ctx context.Context, body []byte) error {
	p.mu.Lock()
	if p.conn == nil || p.conn.IsClosed() {
		if err := p.connect(); err != nil {
			p.mu.Unlock()
			return err
		}
		p.logger.Info("rabbitmq reconnected")
	}
	conn := p.conn
	p.mu.Unlock()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("opening channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("publishing to %s: %w", p.queue, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Close()
}
