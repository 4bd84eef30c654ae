package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"tableside/internal/config"
	"tableside/internal/logger"
)

// Publisher dispatches events to a RabbitMQ fanout exchange
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	url      string
	exchange string
	logger   *logger.Logger
}

// NewPublisher connects to RabbitMQ and declares the fanout exchange
func NewPublisher(cfg *config.Config, log *logger.Logger) (*Publisher, error) {
	p := &Publisher{
		url:      cfg.RabbitMQURL(),
		exchange: cfg.Events.Exchange,
		logger:   log,
	}

	if err := p.connect(); err != nil {
		return nil, fmt.Errorf("failed to establish initial connection: %w", err)
	}
	return p, nil
}

// connect establishes the connection with retry and declares topology
func (p *Publisher) connect() error {
	maxRetries := 5
	var err error

	for i := 0; i < maxRetries; i++ {
		p.conn, err = amqp091.Dial(p.url)
		if err == nil {
			p.channel, err = p.conn.Channel()
			if err == nil {
				if setupErr := p.channel.ExchangeDeclare(
					p.exchange, // name
					"fanout",   // kind
					true,       // durable
					false,      // auto-delete
					false,      // internal
					false,      // no-wait
					nil,        // args
				); setupErr != nil {
					p.close()
					err = setupErr
				} else {
					return nil
				}
			} else {
				p.conn.Close()
			}
		}

		if i < maxRetries-1 {
			waitTime := time.Duration(i+1) * 2 * time.Second
			p.logger.Error("rabbitmq_connection_failed",
				fmt.Sprintf("Failed to connect to RabbitMQ, retrying in %v", waitTime),
				"startup", err, nil)
			time.Sleep(waitTime)
		}
	}

	return fmt.Errorf("failed to connect after %d attempts: %w", maxRetries, err)
}

// Dispatch publishes the event as JSON to the fanout exchange
func (p *Publisher) Dispatch(ctx context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		if err := p.connect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	publishing := amqp091.Publishing{
		ContentType: "application/json",
		Type:        event.Type(),
		Body:        body,
		Timestamp:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.channel.PublishWithContext(
		ctx,
		p.exchange, // exchange
		"",         // routing key (ignored by fanout)
		false,      // mandatory
		false,      // immediate
		publishing,
	); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Close shuts down the channel and connection
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.close()
}

func (p *Publisher) close() {
	if p.channel != nil {
		p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
}
