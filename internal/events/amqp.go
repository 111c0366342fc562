package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/streadway/amqp"

	"github.com/patric-chuzhbe/userdir/internal/logger"
	"github.com/patric-chuzhbe/userdir/internal/models"
)

var errChannelClosed = errors.New("AMQP channel is not available")

// AMQPPublisher puts every event as a persistent JSON message on a durable queue.
type AMQPPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

func NewAMQPPublisher(url, queue string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", queue, err)
	}

	logger.Log.Infow("AMQP publisher connected", "queue", queue)

	return &AMQPPublisher{
		conn:    conn,
		channel: ch,
		queue:   queue,
	}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, batch []models.UserEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return errChannelClosed
	}

	for _, event := range batch {
		if err := ctx.Err(); err != nil {
			return err
		}

		body, err := encode(event)
		if err != nil {
			return err
		}

		err = p.channel.Publish(
			"",      // default exchange
			p.queue, // routing key
			false,   // mandatory
			false,   // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				Type:         string(event.Type),
				Body:         body,
				DeliveryMode: amqp.Persistent,
				Timestamp:    event.OccurredAt,
			})
		if err != nil {
			return fmt.Errorf("failed to publish %s for user %s: %w", event.Type, event.UserID, err)
		}
	}

	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
		p.channel = nil
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
		p.conn = nil
	}

	return errors.Join(errs...)
}
