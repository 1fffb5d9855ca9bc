package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange is the topic exchange events are published to. The message kind is the routing key.
const Exchange = "rechargex.events"

// Channel is the subset of *amqp.Channel the notifier needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPNotifier publishes notifications as JSON to RabbitMQ.
type AMQPNotifier struct {
	mu       sync.Mutex
	channel  Channel
	exchange string
	logger   *slog.Logger
	closer   func()
}

// NewAMQPNotifier declares the exchange on ch and returns a notifier publishing to it.
func NewAMQPNotifier(ch Channel, logger *slog.Logger) (*AMQPNotifier, error) {
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", Exchange, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AMQPNotifier{channel: ch, exchange: Exchange, logger: logger}, nil
}

// DialAMQP connects to amqpURL and returns a notifier that owns the connection.
func DialAMQP(amqpURL string, logger *slog.Logger) (*AMQPNotifier, error) {
	clean, err := cleanAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}
	conn, err := amqp.DialConfig(clean, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	n, err := NewAMQPNotifier(ch, logger)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	n.closer = func() {
		ch.Close()
		conn.Close()
	}
	return n, nil
}

// Send publishes message with its kind as routing key.
func (n *AMQPNotifier) Send(ctx context.Context, message Message) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	err = n.channel.PublishWithContext(ctx, n.exchange, message.Kind, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now().UTC(),
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", message.Kind, err)
	}
	n.logger.Debug("notification published", "exchange", n.exchange, "routing_key", message.Kind)
	return nil
}

// Close releases the connection opened by DialAMQP.
func (n *AMQPNotifier) Close() {
	if n != nil && n.closer != nil {
		n.closer()
	}
}

func cleanAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", fmt.Errorf("parse AMQP_URL: %w", err)
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP_URL scheme must be amqp:// or amqps://")
	}
	return clean, nil
}
