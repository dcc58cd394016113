package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends password-reset events to RabbitMQ. It satisfies the
// notifier contract consumed by the password-reset service, so a publish
// failure surfaces to the caller as a delivery failure.
type Publisher struct{ URL string }

func NewPublisher(url string) *Publisher { return &Publisher{URL: url} }

// SendPasswordReset publishes a persistent PasswordResetRequestedEvent.
// A fresh connection per publish keeps the publisher stateless; reset
// requests are rare enough that connection reuse buys nothing.
func (p *Publisher) SendPasswordReset(ctx context.Context, email, token string) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(passwordResetQueueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(PasswordResetRequestedEvent{
		Email:       email,
		Token:       token,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", passwordResetQueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
