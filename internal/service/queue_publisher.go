// Package queue_publisher provides functions to publish domain events to
// RabbitMQ.  Errors are logged and returned so callers can ignore failures
// without interrupting the main request flow; events fire after the database
// transaction commits and are best effort.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/internship-registration/internal/queue"
)

// PublishRegistrationCreated publishes a RegistrationCreatedEvent to the
// registration.created queue.
func PublishRegistrationCreated(ctx context.Context, event q.RegistrationCreatedEvent) error {
	return publish(ctx, q.RegistrationCreatedQueue, event)
}

// PublishPaymentVerified publishes a PaymentVerifiedEvent to the
// payment.verified queue.
func PublishPaymentVerified(ctx context.Context, event q.PaymentVerifiedEvent) error {
	return publish(ctx, q.PaymentVerifiedQueue, event)
}

// publish opens a short-lived connection, declares the durable queue
// (idempotent) and sends one persistent JSON message.  It never panics; any
// error is logged and returned for the caller to ignore.
func publish(ctx context.Context, queueName string, event any) error {
	conn, err := amqp.Dial(q.BrokerURL())
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

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
