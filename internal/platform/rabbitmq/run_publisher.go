package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"devbench/internal/app"
)

// RunPublisher hands recorded runs to the dispatch queue consumed by
// the external model-execution service.
type RunPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewRunPublisher(conn *amqp.Connection, queueName string) *RunPublisher {
	return &RunPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *RunPublisher) PublishRunDispatch(ctx context.Context, event app.RunDispatchEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal run dispatch event failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish run dispatch failed: %w", err)
	}
	return nil
}
