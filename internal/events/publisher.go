package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

const routingKeyStatusChanged = "claim.status.changed"

// ClaimStatusChanged is the message published on every successful claim
// status transition, for external consumers (analytics, CRM sync).
type ClaimStatusChanged struct {
	MessageID      string    `json:"message_id"`
	ClaimID        uint      `json:"claim_id"`
	UserID         uint      `json:"user_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishStatusChanged(ctx context.Context, evt ClaimStatusChanged) error
	Close() error
}

type amqpPublisher struct {
	conn     *amqp091.Connection
	exchange string
}

// NewAMQPPublisher connects to the broker and declares a durable topic
// exchange for claim events.
func NewAMQPPublisher(url, exchange string) (Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, err
	}
	return &amqpPublisher{conn: conn, exchange: exchange}, nil
}

func (p *amqpPublisher) PublishStatusChanged(ctx context.Context, evt ClaimStatusChanged) error {
	if evt.MessageID == "" {
		evt.MessageID = uuid.NewString()
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	return ch.PublishWithContext(ctx, p.exchange, routingKeyStatusChanged, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    evt.MessageID,
		Timestamp:    evt.OccurredAt,
		Body:         body,
	})
}

func (p *amqpPublisher) Close() error {
	return p.conn.Close()
}
