// Package amqp contains the RabbitMQ implementation of the notifier port.
// Assignment changes are published as JSON envelopes on a topic exchange;
// the excluded API layer consumes them to push websocket updates.
package amqp

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"github.com/example/dispatch/internal/ctxutil"
	"github.com/example/dispatch/internal/ports/secondary"
)

// Meta carries message identity alongside the payload. Actor is the
// authenticated user behind the intent, taken from the request context.
type Meta struct {
	ID            string `json:"id"`
	CorrelationID string `json:"correlation_id"`
	Actor         string `json:"actor,omitempty"`
	OccurredAt    string `json:"occurred_at"`
}

// Envelope is the wire format for published notifications.
type Envelope struct {
	Meta Meta                             `json:"meta"`
	Data secondary.AssignmentNotification `json:"data"`
}

// Notifier implements secondary.Notifier over RabbitMQ.
type Notifier struct {
	conn     *amqp091.Connection
	exchange string
	log      *slog.Logger
}

// New connects to the broker and declares the topic exchange.
func New(url, exchange string, logger *slog.Logger) (*Notifier, error) {
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
	if err := ch.ExchangeDeclare(
		exchange, "topic", true, false, false, false, nil,
	); err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return nil, err
	}

	return &Notifier{
		conn:     conn,
		exchange: exchange,
		log:      logger,
	}, nil
}

// NotifyAssignment publishes one assignment change. The routing key is
// "assignment.<kind>" so consumers can bind to the kinds they care about
// (audit binds to assignment.INTERVENTION, the UI to assignment.#).
func (n *Notifier) NotifyAssignment(ctx context.Context, notification secondary.AssignmentNotification) error {
	ch, err := n.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	envelope := Envelope{
		Meta: Meta{
			ID:            uuid.NewString(),
			CorrelationID: notification.ConversationID,
			Actor:         ctxutil.ActorFromContext(ctx),
			OccurredAt:    time.Now().UTC().Format(time.RFC3339),
		},
		Data: notification,
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	key := "assignment." + notification.Kind
	err = ch.PublishWithContext(
		ctx, n.exchange, key, false, false,
		amqp091.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp091.Persistent,
			MessageId:     envelope.Meta.ID,
			CorrelationId: envelope.Meta.CorrelationID,
			Timestamp:     time.Now(),
			Body:          body,
		},
	)
	if err == nil {
		n.log.Info("published",
			slog.String("key", key),
			slog.String("conversation", notification.ConversationID),
			slog.Uint64("seq", notification.Seq))
	}
	return err
}

// Close releases the broker connection.
func (n *Notifier) Close() error {
	return n.conn.Close()
}

// Ensure Notifier implements the interface
var _ secondary.Notifier = (*Notifier)(nil)
