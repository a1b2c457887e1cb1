package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/homeledger/homeledger-backend/internal/usecase/ledger"
)

const publishTimeout = 5 * time.Second

// Publisher broadcasts committed ledger mutations to an AMQP exchange so
// read-side consumers can refresh their live views. It implements
// ledger.Notifier; delivery is best-effort and failures are only logged.
type Publisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

// NewPublisher connects to the broker and declares a durable direct
// exchange. Events are routed by the collection they touched.
func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// MutationCommitted publishes one change event, routed by collection
func (p *Publisher) MutationCommitted(ctx context.Context, event ledger.ChangeEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).Error("failed to marshal change event")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,       // exchange
		event.Collection, // routing key
		false,            // mandatory
		false,            // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"collection": event.Collection,
			"action":     event.Action,
			"id":         event.ID,
		}).Error("failed to publish change event")
		return
	}

	logrus.WithFields(logrus.Fields{
		"collection": event.Collection,
		"action":     event.Action,
		"id":         event.ID,
	}).Debug("published change event")
}

// Close releases the channel and connection
func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
