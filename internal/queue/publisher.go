package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/lernpfad/internal/domain"
)

// Publisher forwards domain events onto the event queue
type Publisher struct {
	conn    *Connection
	logger  *slog.Logger
	timeout time.Duration
}

// NewPublisher creates a queue publisher
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:    conn,
		logger:  logger,
		timeout: 5 * time.Second,
	}
}

// Attach subscribes the publisher to a dispatcher so every published
// domain event is forwarded to the broker. Forwarding is best-effort:
// a broker outage is logged, never propagated back into the study flow.
func (p *Publisher) Attach(dispatcher *domain.EventDispatcher) {
	dispatcher.SubscribeAll(func(event domain.Event) {
		if err := p.Publish(context.Background(), event); err != nil {
			p.logger.Error("failed to publish event",
				"type", event.EventType(),
				"event_id", event.EventID(),
				"error", err)
		}
	})
}

// Publish sends one domain event to the event queue
func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	envelope := Envelope{
		ID:         event.EventID(),
		Type:       event.EventType(),
		OccurredAt: event.OccurredAt(),
		Payload:    payload,
	}
	if err := p.conn.PublishJSON(ctx, EventQueueName, envelope); err != nil {
		return err
	}

	p.logger.Debug("published event",
		"type", event.EventType(),
		"event_id", event.EventID())
	return nil
}
