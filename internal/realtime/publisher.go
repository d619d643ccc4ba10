package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sahara-community/pulse/internal/domain"
)

var tracer = otel.Tracer("realtime")

// Relay forwards frames published on this node to the other nodes.
type Relay interface {
	Forward(ctx context.Context, topic string, frame []byte) error
}

// Publisher fans a payload out to every session subscribed to a topic.
type Publisher struct {
	registry *Registry
	relay    Relay
}

func NewPublisher(registry *Registry) *Publisher {
	return &Publisher{registry: registry}
}

// WithRelay enables cross-node forwarding.
func (p *Publisher) WithRelay(relay Relay) *Publisher {
	p.relay = relay
	return p
}

// Publish delivers payload to the current subscribers of topic.
// Delivery failures are logged and never returned; only an encoding
// failure is an error.
func (p *Publisher) Publish(ctx context.Context, topic string, payload domain.Payload) error {
	ctx, span := tracer.Start(ctx, "Realtime.Publisher.Publish")
	defer span.End()

	frame, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "encode payload")
	}

	delivered := p.DeliverLocal(ctx, topic, frame)
	span.SetAttributes(
		attribute.String("topic", topic),
		attribute.Int("delivered", delivered),
	)

	if p.relay != nil {
		if err := p.relay.Forward(ctx, topic, frame); err != nil {
			span.RecordError(err)
			slog.ErrorContext(
				ctx, "Failed to relay frame",
				slog.String("topic", topic),
				slog.String("error", err.Error()),
				slog.String("module", "publisher"),
			)
		}
	}

	return nil
}

// DeliverLocal hands an encoded frame to the sessions of this node and
// returns how many accepted it.
func (p *Publisher) DeliverLocal(ctx context.Context, topic string, frame []byte) int {
	delivered := 0
	for _, sub := range p.registry.SubscribersOf(topic) {
		if err := sub.Deliver(frame); err != nil {
			slog.DebugContext(
				ctx, "Dropped frame for session",
				slog.String("topic", topic),
				slog.String("session", sub.ID()),
				slog.String("error", err.Error()),
				slog.String("module", "publisher"),
			)
			continue
		}
		delivered++
	}
	return delivered
}
