package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/observability"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	nc "github.com/nats-io/nats.go"
)

const (
	// MetadataCorrelationID carries the originating update's correlation id.
	MetadataCorrelationID = "correlation_id"
	// MetadataTopic repeats the topic for consumers that fan in several topics.
	MetadataTopic = "topic"
)

// EventBus publishes and subscribes to domain events.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

type natsBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
}

// streamTopic maps an event topic onto its JetStream stream and subject.
// Stream names may not contain dots.
func streamTopic(topic string) string {
	return strings.ReplaceAll(topic, ".", "_")
}

func (b *natsBus) Publish(topic string, messages ...*message.Message) error {
	return b.publisher.Publish(streamTopic(topic), messages...)
}

func (b *natsBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.subscriber.Subscribe(ctx, streamTopic(topic))
}

func (b *natsBus) Close() error {
	return errors.Join(b.publisher.Close(), b.subscriber.Close())
}

// NewEventBus connects to NATS JetStream when natsURL is set. Without a URL
// the bus is an in-process go channel, which is enough for a single replica.
func NewEventBus(ctx context.Context, natsURL string, logger *slog.Logger) (EventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	if natsURL == "" {
		logger.InfoContext(ctx, "Using in-process event bus")
		return gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, wmLogger), nil
	}

	options := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
	}
	marshaler := &nats.NATSMarshaler{}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:         natsURL,
			NatsOptions: options,
			Marshaler:   marshaler,
			JetStream: nats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: true,
			},
			SubjectCalculator: nats.DefaultSubjectCalculator,
		},
		wmLogger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:              natsURL,
			QueueGroupPrefix: "game-manager-bot",
			CloseTimeout:     30 * time.Second,
			AckWaitTimeout:   30 * time.Second,
			NatsOptions:      options,
			Unmarshaler:      marshaler,
			JetStream: nats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: true,
				DurablePrefix: "game-manager-bot",
				SubscribeOptions: []nc.SubOpt{
					nc.DeliverAll(),
					nc.AckExplicit(),
				},
			},
			SubjectCalculator: nats.DefaultSubjectCalculator,
		},
		wmLogger,
	)
	if err != nil {
		publisher.Close()
		return nil, fmt.Errorf("failed to create NATS subscriber: %w", err)
	}

	logger.InfoContext(ctx, "Connected event bus to NATS", attr.String("nats_url", natsURL))
	return &natsBus{publisher: publisher, subscriber: subscriber}, nil
}

// NewMessage encodes payload as JSON and stamps the correlation id from ctx.
func NewMessage(ctx context.Context, topic string, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}
	msg := message.NewMessage(uuid.NewString(), body)
	msg.Metadata.Set(MetadataTopic, topic)
	if id := observability.CorrelationID(ctx); id != "" {
		msg.Metadata.Set(MetadataCorrelationID, id)
	}
	msg.SetContext(ctx)
	return msg, nil
}

// Publish encodes and publishes a single event.
func Publish(ctx context.Context, pub message.Publisher, topic string, payload any) error {
	if pub == nil {
		return nil
	}
	msg, err := NewMessage(ctx, topic, payload)
	if err != nil {
		return err
	}
	if err := pub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}
	return nil
}

// Decode unmarshals a message body into out.
func Decode(msg *message.Message, out any) error {
	if err := json.Unmarshal(msg.Payload, out); err != nil {
		return fmt.Errorf("failed to decode message %s: %w", msg.UUID, err)
	}
	return nil
}

// ContextFor rebuilds a handler context carrying the message correlation id.
func ContextFor(msg *message.Message) context.Context {
	return observability.WithCorrelationID(msg.Context(), msg.Metadata.Get(MetadataCorrelationID))
}
