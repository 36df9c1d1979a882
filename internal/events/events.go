package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=./mocks/events_mock.go -package=mocks

import (
	"context"
	"time"

	"hostel/config"
	"hostel/infras/kafka"
	"hostel/infras/otel"
	"hostel/shared/constant"

	"github.com/rs/zerolog/log"
)

type Type string

const (
	RoomCreated   Type = "room.created"
	RoomUpdated   Type = "room.updated"
	RoomDeleted   Type = "room.deleted"
	HostelDeleted Type = "hostel.deleted"
)

// Event describes a committed change that affects hostel counters.
type Event struct {
	Type     Type      `json:"type"`
	HostelID string    `json:"hostelId"`
	RoomID   string    `json:"roomId,omitempty"`
	At       time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event)
}

// NewPublisher returns a Kafka backed publisher, or a no-op one when Kafka is disabled.
func NewPublisher(cfg *config.Config, client kafka.Client, otl otel.Otel) Publisher {
	if !cfg.Kafka.Enable || client == nil {
		log.Info().Msg("Kafka disabled, room events will not be published")

		return noopPublisher{}
	}

	return &kafkaPublisher{client: client, topic: cfg.Kafka.Topic, otel: otl}
}

type kafkaPublisher struct {
	client kafka.Client
	topic  string
	otel   otel.Otel
}

// Publish is best effort: failures are logged and never returned.
func (p *kafkaPublisher) Publish(ctx context.Context, events ...Event) {
	if len(events) == 0 {
		return
	}

	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
	defer scope.End()

	scope.SetAttribute("events.count", len(events))

	messages := make([]kafka.Message, len(events))
	for i, event := range events {
		messages[i] = kafka.Message{Key: event.HostelID, Value: event}
	}

	if err := p.client.SendMessages(ctx, p.topic, messages...); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("topic", p.topic).Msg("failed to publish hostel events")
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, ...Event) {}
