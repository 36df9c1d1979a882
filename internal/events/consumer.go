package events

import (
	"context"
	"fmt"

	"hostel/infras/kafka"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

type Reconciler interface {
	Reconcile(ctx context.Context, id string) error
}

// Consumer repairs hostel counters for every event it receives.
type Consumer struct {
	client     kafka.Client
	reconciler Reconciler
	group      string
	topic      string
}

func NewConsumer(client kafka.Client, reconciler Reconciler, group, topic string) *Consumer {
	return &Consumer{client: client, reconciler: reconciler, group: group, topic: topic}
}

func (c *Consumer) Run(ctx context.Context) error {
	log.Info().Str("topic", c.topic).Str("group", c.group).Msg("starting hostel counter reconciler")

	return c.client.Consume(ctx, c.group, c.topic, c.Handle) //nolint:wrapcheck
}

func (c *Consumer) Handle(ctx context.Context, msg kafkaGo.Message) error {
	event, err := kafka.Decode[Event](msg)
	if err != nil {
		// Undecodable payloads are skipped so they do not block the partition.
		log.Error().Err(err).Int64("offset", msg.Offset).Msg("dropping malformed hostel event")

		return nil
	}

	if event.Type == HostelDeleted || event.HostelID == "" {
		return nil
	}

	if err := c.reconciler.Reconcile(ctx, event.HostelID); err != nil {
		return fmt.Errorf("failed to reconcile hostel %s: %w", event.HostelID, err)
	}

	log.Debug().Str("type", string(event.Type)).Str("hostel", event.HostelID).Msg("hostel counters reconciled")

	return nil
}
