package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"insider-features/contracts/events"
)

type Kafka struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

func NewKafka(client *kgo.Client, topic string, logger *slog.Logger) *Kafka {
	return &Kafka{client: client, topic: topic, logger: logger}
}

func (k *Kafka) Name() string { return "kafka" }

func (k *Kafka) Publish(ctx context.Context, b Batch) error {
	envs, err := b.Envelopes()
	if err != nil {
		return err
	}
	records := make([]*kgo.Record, 0, len(envs))
	for _, env := range envs {
		rec, err := kafkaRecord(k.topic, env)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}

	if err := k.client.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("Kafka publish error: %w", err)
	}
	k.logger.Info("Published feature rows", "topic", k.topic, "rows", len(records))
	return nil
}

// kafkaRecord keys by user so each user's days land on one partition.
func kafkaRecord(topic string, env events.Envelope) (*kgo.Record, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("Kafka publish: marshal error: %w", err)
	}
	return &kgo.Record{
		Topic:     topic,
		Key:       []byte(env.Key()),
		Value:     data,
		Timestamp: env.Timestamp,
		Headers: []kgo.RecordHeader{
			{Key: "domain", Value: []byte(env.Domain)},
			{Key: "run_id", Value: []byte(env.Correlation[events.CorrelationRunID])},
		},
	}, nil
}

func (k *Kafka) Close() error {
	k.client.Close()
	return nil
}
