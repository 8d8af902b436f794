package repository

import (
	"context"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	pkgkafka "MarketLens/pkg/kafka"
	applogger "MarketLens/pkg/logger"
)

// KafkaSnapshotPublisher publishes classified market views to Kafka.
// Keyed by symbol so all snapshots for one symbol land on one partition.
type KafkaSnapshotPublisher struct {
	producer *pkgkafka.Producer
	topic    string
	l        *applogger.Logger
}

func NewKafkaSnapshotPublisher(producer *pkgkafka.Producer, topic string, l *applogger.Logger) *KafkaSnapshotPublisher {
	return &KafkaSnapshotPublisher{producer: producer, topic: topic, l: l}
}

func (p *KafkaSnapshotPublisher) PublishView(ctx context.Context, symbol string, view *models.MultiTimeframeView) error {
	if view == nil {
		return nil
	}
	payload := struct {
		Symbol string `json:"symbol"`
		*models.MultiTimeframeView
	}{Symbol: symbol, MultiTimeframeView: view}

	if err := p.producer.Publish(ctx, p.topic, []byte(symbol), payload); err != nil {
		if p.l != nil {
			p.l.Warn("snapshot publish failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return err
	}
	return nil
}

func (p *KafkaSnapshotPublisher) Close() error {
	return p.producer.Close()
}

// NoopSnapshotPublisher is used when Kafka is disabled.
type NoopSnapshotPublisher struct{}

func (NoopSnapshotPublisher) PublishView(context.Context, string, *models.MultiTimeframeView) error {
	return nil
}

func (NoopSnapshotPublisher) Close() error { return nil }

var (
	_ domrepo.SnapshotPublisher = (*KafkaSnapshotPublisher)(nil)
	_ domrepo.SnapshotPublisher = NoopSnapshotPublisher{}
)
