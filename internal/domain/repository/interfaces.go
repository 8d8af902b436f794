package repository

import (
	"context"
	"errors"
	"time"

	"MarketLens/internal/domain/models"
)

// ErrSeriesNotFound reports that no series has been persisted yet for a
// (symbol, interval) pair. It is a normal first-access outcome, not a failure.
var ErrSeriesNotFound = errors.New("series not found")

// SeriesStore persists one candle series per (symbol, interval) pair.
// Save overwrites the whole series, sorted ascending and deduplicated.
type SeriesStore interface {
	Load(ctx context.Context, symbol string, iv Interval) ([]models.Candle, error)
	Save(ctx context.Context, symbol string, iv Interval, candles []models.Candle) error
}

// CandleProvider fetches raw candle ranges from a remote data source.
// On a request failure it returns whatever was accumulated so far together
// with a *models.FetchError; there are no retries.
type CandleProvider interface {
	FetchRange(ctx context.Context, symbol string, iv Interval, start, end time.Time) ([]models.Candle, error)
}

// SnapshotPublisher delivers classified views to downstream consumers.
type SnapshotPublisher interface {
	PublishView(ctx context.Context, symbol string, view *models.MultiTimeframeView) error
	Close() error
}

// Metrics records engine-level observations.
type Metrics interface {
	RecordFetch(symbol, interval string, candles int)
	RecordError(kind string)
	RecordClassification(interval, trend string)
	RecordLatency(op string, seconds float64)
}
