package repository

import (
	"context"
	"sync"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
)

// MemorySeriesStore is an in-process SeriesStore. It backs tests and the
// "memory" data backend, where nothing survives the process.
type MemorySeriesStore struct {
	mu     sync.RWMutex
	series map[string][]models.Candle
}

func NewMemorySeriesStore() *MemorySeriesStore {
	return &MemorySeriesStore{series: make(map[string][]models.Candle)}
}

func key(symbol string, iv domrepo.Interval) string {
	return symbol + "/" + string(iv)
}

func (s *MemorySeriesStore) Load(_ context.Context, symbol string, iv domrepo.Interval) ([]models.Candle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cs, ok := s.series[key(symbol, iv)]
	if !ok {
		return nil, domrepo.ErrSeriesNotFound
	}
	out := make([]models.Candle, len(cs))
	copy(out, cs)
	return out, nil
}

func (s *MemorySeriesStore) Save(_ context.Context, symbol string, iv domrepo.Interval, candles []models.Candle) error {
	merged := models.MergeCandles(nil, candles)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.series[key(symbol, iv)] = merged
	return nil
}

var _ domrepo.SeriesStore = (*MemorySeriesStore)(nil)
