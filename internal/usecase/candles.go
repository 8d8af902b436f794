package usecase

import (
	"context"
	"fmt"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	xhttp "MarketLens/pkg/http"
)

// CandlesUseCase provides business logic for retrieving raw candle slices.
type CandlesUseCase struct {
	series *SeriesManager
}

func NewCandlesUseCase(series *SeriesManager) *CandlesUseCase {
	return &CandlesUseCase{series: series}
}

type GetCandlesParams struct {
	Symbol   string
	Interval domrepo.Interval
	From     time.Time
	To       time.Time
	Limit    int
}

type GetCandlesResult struct {
	Symbol   string          `json:"symbol"`
	Interval string          `json:"interval"`
	From     time.Time       `json:"from"`
	To       time.Time       `json:"to"`
	Count    int             `json:"count"`
	Candles  []models.Candle `json:"candles"`
}

func (uc *CandlesUseCase) GetCandles(ctx context.Context, p GetCandlesParams) (*GetCandlesResult, error) {
	if p.Symbol == "" {
		return nil, xhttp.BadRequestError("symbol")
	}
	if !domrepo.IsValidInterval(p.Interval) {
		return nil, xhttp.BadRequestError("interval").WithParam("interval", string(p.Interval))
	}
	if !p.From.IsZero() && !p.To.IsZero() && p.From.After(p.To) {
		return nil, xhttp.BadRequestError("from").WithParam("reason", "from must not be after to")
	}
	if p.Limit <= 0 {
		p.Limit = 1000
	}
	if p.Limit > 10000 {
		p.Limit = 10000
	}

	candles, err := uc.series.Get(ctx, p.Symbol, p.Interval)
	if err != nil {
		return nil, fmt.Errorf("get series: %w", err)
	}
	if !p.From.IsZero() {
		candles = uc.series.EnsureRange(ctx, p.Symbol, p.Interval, candles, p.From)
	}

	filtered := make([]models.Candle, 0, len(candles))
	for _, c := range candles {
		if !p.From.IsZero() && c.Timestamp.Before(p.From) {
			continue
		}
		if !p.To.IsZero() && c.Timestamp.After(p.To) {
			continue
		}
		filtered = append(filtered, c)
	}
	// Keep the most recent candles when over the limit.
	if len(filtered) > p.Limit {
		filtered = filtered[len(filtered)-p.Limit:]
	}

	return &GetCandlesResult{
		Symbol:   p.Symbol,
		Interval: string(p.Interval),
		From:     p.From,
		To:       p.To,
		Count:    len(filtered),
		Candles:  filtered,
	}, nil
}
