package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/services/classify"
	"MarketLens/internal/services/indicators"
	"MarketLens/pkg/cache"
	applogger "MarketLens/pkg/logger"
)

// MarketAnalyzer classifies the market state of a symbol at a point in time
// across multiple intervals. Each interval is analyzed independently; an
// interval with no aligned candle abstains and is simply absent from the
// result. A nil view means every requested interval abstained.
type MarketAnalyzer struct {
	series    *SeriesManager
	publisher domrepo.SnapshotPublisher
	metrics   domrepo.Metrics
	l         *applogger.Logger

	viewCache cache.Service
	cacheTTL  time.Duration

	intervals []domrepo.Interval
}

func NewMarketAnalyzer(
	series *SeriesManager,
	publisher domrepo.SnapshotPublisher,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	viewCache cache.Service,
	cacheTTL time.Duration,
	intervals []domrepo.Interval,
) *MarketAnalyzer {
	if len(intervals) == 0 {
		intervals = domrepo.DefaultIntervals()
	}
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}
	return &MarketAnalyzer{
		series:    series,
		publisher: publisher,
		metrics:   metrics,
		l:         l,
		viewCache: viewCache,
		cacheTTL:  cacheTTL,
		intervals: intervals,
	}
}

// ClassifyMarketState builds the multi-timeframe view for a symbol at ts.
// The primary state is taken from 1h when available, then 4h, then the first
// requested interval that produced a state.
func (a *MarketAnalyzer) ClassifyMarketState(ctx context.Context, symbol string, ts time.Time, intervals []domrepo.Interval) (*models.MultiTimeframeView, error) {
	if len(intervals) == 0 {
		intervals = a.intervals
	}

	began := time.Now()
	defer func() {
		if a.metrics != nil {
			a.metrics.RecordLatency("classify", time.Since(began).Seconds())
		}
	}()

	cacheKey := a.viewCacheKey(symbol, ts, intervals)
	if a.viewCache != nil {
		var cached models.MultiTimeframeView
		err := a.viewCache.Get(ctx, cacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			a.l.Warn("view cache get failed", applogger.String("key", cacheKey), applogger.Error(err))
		}
	}

	states := make(map[string]*models.MarketState, len(intervals))
	for _, iv := range intervals {
		state := a.analyzeInterval(ctx, symbol, iv, ts)
		if state == nil {
			continue
		}
		states[string(iv)] = state
		if a.metrics != nil {
			a.metrics.RecordClassification(string(iv), state.Trend)
		}
	}
	if len(states) == 0 {
		return nil, nil
	}

	primary := a.pickPrimary(states, intervals)
	view := &models.MultiTimeframeView{
		MarketState: *primary,
		Timeframes:  states,
	}

	if a.viewCache != nil {
		if err := a.viewCache.Set(ctx, cacheKey, view, a.cacheTTL); err != nil {
			a.l.Warn("view cache set failed", applogger.String("key", cacheKey), applogger.Error(err))
		}
	}
	if a.publisher != nil {
		// best effort, the publisher logs its own failures
		_ = a.publisher.PublishView(ctx, symbol, view)
	}

	return view, nil
}

// analyzeInterval classifies one interval, returning nil when the interval
// abstains (no data, or no candle close enough to ts).
func (a *MarketAnalyzer) analyzeInterval(ctx context.Context, symbol string, iv domrepo.Interval, ts time.Time) *models.MarketState {
	candles, err := a.series.Get(ctx, symbol, iv)
	if err != nil || len(candles) == 0 {
		return nil
	}
	candles = a.series.EnsureRange(ctx, symbol, iv, candles, ts)

	idx, ok := classify.Align(candles, ts, iv)
	if !ok {
		a.l.Debug("no aligned candle",
			applogger.String("symbol", symbol),
			applogger.String("interval", string(iv)),
			applogger.Time("ts", ts),
		)
		return nil
	}

	frame := indicators.Calculate(candles)
	return classify.Snapshot(iv, frame, idx)
}

// pickPrimary prefers 1h, then 4h, then the first requested interval that
// produced a state.
func (a *MarketAnalyzer) pickPrimary(states map[string]*models.MarketState, requested []domrepo.Interval) *models.MarketState {
	if s, ok := states[string(domrepo.I1h)]; ok {
		return s
	}
	if s, ok := states[string(domrepo.I4h)]; ok {
		return s
	}
	for _, iv := range requested {
		if s, ok := states[string(iv)]; ok {
			return s
		}
	}
	return nil
}

func (a *MarketAnalyzer) viewCacheKey(symbol string, ts time.Time, intervals []domrepo.Interval) string {
	names := make([]string, len(intervals))
	for i, iv := range intervals {
		names[i] = string(iv)
	}
	return cache.Key("market_state", symbol, ts.Unix(), strings.Join(names, ","))
}
