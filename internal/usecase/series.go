package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	applogger "MarketLens/pkg/logger"
)

// SeriesOptions carries the refresh and backfill windows for SeriesManager.
type SeriesOptions struct {
	Freshness       time.Duration // refetch when the newest candle is older than this
	MinRefreshAge   time.Duration // never refetch more often than this
	InitialLookback time.Duration // first-fetch window when no series exists
	BackfillBack    time.Duration // extra history pulled in front of an out-of-range target
	BackfillForward time.Duration // extra future pulled behind an out-of-range target
}

func (o *SeriesOptions) applyDefaults() {
	if o.Freshness == 0 {
		o.Freshness = 24 * time.Hour
	}
	if o.MinRefreshAge == 0 {
		o.MinRefreshAge = time.Hour
	}
	if o.InitialLookback == 0 {
		o.InitialLookback = 90 * 24 * time.Hour
	}
	if o.BackfillBack == 0 {
		o.BackfillBack = 30 * 24 * time.Hour
	}
	if o.BackfillForward == 0 {
		o.BackfillForward = 24 * time.Hour
	}
}

// SeriesManager owns the candle series lifecycle for every (symbol, interval)
// pair: first download, freshness refresh, on-demand backfill and persistence.
// Store failures degrade to whatever data is available instead of failing the
// caller; fetch failures keep any partial batch.
type SeriesManager struct {
	store    domrepo.SeriesStore
	provider domrepo.CandleProvider
	metrics  domrepo.Metrics
	l        *applogger.Logger
	opts     SeriesOptions

	now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSeriesManager(
	store domrepo.SeriesStore,
	provider domrepo.CandleProvider,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	opts SeriesOptions,
) *SeriesManager {
	opts.applyDefaults()
	return &SeriesManager{
		store:    store,
		provider: provider,
		metrics:  metrics,
		l:        l,
		opts:     opts,
		now:      time.Now,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockFor serializes work per (symbol, interval) so concurrent requests for
// the same series do not race a refresh against a backfill.
func (m *SeriesManager) lockFor(symbol string, iv domrepo.Interval) *sync.Mutex {
	key := symbol + "|" + string(iv)
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	return l
}

// Get returns the current series for (symbol, interval), downloading it on
// first access and refreshing it when the newest candle is stale. A nil,
// nil return means no data could be obtained; callers treat it as an
// abstention rather than an error.
func (m *SeriesManager) Get(ctx context.Context, symbol string, iv domrepo.Interval) ([]models.Candle, error) {
	lock := m.lockFor(symbol, iv)
	lock.Lock()
	defer lock.Unlock()

	candles, err := m.store.Load(ctx, symbol, iv)
	switch {
	case err == nil:
		return m.maybeRefresh(ctx, symbol, iv, candles), nil
	case errors.Is(err, domrepo.ErrSeriesNotFound):
		return m.initialFetch(ctx, symbol, iv), nil
	default:
		m.recordError("store")
		m.l.Error("series load failed",
			applogger.String("symbol", symbol),
			applogger.String("interval", string(iv)),
			applogger.Error(err),
		)
		return nil, nil
	}
}

// EnsureRange extends the series when ts falls outside its bounds, pulling
// extra history in front of (or behind) the target so nearby requests are
// served from the store. The series is returned as currently known even when
// the backfill fails or comes back empty.
func (m *SeriesManager) EnsureRange(ctx context.Context, symbol string, iv domrepo.Interval, candles []models.Candle, ts time.Time) []models.Candle {
	first, last, ok := models.SeriesBounds(candles)
	if !ok {
		return candles
	}
	if !ts.Before(first) && !ts.After(last) {
		return candles
	}

	lock := m.lockFor(symbol, iv)
	lock.Lock()
	defer lock.Unlock()

	var start, end time.Time
	if ts.Before(first) {
		start = ts.Add(-m.opts.BackfillBack)
		end = first
	} else {
		start = last.Add(time.Second)
		end = ts.Add(m.opts.BackfillForward)
	}

	fetched := m.fetch(ctx, symbol, iv, start, end)
	if len(fetched) == 0 {
		return candles
	}

	merged := models.MergeCandles(candles, fetched)
	m.persist(ctx, symbol, iv, merged)
	return merged
}

// maybeRefresh pulls the tail of the series forward when the newest candle
// has gone stale. A very recent series is left alone to keep request rates
// down.
func (m *SeriesManager) maybeRefresh(ctx context.Context, symbol string, iv domrepo.Interval, candles []models.Candle) []models.Candle {
	_, last, ok := models.SeriesBounds(candles)
	if !ok {
		return candles
	}

	age := m.now().Sub(last)
	if age < m.opts.Freshness || age < m.opts.MinRefreshAge {
		return candles
	}

	fetched := m.fetch(ctx, symbol, iv, last.Add(time.Second), m.now())
	if len(fetched) == 0 {
		return candles
	}

	merged := models.MergeCandles(candles, fetched)
	m.persist(ctx, symbol, iv, merged)
	return merged
}

func (m *SeriesManager) initialFetch(ctx context.Context, symbol string, iv domrepo.Interval) []models.Candle {
	end := m.now()
	start := end.Add(-m.opts.InitialLookback)

	fetched := m.fetch(ctx, symbol, iv, start, end)
	if len(fetched) == 0 {
		return nil
	}

	merged := models.MergeCandles(nil, fetched)
	m.persist(ctx, symbol, iv, merged)
	return merged
}

// fetch wraps the provider call with logging and metrics. A partial batch
// returned alongside a fetch error is kept.
func (m *SeriesManager) fetch(ctx context.Context, symbol string, iv domrepo.Interval, start, end time.Time) []models.Candle {
	began := time.Now()
	fetched, err := m.provider.FetchRange(ctx, symbol, iv, start, end)
	if m.metrics != nil {
		m.metrics.RecordLatency("fetch", time.Since(began).Seconds())
		m.metrics.RecordFetch(symbol, string(iv), len(fetched))
	}
	if err != nil {
		m.recordError("fetch")
		m.l.Warn("candle fetch failed, keeping partial batch",
			applogger.String("symbol", symbol),
			applogger.String("interval", string(iv)),
			applogger.Int("partial", len(fetched)),
			applogger.Error(err),
		)
	}
	return fetched
}

func (m *SeriesManager) persist(ctx context.Context, symbol string, iv domrepo.Interval, candles []models.Candle) {
	if err := m.store.Save(ctx, symbol, iv, candles); err != nil {
		m.recordError("store")
		m.l.Error("series save failed",
			applogger.String("symbol", symbol),
			applogger.String("interval", string(iv)),
			applogger.Error(err),
		)
	}
}

func (m *SeriesManager) recordError(kind string) {
	if m.metrics != nil {
		m.metrics.RecordError(kind)
	}
}
