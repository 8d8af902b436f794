package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	internalrepo "MarketLens/internal/repository"
	applogger "MarketLens/pkg/logger"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

type fetchCall struct {
	start, end time.Time
}

// fakeProvider serves candles from a canned hourly series restricted to the
// requested range, recording every call.
type fakeProvider struct {
	series []models.Candle
	err    error
	calls  []fetchCall
}

func (p *fakeProvider) FetchRange(_ context.Context, symbol string, iv domrepo.Interval, start, end time.Time) ([]models.Candle, error) {
	p.calls = append(p.calls, fetchCall{start: start, end: end})
	var out []models.Candle
	for _, c := range p.series {
		if !c.Timestamp.Before(start) && c.Timestamp.Before(end) {
			out = append(out, c)
		}
	}
	if p.err != nil {
		return out[:len(out)/2], &models.FetchError{Symbol: symbol, Interval: string(iv), Err: p.err}
	}
	return out, nil
}

type failingStore struct{}

func (failingStore) Load(context.Context, string, domrepo.Interval) ([]models.Candle, error) {
	return nil, &models.StoreError{Op: "load", Symbol: "BTCUSDT", Err: errors.New("disk gone")}
}

func (failingStore) Save(context.Context, string, domrepo.Interval, []models.Candle) error {
	return nil
}

func hourly(from time.Time, n int) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		ts := from.Add(time.Duration(i) * time.Hour)
		out[i] = models.Candle{
			Timestamp: ts,
			Open:      100, High: 101, Low: 99, Close: 100 + float64(i),
			Volume: 1000,
		}
	}
	return out
}

func newTestManager(t *testing.T, store domrepo.SeriesStore, provider domrepo.CandleProvider, now time.Time) *SeriesManager {
	t.Helper()
	m := NewSeriesManager(store, provider, nil, testLogger(t), SeriesOptions{})
	m.now = func() time.Time { return now }
	return m
}

func TestGetInitialFetchAndSave(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	remote := hourly(now.Add(-100*24*time.Hour), 100*24)
	provider := &fakeProvider{series: remote}
	store := internalrepo.NewMemorySeriesStore()
	m := newTestManager(t, store, provider, now)

	candles, err := m.Get(context.Background(), "BTCUSDT", domrepo.I1h)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(candles) == 0 {
		t.Fatal("expected an initial download")
	}
	if len(provider.calls) != 1 {
		t.Fatalf("fetch calls = %d, want 1", len(provider.calls))
	}
	window := now.Sub(provider.calls[0].start)
	if window != 90*24*time.Hour {
		t.Fatalf("initial lookback = %v, want 90 days", window)
	}

	// The download must be persisted.
	saved, err := store.Load(context.Background(), "BTCUSDT", domrepo.I1h)
	if err != nil || len(saved) != len(candles) {
		t.Fatalf("persisted %d candles (err=%v), want %d", len(saved), err, len(candles))
	}
}

func TestGetSkipsRefreshWhenFresh(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := internalrepo.NewMemorySeriesStore()
	existing := hourly(now.Add(-72*time.Hour), 72) // newest 1h old
	if err := store.Save(context.Background(), "BTCUSDT", domrepo.I1h, existing); err != nil {
		t.Fatalf("seed: %v", err)
	}
	provider := &fakeProvider{}
	m := newTestManager(t, store, provider, now)

	if _, err := m.Get(context.Background(), "BTCUSDT", domrepo.I1h); err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(provider.calls) != 0 {
		t.Fatalf("fetch calls = %d, want 0 for a fresh series", len(provider.calls))
	}
}

func TestGetRefreshesStaleSeries(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := internalrepo.NewMemorySeriesStore()
	stale := hourly(now.Add(-10*24*time.Hour), 24*8) // newest 2 days old
	if err := store.Save(context.Background(), "BTCUSDT", domrepo.I1h, stale); err != nil {
		t.Fatalf("seed: %v", err)
	}
	remote := hourly(now.Add(-3*24*time.Hour), 24*3)
	provider := &fakeProvider{series: remote}
	m := newTestManager(t, store, provider, now)

	candles, err := m.Get(context.Background(), "BTCUSDT", domrepo.I1h)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(provider.calls) != 1 {
		t.Fatalf("fetch calls = %d, want 1", len(provider.calls))
	}
	newest := stale[len(stale)-1].Timestamp
	if got := provider.calls[0].start; !got.Equal(newest.Add(time.Second)) {
		t.Fatalf("refresh start = %v, want newest+1s %v", got, newest.Add(time.Second))
	}
	if len(candles) <= len(stale) {
		t.Fatalf("refresh did not extend the series: %d <= %d", len(candles), len(stale))
	}
}

func TestEnsureRangeBackfillsHistory(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := internalrepo.NewMemorySeriesStore()
	existing := hourly(now.Add(-48*time.Hour), 48)
	remote := hourly(now.Add(-40*24*time.Hour), 40*24)
	provider := &fakeProvider{series: remote}
	m := newTestManager(t, store, provider, now)

	target := now.Add(-10 * 24 * time.Hour)
	merged := m.EnsureRange(context.Background(), "BTCUSDT", domrepo.I1h, existing, target)
	if len(provider.calls) != 1 {
		t.Fatalf("fetch calls = %d, want 1", len(provider.calls))
	}
	call := provider.calls[0]
	if !call.start.Equal(target.Add(-30 * 24 * time.Hour)) {
		t.Fatalf("backfill start = %v, want target-30d", call.start)
	}
	if !call.end.Equal(existing[0].Timestamp) {
		t.Fatalf("backfill end = %v, want the series head %v", call.end, existing[0].Timestamp)
	}
	first, _, _ := models.SeriesBounds(merged)
	if !first.Before(existing[0].Timestamp) {
		t.Fatal("backfill did not extend history")
	}
}

func TestEnsureRangeNoopInsideBounds(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	existing := hourly(now.Add(-48*time.Hour), 48)
	provider := &fakeProvider{}
	m := newTestManager(t, internalrepo.NewMemorySeriesStore(), provider, now)

	got := m.EnsureRange(context.Background(), "BTCUSDT", domrepo.I1h, existing, now.Add(-24*time.Hour))
	if len(provider.calls) != 0 {
		t.Fatalf("fetch calls = %d, want 0 inside bounds", len(provider.calls))
	}
	if len(got) != len(existing) {
		t.Fatalf("series changed: %d vs %d", len(got), len(existing))
	}
}

func TestGetKeepsPartialBatchOnFetchFailure(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	remote := hourly(now.Add(-100*time.Hour), 100)
	provider := &fakeProvider{series: remote, err: errors.New("connection reset")}
	store := internalrepo.NewMemorySeriesStore()
	m := newTestManager(t, store, provider, now)

	candles, err := m.Get(context.Background(), "BTCUSDT", domrepo.I1h)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(candles) == 0 {
		t.Fatal("expected the partial batch to be kept")
	}
	if len(candles) >= len(remote) {
		t.Fatalf("partial batch = %d candles, want fewer than %d", len(candles), len(remote))
	}
}

func TestGetDegradesOnStoreFailure(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(t, failingStore{}, &fakeProvider{}, now)

	candles, err := m.Get(context.Background(), "BTCUSDT", domrepo.I1h)
	if err != nil {
		t.Fatalf("store failures must degrade, got error %v", err)
	}
	if candles != nil {
		t.Fatalf("candles = %v, want nil", candles)
	}
}
