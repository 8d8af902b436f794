package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
)

func hourlyCandles(n int) []models.Candle {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, n)
	for i := range out {
		ts := base.Add(time.Duration(i) * time.Hour)
		out[i] = models.Candle{
			Timestamp: ts,
			Open:      100 + float64(i),
			High:      101 + float64(i),
			Low:       99 + float64(i),
			Close:     100.5 + float64(i),
			Volume:    1000,
			CloseTime: ts.Add(time.Hour - time.Millisecond),
		}
	}
	return out
}

func TestCSVStoreRoundTrip(t *testing.T) {
	store := NewCSVSeriesStore(t.TempDir(), nil)
	ctx := context.Background()
	candles := hourlyCandles(5)

	if err := store.Save(ctx, "BTCUSDT", domrepo.I1h, candles); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.Load(ctx, "BTCUSDT", domrepo.I1h)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != len(candles) {
		t.Fatalf("loaded %d candles, want %d", len(loaded), len(candles))
	}
	for i := range candles {
		if !loaded[i].Timestamp.Equal(candles[i].Timestamp) {
			t.Fatalf("candle %d timestamp = %v, want %v", i, loaded[i].Timestamp, candles[i].Timestamp)
		}
		if loaded[i].Close != candles[i].Close {
			t.Fatalf("candle %d close = %v, want %v", i, loaded[i].Close, candles[i].Close)
		}
	}
}

func TestCSVStoreMissingSeries(t *testing.T) {
	store := NewCSVSeriesStore(t.TempDir(), nil)
	_, err := store.Load(context.Background(), "ETHUSDT", domrepo.I1h)
	if !errors.Is(err, domrepo.ErrSeriesNotFound) {
		t.Fatalf("err = %v, want ErrSeriesNotFound", err)
	}
}

func TestCSVStoreFileNaming(t *testing.T) {
	dir := t.TempDir()
	store := NewCSVSeriesStore(dir, nil)
	if err := store.Save(context.Background(), "BTCUSDT", domrepo.I4h, hourlyCandles(2)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "market_data_BTCUSDT_4h.csv")); err != nil {
		t.Fatalf("expected per-pair file: %v", err)
	}
}

func TestCSVStoreSaveDeduplicates(t *testing.T) {
	store := NewCSVSeriesStore(t.TempDir(), nil)
	ctx := context.Background()
	candles := hourlyCandles(3)
	dup := append([]models.Candle{}, candles...)
	dup[2].Close = 999 // same timestamp, later value wins
	batch := append(candles, dup[2])

	if err := store.Save(ctx, "BTCUSDT", domrepo.I1h, batch); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.Load(ctx, "BTCUSDT", domrepo.I1h)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("loaded %d candles, want 3 after dedup", len(loaded))
	}
	if loaded[2].Close != 999 {
		t.Fatalf("dedup winner close = %v, want 999", loaded[2].Close)
	}
}

func TestCSVStoreToleratesExtraColumns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "market_data_BTCUSDT_1h.csv")
	content := "timestamp,open,high,low,close,volume,close_time,quote_volume,trades\n" +
		"2024-03-01 00:00:00,100,101,99,100.5,1000,2024-03-01 00:59:59,5,6\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	store := NewCSVSeriesStore(dir, nil)
	loaded, err := store.Load(context.Background(), "BTCUSDT", domrepo.I1h)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Close != 100.5 {
		t.Fatalf("loaded = %+v", loaded)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemorySeriesStore()
	ctx := context.Background()

	if _, err := store.Load(ctx, "BTCUSDT", domrepo.I1h); !errors.Is(err, domrepo.ErrSeriesNotFound) {
		t.Fatalf("err = %v, want ErrSeriesNotFound", err)
	}

	candles := hourlyCandles(4)
	if err := store.Save(ctx, "BTCUSDT", domrepo.I1h, candles); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.Load(ctx, "BTCUSDT", domrepo.I1h)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 4 {
		t.Fatalf("loaded %d candles, want 4", len(loaded))
	}

	// Mutating the returned slice must not corrupt the stored series.
	loaded[0].Close = -1
	again, _ := store.Load(ctx, "BTCUSDT", domrepo.I1h)
	if again[0].Close == -1 {
		t.Fatal("store returned a shared slice")
	}
}
