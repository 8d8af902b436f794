package classify

import (
	"testing"
	"time"

	domrepo "MarketLens/internal/domain/repository"
)

func TestAlignPicksNearestCandle(t *testing.T) {
	candles := risingCandles(48, 1)
	target := candles[20].Timestamp.Add(10 * time.Minute)

	idx, ok := Align(candles, target, domrepo.I1h)
	if !ok {
		t.Fatal("expected an aligned candle")
	}
	if idx != 20 {
		t.Fatalf("aligned idx = %d, want 20", idx)
	}
}

func TestAlignAbstainsWhenTooFar(t *testing.T) {
	candles := risingCandles(48, 1)
	target := candles[47].Timestamp.Add(3 * time.Hour)

	if _, ok := Align(candles, target, domrepo.I1h); ok {
		t.Fatal("expected abstention beyond two interval widths")
	}
}

func TestAlignAbstainsOnFirstCandle(t *testing.T) {
	candles := risingCandles(48, 1)
	target := candles[0].Timestamp

	if _, ok := Align(candles, target, domrepo.I1h); ok {
		t.Fatal("expected abstention on the first candle, no previous bar exists")
	}
}

func TestAlignAbstainsOnEmptySeries(t *testing.T) {
	if _, ok := Align(nil, time.Now(), domrepo.I1h); ok {
		t.Fatal("expected abstention on an empty series")
	}
}
