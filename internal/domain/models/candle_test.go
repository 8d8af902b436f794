package models

import (
	"testing"
	"time"
)

func c(ts time.Time, close float64) Candle {
	return Candle{Timestamp: ts, Open: close, High: close, Low: close, Close: close, Volume: 1}
}

func TestMergeCandlesKeepsLatestOnConflict(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := []Candle{c(base, 10), c(base.Add(time.Hour), 11)}
	incoming := []Candle{c(base.Add(time.Hour), 99), c(base.Add(2*time.Hour), 12)}

	merged := MergeCandles(existing, incoming)
	if len(merged) != 3 {
		t.Fatalf("merged length = %d, want 3", len(merged))
	}
	if merged[1].Close != 99 {
		t.Fatalf("conflict winner = %v, want the incoming candle (99)", merged[1].Close)
	}
}

func TestMergeCandlesSortsAscending(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	unsorted := []Candle{c(base.Add(2*time.Hour), 3), c(base, 1), c(base.Add(time.Hour), 2)}

	merged := MergeCandles(nil, unsorted)
	for i := 1; i < len(merged); i++ {
		if !merged[i-1].Timestamp.Before(merged[i].Timestamp) {
			t.Fatalf("merged not sorted at %d: %v >= %v", i, merged[i-1].Timestamp, merged[i].Timestamp)
		}
	}
}

func TestMergeCandlesIdempotent(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := []Candle{c(base, 1), c(base.Add(time.Hour), 2)}

	once := MergeCandles(nil, series)
	twice := MergeCandles(once, series)
	if len(once) != len(twice) {
		t.Fatalf("re-merging the same batch changed length: %d vs %d", len(once), len(twice))
	}
}

func TestSeriesBounds(t *testing.T) {
	if _, _, ok := SeriesBounds(nil); ok {
		t.Fatal("empty series must report ok=false")
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := []Candle{c(base, 1), c(base.Add(time.Hour), 2), c(base.Add(2*time.Hour), 3)}
	first, last, ok := SeriesBounds(series)
	if !ok || !first.Equal(base) || !last.Equal(base.Add(2*time.Hour)) {
		t.Fatalf("bounds = %v..%v ok=%v", first, last, ok)
	}
}
