package classify

import (
	"math"
	"testing"
	"time"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/services/indicators"
)

func risingCandles(n int, step float64) []models.Candle {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, n)
	price := 100.0
	for i := range out {
		ts := base.Add(time.Duration(i) * time.Hour)
		out[i] = models.Candle{
			Timestamp: ts,
			Open:      price,
			High:      price + step,
			Low:       price - step/2,
			Close:     price + step,
			Volume:    1000,
			CloseTime: ts.Add(time.Hour - time.Millisecond),
		}
		price += step
	}
	return out
}

func TestRSIStateBuckets(t *testing.T) {
	cases := []struct {
		rsi  float64
		want string
	}{
		{72, "overbought"},
		{70, "overbought"},
		{65, "strong"},
		{50, "neutral"},
		{40, "neutral"},
		{35, "weak"},
		{10, "oversold"},
		{math.NaN(), models.StateUnknown},
	}
	for _, tc := range cases {
		if got := RSIState(tc.rsi); got != tc.want {
			t.Fatalf("RSIState(%v) = %q, want %q", tc.rsi, got, tc.want)
		}
	}
}

func TestVolatilityBuckets(t *testing.T) {
	cases := []struct {
		atrPct float64
		want   string
	}{
		{6, "very_high"},
		{4, "high"},
		{2, "normal"},
		{1, "low"},
		{math.NaN(), models.StateUnknown},
	}
	for _, tc := range cases {
		if got := Volatility(tc.atrPct); got != tc.want {
			t.Fatalf("Volatility(%v) = %q, want %q", tc.atrPct, got, tc.want)
		}
	}
}

func TestVolumeStateBuckets(t *testing.T) {
	cases := []struct {
		ratio float64
		want  string
	}{
		{2.5, "very_high"},
		{1.7, "high"},
		{1.0, "normal"},
		{0.5, "low"},
	}
	for _, tc := range cases {
		if got := VolumeState(tc.ratio); got != tc.want {
			t.Fatalf("VolumeState(%v) = %q, want %q", tc.ratio, got, tc.want)
		}
	}
}

func TestTrendNeedsHistory(t *testing.T) {
	f := indicators.Calculate(risingCandles(120, 1))
	if got := Trend(f, 30); got != models.StateUnknown {
		t.Fatalf("Trend at idx 30 = %q, want %q", got, models.StateUnknown)
	}
	got := Trend(f, 110)
	if got != "strong_uptrend" && got != "uptrend" {
		t.Fatalf("Trend on a rising series = %q, want an uptrend label", got)
	}
}

func TestTrendStrengthClampedAndNeutral(t *testing.T) {
	f := indicators.Calculate(risingCandles(120, 5))
	if got := TrendStrength(f, 10); got != 50.0 {
		t.Fatalf("TrendStrength at idx 10 = %v, want neutral 50", got)
	}
	s := TrendStrength(f, 110)
	if s < 50 || s > 100 {
		t.Fatalf("TrendStrength on a steep rise = %v, want in (50, 100]", s)
	}
}

func TestMACDStateCross(t *testing.T) {
	f := &indicators.Frame{
		MACD:       []float64{-1, 1},
		MACDSignal: []float64{0, 0},
	}
	if got := MACDState(f, 1); got != "golden_cross" {
		t.Fatalf("MACDState = %q, want golden_cross", got)
	}

	f = &indicators.Frame{
		MACD:       []float64{1, -1},
		MACDSignal: []float64{0, 0},
	}
	if got := MACDState(f, 1); got != "death_cross" {
		t.Fatalf("MACDState = %q, want death_cross", got)
	}

	f = &indicators.Frame{
		MACD:       []float64{1, 2},
		MACDSignal: []float64{0, 0},
	}
	if got := MACDState(f, 1); got != "bullish" {
		t.Fatalf("MACDState = %q, want bullish", got)
	}
	if got := MACDState(f, 0); got != models.StateUnknown {
		t.Fatalf("MACDState at idx 0 = %q, want %q", got, models.StateUnknown)
	}
}

func TestFindLevelsStrictInequality(t *testing.T) {
	candles := risingCandles(80, 1)
	idx := 70

	sr := FindLevels(candles, idx)
	if sr.Support == nil {
		t.Fatal("expected a support level below the close")
	}
	if *sr.Support >= candles[idx].Close {
		t.Fatalf("support %v must be strictly below close %v", *sr.Support, candles[idx].Close)
	}
	if sr.DistanceToSupport == nil || *sr.DistanceToSupport <= 0 {
		t.Fatalf("distance to support = %v, want positive", sr.DistanceToSupport)
	}
	if sr.Resistance != nil && *sr.Resistance <= candles[idx].Close {
		t.Fatalf("resistance %v must be strictly above close %v", *sr.Resistance, candles[idx].Close)
	}
}

func TestFindLevelsNeedsLookback(t *testing.T) {
	candles := risingCandles(30, 1)
	sr := FindLevels(candles, 29)
	if sr.Support != nil || sr.Resistance != nil {
		t.Fatalf("levels with short history = %+v, want empty", sr)
	}
}

func TestSnapshotNilsUndefined(t *testing.T) {
	candles := risingCandles(30, 1)
	f := indicators.Calculate(candles)
	state := Snapshot("1h", f, 10)
	if state == nil {
		t.Fatal("snapshot is nil")
	}
	if state.RSI != nil {
		t.Fatalf("RSI at idx 10 = %v, want nil during warmup", *state.RSI)
	}
	if state.SMA7 == nil {
		t.Fatal("SMA7 at idx 10 should be defined")
	}
	if state.SMA99 != nil {
		t.Fatalf("SMA99 at idx 10 = %v, want nil", *state.SMA99)
	}
	if state.Price != candles[10].Close {
		t.Fatalf("price = %v, want %v", state.Price, candles[10].Close)
	}
}
