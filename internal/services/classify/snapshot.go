package classify

import (
	"math"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/services/indicators"
)

// Snapshot assembles the full classified market state for one interval at
// the aligned candle index. Undefined indicator values become nil fields and
// "unknown" states.
func Snapshot(iv domrepo.Interval, f *indicators.Frame, idx int) *models.MarketState {
	c := f.Candles[idx]

	atrPct := f.ATR[idx] / c.Close * 100

	return &models.MarketState{
		Interval:  string(iv),
		Timestamp: c.Timestamp,
		Price:     c.Close,
		Open:      c.Open,
		High:      c.High,
		Low:       c.Low,

		Trend:         Trend(f, idx),
		TrendStrength: TrendStrength(f, idx),

		RSI:      fptr(f.RSI[idx]),
		RSIState: RSIState(f.RSI[idx]),

		MACD:       f.MACD[idx],
		MACDSignal: f.MACDSignal[idx],
		MACDHist:   f.MACDHist[idx],
		MACDState:  MACDState(f, idx),

		EMA7:  f.EMA7[idx],
		EMA12: f.EMA12[idx],
		EMA20: f.EMA20[idx],
		EMA26: f.EMA26[idx],
		EMA50: f.EMA50[idx],

		SMA7:  fptr(f.SMA7[idx]),
		SMA25: fptr(f.SMA25[idx]),
		SMA99: fptr(f.SMA99[idx]),

		MAAlignment: MAAlignment(f, idx),

		ATR:        fptr(f.ATR[idx]),
		ATRPct:     fptr(atrPct),
		Volatility: Volatility(atrPct),

		BBPosition: BBPosition(f, idx),

		Volume:      c.Volume,
		VolumeRatio: fptr(f.VolumeRatio[idx]),
		VolumeState: VolumeState(f.VolumeRatio[idx]),

		Levels: FindLevels(f.Candles, idx),
	}
}

// fptr converts a possibly-undefined column value to a nullable field.
// Infinities (zero-volume averages) are not representable in JSON and are
// reported as null as well.
func fptr(v float64) *float64 {
	if !indicators.Defined(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
