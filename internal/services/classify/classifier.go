package classify

import (
	"math"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/services/indicators"
)

// Trend classifies the EMA ordering at idx. It needs at least 50 prior
// candles, otherwise it abstains.
func Trend(f *indicators.Frame, idx int) string {
	if idx < 50 {
		return models.StateUnknown
	}

	ema7 := f.EMA7[idx]
	ema20 := f.EMA20[idx]
	ema50 := f.EMA50[idx]
	if !indicators.Defined(ema7) || !indicators.Defined(ema20) || !indicators.Defined(ema50) {
		return models.StateUnknown
	}

	switch {
	case ema7 > ema20 && ema20 > ema50:
		return "strong_uptrend"
	case ema7 > ema20:
		return "uptrend"
	case ema7 < ema20 && ema20 < ema50:
		return "strong_downtrend"
	case ema7 < ema20:
		return "downtrend"
	default:
		return "sideways"
	}
}

// TrendStrength scores trend momentum on [0,100] from the EMA7 and EMA20
// slopes. Below 20 candles of history the score is a neutral 50.
func TrendStrength(f *indicators.Frame, idx int) float64 {
	if idx < 20 {
		return 50.0
	}

	var slope7, slope20 float64
	if idx >= 7 {
		slope7 = (f.EMA7[idx] - f.EMA7[idx-7]) / f.EMA7[idx-7] * 100
	}
	if idx >= 20 {
		slope20 = (f.EMA20[idx] - f.EMA20[idx-20]) / f.EMA20[idx-20] * 100
	}

	strength := 50 + slope7*10 + slope20*5
	return math.Max(0, math.Min(100, strength))
}

// RSIState buckets an RSI value.
func RSIState(rsi float64) string {
	if !indicators.Defined(rsi) {
		return models.StateUnknown
	}
	switch {
	case rsi >= 70:
		return "overbought"
	case rsi >= 60:
		return "strong"
	case rsi >= 40:
		return "neutral"
	case rsi >= 30:
		return "weak"
	default:
		return "oversold"
	}
}

// MACDState detects signal-line crossings between idx-1 and idx.
func MACDState(f *indicators.Frame, idx int) string {
	if idx < 1 {
		return models.StateUnknown
	}
	macd, sig := f.MACD[idx], f.MACDSignal[idx]
	prevMACD, prevSig := f.MACD[idx-1], f.MACDSignal[idx-1]
	if !indicators.Defined(macd) || !indicators.Defined(prevMACD) {
		return models.StateUnknown
	}

	switch {
	case macd > sig && prevMACD <= prevSig:
		return "golden_cross"
	case macd < sig && prevMACD >= prevSig:
		return "death_cross"
	case macd > sig:
		return "bullish"
	default:
		return "bearish"
	}
}

// MAAlignment classifies the stacking of the short/mid/long EMAs.
func MAAlignment(f *indicators.Frame, idx int) string {
	ema7 := f.EMA7[idx]
	ema20 := f.EMA20[idx]
	ema50 := f.EMA50[idx]
	if !indicators.Defined(ema7) || !indicators.Defined(ema20) || !indicators.Defined(ema50) {
		return models.StateUnknown
	}

	switch {
	case ema7 > ema20 && ema20 > ema50:
		return "bullish"
	case ema7 < ema20 && ema20 < ema50:
		return "bearish"
	default:
		return "mixed"
	}
}

// Volatility buckets ATR as a percentage of the close.
func Volatility(atrPct float64) string {
	if !indicators.Defined(atrPct) {
		return models.StateUnknown
	}
	switch {
	case atrPct > 5:
		return "very_high"
	case atrPct > 3:
		return "high"
	case atrPct > 1.5:
		return "normal"
	default:
		return "low"
	}
}

// BBPosition locates the price relative to the Bollinger bands.
func BBPosition(f *indicators.Frame, idx int) string {
	upper, middle, lower := f.BBUpper[idx], f.BBMiddle[idx], f.BBLower[idx]
	if !indicators.Defined(upper) || !indicators.Defined(lower) {
		return models.StateUnknown
	}

	price := f.Candles[idx].Close
	switch {
	case price >= upper:
		return "above_upper"
	case price >= middle:
		return "upper_half"
	case price >= lower:
		return "lower_half"
	default:
		return "below_lower"
	}
}

// VolumeState buckets the ratio of volume to its 20-period average.
func VolumeState(ratio float64) string {
	if !indicators.Defined(ratio) {
		return models.StateUnknown
	}
	switch {
	case ratio > 2:
		return "very_high"
	case ratio > 1.5:
		return "high"
	case ratio > 0.8:
		return "normal"
	default:
		return "low"
	}
}
