package indicators

import (
	"math"

	"MarketLens/internal/domain/models"
)

// Indicator parameters.
const (
	rsiPeriod    = 14
	atrPeriod    = 14
	bbPeriod     = 20
	bbWidth      = 2.0
	volumePeriod = 20
	signalSpan   = 9
)

// Calculate derives the full indicator frame from a candle series. It is a
// pure function: the same series always yields the same frame.
func Calculate(candles []models.Candle) *Frame {
	n := len(candles)
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	volumes := make([]float64, n)
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
		volumes[i] = c.Volume
	}

	f := &Frame{
		Candles: candles,
		EMA7:    EMA(closes, 7),
		EMA12:   EMA(closes, 12),
		EMA20:   EMA(closes, 20),
		EMA26:   EMA(closes, 26),
		EMA50:   EMA(closes, 50),
		SMA7:    SMA(closes, 7),
		SMA25:   SMA(closes, 25),
		SMA99:   SMA(closes, 99),
	}

	f.MACD = sub(f.EMA12, f.EMA26)
	f.MACDSignal = EMA(f.MACD, signalSpan)
	f.MACDHist = sub(f.MACD, f.MACDSignal)

	f.RSI = RSI(closes, rsiPeriod)
	f.ATR = ATR(highs, lows, closes, atrPeriod)

	f.BBMiddle = SMA(closes, bbPeriod)
	std := rollingStd(closes, bbPeriod)
	f.BBUpper = make([]float64, n)
	f.BBLower = make([]float64, n)
	for i := 0; i < n; i++ {
		f.BBUpper[i] = f.BBMiddle[i] + bbWidth*std[i]
		f.BBLower[i] = f.BBMiddle[i] - bbWidth*std[i]
	}

	f.VolumeSMA = SMA(volumes, volumePeriod)
	f.VolumeRatio = make([]float64, n)
	for i := 0; i < n; i++ {
		f.VolumeRatio[i] = volumes[i] / f.VolumeSMA[i]
	}

	return f
}

// EMA computes an exponential moving average seeded at the first value,
// with alpha = 2/(span+1). Every position is defined; a NaN input (for
// example a warmup value in a derived column) propagates.
func EMA(vals []float64, span int) []float64 {
	out := make([]float64, len(vals))
	if len(vals) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = vals[0]
	for i := 1; i < len(vals); i++ {
		out[i] = vals[i]*alpha + out[i-1]*(1.0-alpha)
	}
	return out
}

// SMA computes a rolling arithmetic mean. The first window-1 positions are
// NaN, and any NaN inside the window makes that position NaN.
func SMA(vals []float64, window int) []float64 {
	out := make([]float64, len(vals))
	for i := range out {
		out[i] = math.NaN()
	}
	for i := window - 1; i < len(vals); i++ {
		sum := 0.0
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(vals[j]) {
				ok = false
				break
			}
			sum += vals[j]
		}
		if ok {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// RSI computes the relative strength index over rolling mean gains/losses.
// When the average loss is exactly zero the value saturates at 100.
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	gains := make([]float64, n)
	losses := make([]float64, n)
	if n > 0 {
		gains[0] = math.NaN()
		losses[0] = math.NaN()
	}
	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		gains[i] = math.Max(delta, 0)
		losses[i] = math.Max(-delta, 0)
	}

	avgGain := SMA(gains, period)
	avgLoss := SMA(losses, period)

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		g, l := avgGain[i], avgLoss[i]
		switch {
		case math.IsNaN(g) || math.IsNaN(l):
			out[i] = math.NaN()
		case l == 0:
			out[i] = 100.0
		default:
			rs := g / l
			out[i] = 100.0 - 100.0/(1.0+rs)
		}
	}
	return out
}

// ATR computes the average true range: a rolling mean of
// max(high-low, |high-prevClose|, |low-prevClose|). The first bar has no
// previous close, so its true range is just high-low.
func ATR(highs, lows, closes []float64, period int) []float64 {
	n := len(highs)
	tr := make([]float64, n)
	for i := 0; i < n; i++ {
		hl := highs[i] - lows[i]
		if i == 0 {
			tr[i] = hl
			continue
		}
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}
	return SMA(tr, period)
}

// rollingStd computes the rolling sample standard deviation (ddof=1).
func rollingStd(vals []float64, window int) []float64 {
	out := make([]float64, len(vals))
	for i := range out {
		out[i] = math.NaN()
	}
	for i := window - 1; i < len(vals); i++ {
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			sum += vals[j]
		}
		mean := sum / float64(window)
		var ss float64
		for j := i - window + 1; j <= i; j++ {
			d := vals[j] - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(window-1))
	}
	return out
}

func sub(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}
