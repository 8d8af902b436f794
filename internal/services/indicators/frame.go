package indicators

import (
	"math"

	"MarketLens/internal/domain/models"
)

// Frame is a candle series plus derived indicator columns. Columns are
// index-aligned with Candles; warmup positions hold NaN, never zero.
// A Frame is recomputed fresh from the series on every classification call
// and is never persisted.
type Frame struct {
	Candles []models.Candle

	EMA7  []float64
	EMA12 []float64
	EMA20 []float64
	EMA26 []float64
	EMA50 []float64

	SMA7  []float64
	SMA25 []float64
	SMA99 []float64

	MACD       []float64
	MACDSignal []float64
	MACDHist   []float64

	RSI []float64
	ATR []float64

	BBUpper  []float64
	BBMiddle []float64
	BBLower  []float64

	VolumeSMA   []float64
	VolumeRatio []float64
}

// Len returns the number of candles in the frame.
func (f *Frame) Len() int { return len(f.Candles) }

// Defined reports whether v carries a computed value (not a warmup NaN).
func Defined(v float64) bool { return !math.IsNaN(v) }
