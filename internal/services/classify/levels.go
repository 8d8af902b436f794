package classify

import (
	"sort"

	"MarketLens/internal/domain/models"
)

// levelLookback is the trailing window scanned for support/resistance.
const levelLookback = 50

// levelCount is how many extremes are ranked on each side.
const levelCount = 5

// FindLevels scans the trailing lookback window for support and resistance.
// It ranks the 5 largest highs (descending) and 5 smallest lows (ascending);
// resistance is the first ranked high strictly above the current close,
// support the first ranked low strictly below it. Exact ties are not levels.
// With fewer than lookback prior candles both sides stay nil.
func FindLevels(candles []models.Candle, idx int) models.SupportResistance {
	var sr models.SupportResistance
	if idx < levelLookback {
		return sr
	}

	lo := idx - levelLookback
	if lo < 0 {
		lo = 0
	}
	window := candles[lo : idx+1]

	highs := make([]float64, 0, len(window))
	lows := make([]float64, 0, len(window))
	for _, c := range window {
		highs = append(highs, c.High)
		lows = append(lows, c.Low)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(highs)))
	sort.Float64s(lows)
	if len(highs) > levelCount {
		highs = highs[:levelCount]
	}
	if len(lows) > levelCount {
		lows = lows[:levelCount]
	}

	price := candles[idx].Close
	for _, h := range highs {
		if h > price {
			resistance := h
			distance := (resistance - price) / price * 100
			sr.Resistance = &resistance
			sr.DistanceToResistance = &distance
			break
		}
	}
	for _, l := range lows {
		if l < price {
			support := l
			distance := (price - support) / price * 100
			sr.Support = &support
			sr.DistanceToSupport = &distance
			break
		}
	}
	return sr
}
