package classify

import (
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
)

// Align selects the candle whose timestamp is nearest to ts. It abstains
// (ok=false) when the nearest candle is more than two interval widths away,
// or when it is the very first candle so no previous bar exists for
// delta-dependent states.
func Align(candles []models.Candle, ts time.Time, iv domrepo.Interval) (int, bool) {
	if len(candles) == 0 {
		return 0, false
	}

	best := 0
	bestDiff := absDuration(candles[0].Timestamp.Sub(ts))
	for i := 1; i < len(candles); i++ {
		d := absDuration(candles[i].Timestamp.Sub(ts))
		if d < bestDiff {
			best = i
			bestDiff = d
		}
	}

	if bestDiff > 2*iv.Duration() {
		return 0, false
	}
	if best < 1 {
		return 0, false
	}
	return best, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
