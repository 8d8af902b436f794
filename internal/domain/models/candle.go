package models

import (
	"sort"
	"time"
)

// Candle represents one OHLCV observation for a fixed time bucket.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
	CloseTime time.Time `json:"close_time,omitempty"`
}

// MergeCandles unions two batches into one series sorted ascending by
// timestamp and deduplicated. On a timestamp conflict the candle from the
// later batch wins.
func MergeCandles(existing, incoming []Candle) []Candle {
	byTS := make(map[int64]Candle, len(existing)+len(incoming))
	for _, c := range existing {
		byTS[c.Timestamp.UnixMilli()] = c
	}
	for _, c := range incoming {
		byTS[c.Timestamp.UnixMilli()] = c
	}

	out := make([]Candle, 0, len(byTS))
	for _, c := range byTS {
		out = append(out, c)
	}
	SortCandles(out)
	return out
}

// SortCandles sorts a series ascending by timestamp in place.
func SortCandles(cs []Candle) {
	sort.Slice(cs, func(i, j int) bool {
		return cs[i].Timestamp.Before(cs[j].Timestamp)
	})
}

// SeriesBounds returns the first and last timestamps of a series.
// ok is false for an empty series.
func SeriesBounds(cs []Candle) (first, last time.Time, ok bool) {
	if len(cs) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return cs[0].Timestamp, cs[len(cs)-1].Timestamp, true
}
