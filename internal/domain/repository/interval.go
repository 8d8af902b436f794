package repository

import (
	"strings"
	"time"
)

// Interval represents a candle resolution bucket.
type Interval string

const (
	I1m  Interval = "1m"
	I5m  Interval = "5m"
	I15m Interval = "15m"
	I1h  Interval = "1h"
	I4h  Interval = "4h"
	I1d  Interval = "1d"
)

// Duration returns the bucket width of the interval. Unrecognized intervals
// fall back to one hour.
func (i Interval) Duration() time.Duration {
	switch i {
	case I1m:
		return time.Minute
	case I5m:
		return 5 * time.Minute
	case I15m:
		return 15 * time.Minute
	case I1h:
		return time.Hour
	case I4h:
		return 4 * time.Hour
	case I1d:
		return 24 * time.Hour
	default:
		return time.Hour
	}
}

// IsValidInterval returns true if iv is a supported interval.
func IsValidInterval(iv Interval) bool {
	switch iv {
	case I1m, I5m, I15m, I1h, I4h, I1d:
		return true
	default:
		return false
	}
}

// DefaultIntervals returns the default classification interval set.
func DefaultIntervals() []Interval {
	return []Interval{I15m, I1h, I4h, I1d}
}

// ParseIntervals converts a comma separated list into valid intervals,
// dropping anything unrecognized. An empty input yields the default set.
func ParseIntervals(s string) []Interval {
	if strings.TrimSpace(s) == "" {
		return DefaultIntervals()
	}
	out := make([]Interval, 0, 4)
	for _, part := range strings.Split(s, ",") {
		iv := Interval(strings.TrimSpace(part))
		if IsValidInterval(iv) {
			out = append(out, iv)
		}
	}
	if len(out) == 0 {
		return DefaultIntervals()
	}
	return out
}
