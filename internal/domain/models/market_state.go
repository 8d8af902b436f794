package models

import "time"

// Classification labels. "unknown" is the abstention value used whenever the
// required history or inputs are missing.
const (
	StateUnknown = "unknown"
)

// SupportResistance holds the nearest level on each side of the current price
// within the trailing lookback window, with percentage distances. Nil fields
// mean no qualifying level was found (or not enough history).
type SupportResistance struct {
	Support              *float64 `json:"support"`
	Resistance           *float64 `json:"resistance"`
	DistanceToSupport    *float64 `json:"distance_to_support"`
	DistanceToResistance *float64 `json:"distance_to_resistance"`
}

// MarketState is the classified snapshot of one interval at one aligned
// candle. Pointer fields are nil when the indicator had insufficient history
// at that index.
type MarketState struct {
	Interval  string    `json:"interval"`
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`

	Trend         string  `json:"trend"`
	TrendStrength float64 `json:"trend_strength"`

	RSI      *float64 `json:"rsi"`
	RSIState string   `json:"rsi_state"`

	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	MACDHist   float64 `json:"macd_hist"`
	MACDState  string  `json:"macd_state"`

	EMA7  float64 `json:"ema_7"`
	EMA12 float64 `json:"ema_12"`
	EMA20 float64 `json:"ema_20"`
	EMA26 float64 `json:"ema_26"`
	EMA50 float64 `json:"ema_50"`

	SMA7  *float64 `json:"sma_7"`
	SMA25 *float64 `json:"sma_25"`
	SMA99 *float64 `json:"sma_99"`

	MAAlignment string `json:"ma_alignment"`

	ATR        *float64 `json:"atr"`
	ATRPct     *float64 `json:"atr_pct"`
	Volatility string   `json:"volatility"`

	BBPosition string `json:"bb_position"`

	Volume      float64  `json:"volume"`
	VolumeRatio *float64 `json:"volume_ratio"`
	VolumeState string   `json:"volume_state"`

	Levels SupportResistance `json:"support_resistance"`
}

// MultiTimeframeView is the aggregated result of one classification call:
// the primary interval's state plus the full interval map.
type MultiTimeframeView struct {
	MarketState
	Timeframes map[string]*MarketState `json:"multi_timeframe"`
}
