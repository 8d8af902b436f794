package models

// Requests for the market HTTP endpoints. Defined in domain for consistency
// and reuse.

type MarketStateRequest struct {
	Symbol    string `query:"symbol" json:"symbol" validate:"required"`
	TS        string `query:"ts" json:"ts" validate:"required"`
	Intervals string `query:"intervals" json:"intervals"`
}

type CandlesRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required"`
	Interval string `query:"interval" json:"interval" default:"1h" validate:"oneof=1m 5m 15m 1h 4h 1d"`
	From     string `query:"from" json:"from"`
	To       string `query:"to" json:"to"`
	Limit    int    `query:"limit" json:"limit" default:"1000" validate:"gte=1,lte=50000"`
}
