package binance

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	xhttp "MarketLens/pkg/http"
	applogger "MarketLens/pkg/logger"
)

const klinesPath = "/api/v3/klines"

// Client fetches klines from the Binance REST API, paging forward through
// the requested range. There are no retries: a failed page returns whatever
// accumulated so far together with a *models.FetchError.
type Client struct {
	http      *xhttp.Client
	baseURL   string
	pageLimit int
	pageDelay time.Duration
	l         *applogger.Logger
}

type Option func(*Client)

func WithPageLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageLimit = n
		}
	}
}

func WithPageDelay(d time.Duration) Option {
	return func(c *Client) { c.pageDelay = d }
}

func NewClient(httpClient *xhttp.Client, baseURL string, l *applogger.Logger, opts ...Option) *Client {
	c := &Client{
		http:      httpClient,
		baseURL:   baseURL,
		pageLimit: 1000,
		pageDelay: 500 * time.Millisecond,
		l:         l,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchRange downloads all candles in [start, end), page by page. The cursor
// advances to one second past the newest open time of each page, matching the
// upstream pagination contract.
func (c *Client) FetchRange(ctx context.Context, symbol string, iv domrepo.Interval, start, end time.Time) ([]models.Candle, error) {
	var out []models.Candle
	cursor := start

	for cursor.Before(end) {
		page, err := c.fetchPage(ctx, symbol, iv, cursor, end)
		if err != nil {
			if c.l != nil {
				c.l.Warn("klines page failed",
					applogger.String("symbol", symbol),
					applogger.String("interval", string(iv)),
					applogger.Time("cursor", cursor),
					applogger.Error(err),
				)
			}
			return out, &models.FetchError{Symbol: symbol, Interval: string(iv), Err: err}
		}
		if len(page) == 0 {
			break
		}

		out = append(out, page...)
		cursor = page[len(page)-1].Timestamp.Add(time.Second)

		if len(page) < c.pageLimit {
			break
		}
		if c.pageDelay > 0 && cursor.Before(end) {
			select {
			case <-time.After(c.pageDelay):
			case <-ctx.Done():
				return out, &models.FetchError{Symbol: symbol, Interval: string(iv), Err: ctx.Err()}
			}
		}
	}

	if c.l != nil {
		c.l.Debug("klines fetched",
			applogger.String("symbol", symbol),
			applogger.String("interval", string(iv)),
			applogger.Int("candles", len(out)),
		)
	}
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, symbol string, iv domrepo.Interval, start, end time.Time) ([]models.Candle, error) {
	var raw [][]interface{}
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + klinesPath,
		QueryParams: map[string][]string{
			"symbol":    {symbol},
			"interval":  {string(iv)},
			"startTime": {strconv.FormatInt(start.UnixMilli(), 10)},
			"endTime":   {strconv.FormatInt(end.UnixMilli(), 10)},
			"limit":     {strconv.Itoa(c.pageLimit)},
		},
	}, &raw)
	if err != nil {
		return nil, err
	}

	candles := make([]models.Candle, 0, len(raw))
	for _, row := range raw {
		candle, err := parseKline(row)
		if err != nil {
			return nil, err
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

// parseKline decodes one klines row. Binance encodes open time and close time
// as millisecond integers and OHLCV as decimal strings.
func parseKline(row []interface{}) (models.Candle, error) {
	if len(row) < 7 {
		return models.Candle{}, fmt.Errorf("kline row has %d fields, want at least 7", len(row))
	}

	openMs, ok := row[0].(float64)
	if !ok {
		return models.Candle{}, fmt.Errorf("kline open time is %T, want number", row[0])
	}
	closeMs, ok := row[6].(float64)
	if !ok {
		return models.Candle{}, fmt.Errorf("kline close time is %T, want number", row[6])
	}

	vals := make([]float64, 5)
	for i := 1; i <= 5; i++ {
		s, ok := row[i].(string)
		if !ok {
			return models.Candle{}, fmt.Errorf("kline field %d is %T, want string", i, row[i])
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return models.Candle{}, fmt.Errorf("kline field %d: %w", i, err)
		}
		vals[i-1] = v
	}

	return models.Candle{
		Timestamp: time.UnixMilli(int64(openMs)).UTC(),
		Open:      vals[0],
		High:      vals[1],
		Low:       vals[2],
		Close:     vals[3],
		Volume:    vals[4],
		CloseTime: time.UnixMilli(int64(closeMs)).UTC(),
	}, nil
}

var _ domrepo.CandleProvider = (*Client)(nil)
