package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	internalrepo "MarketLens/internal/repository"
	"MarketLens/internal/usecase"
	applogger "MarketLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

func newTestHandler(t *testing.T, now time.Time) (*MarketHandler, *echo.Echo) {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	store := internalrepo.NewMemorySeriesStore()
	candles := make([]models.Candle, 120)
	for i := range candles {
		ts := now.Add(-time.Duration(120-i) * time.Hour)
		price := 100 + float64(i)
		candles[i] = models.Candle{
			Timestamp: ts,
			Open:      price, High: price + 1, Low: price - 1, Close: price + 0.5,
			Volume: 1000,
		}
	}
	if err := store.Save(context.Background(), "BTCUSDT", domrepo.I1h, candles); err != nil {
		t.Fatalf("seed: %v", err)
	}

	series := usecase.NewSeriesManager(store, noFetchProvider{}, nil, l, usecase.SeriesOptions{
		// Seed data ends in the past relative to wall time; a huge freshness
		// window keeps the manager from refetching during the test.
		Freshness: 1000 * 24 * time.Hour,
	})
	analyzer := usecase.NewMarketAnalyzer(series, nil, nil, l, nil, time.Minute, nil)
	candlesUC := usecase.NewCandlesUseCase(series)

	h := NewMarketHandler(l, analyzer, candlesUC)
	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

type noFetchProvider struct{}

func (noFetchProvider) FetchRange(context.Context, string, domrepo.Interval, time.Time, time.Time) ([]models.Candle, error) {
	return nil, nil
}

func doGet(e *echo.Echo, path string, params url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path+"?"+params.Encode(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestStateEndpoint(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Hour)
	_, e := newTestHandler(t, now)

	rec := doGet(e, "/api/market/state", url.Values{
		"symbol":    {"BTCUSDT"},
		"ts":        {now.Add(-2 * time.Hour).Format(time.RFC3339)},
		"intervals": {"1h"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("http status = %d body=%s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status int `json:"status"`
		Data   struct {
			Interval       string                        `json:"interval"`
			Trend          string                        `json:"trend"`
			MultiTimeframe map[string]models.MarketState `json:"multi_timeframe"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v body=%s", err, rec.Body.String())
	}
	if resp.Status != http.StatusOK {
		t.Fatalf("body status = %d", resp.Status)
	}
	if resp.Data.Interval != "1h" {
		t.Fatalf("interval = %q, want 1h", resp.Data.Interval)
	}
	if _, ok := resp.Data.MultiTimeframe["1h"]; !ok {
		t.Fatalf("multi_timeframe missing 1h: %s", rec.Body.String())
	}
}

func TestStateEndpointValidation(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Hour)
	_, e := newTestHandler(t, now)

	// Missing symbol.
	rec := doGet(e, "/api/market/state", url.Values{"ts": {now.Format(time.RFC3339)}})
	var resp struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("body status = %d, want 400", resp.Status)
	}

	// Unparseable timestamp.
	rec = doGet(e, "/api/market/state", url.Values{"symbol": {"BTCUSDT"}, "ts": {"yesterday-ish"}})
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("body status = %d, want 400", resp.Status)
	}
}

func TestStateEndpointAbstainsWith404(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Hour)
	_, e := newTestHandler(t, now)

	rec := doGet(e, "/api/market/state", url.Values{
		"symbol":    {"DOGEUSDT"}, // no data stored
		"ts":        {now.Format(time.RFC3339)},
		"intervals": {"1h"},
	})
	var resp struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusNotFound {
		t.Fatalf("body status = %d, want 404", resp.Status)
	}
}

func TestCandlesEndpoint(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Hour)
	_, e := newTestHandler(t, now)

	rec := doGet(e, "/api/market/candles", url.Values{
		"symbol":   {"BTCUSDT"},
		"interval": {"1h"},
		"limit":    {"10"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("http status = %d body=%s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status int                      `json:"status"`
		Data   usecase.GetCandlesResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v body=%s", err, rec.Body.String())
	}
	if resp.Data.Count != 10 {
		t.Fatalf("count = %d, want 10", resp.Data.Count)
	}
	if len(resp.Data.Candles) != 10 {
		t.Fatalf("candles = %d, want 10", len(resp.Data.Candles))
	}
}
