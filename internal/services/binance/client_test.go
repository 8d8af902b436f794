package binance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	xhttp "MarketLens/pkg/http"
	applogger "MarketLens/pkg/logger"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func klineRow(openTime time.Time, close float64) []interface{} {
	return []interface{}{
		openTime.UnixMilli(),
		"100.0", // open
		"101.0", // high
		"99.0",  // low
		strconv.FormatFloat(close, 'f', -1, 64),
		"1000.0", // volume
		openTime.Add(time.Hour - time.Millisecond).UnixMilli(),
		"0", 0, "0", "0", "0", // unused exchange fields
	}
}

// klinesServer serves pages of hourly candles between from and the requested
// endTime, honoring startTime and limit like the real endpoint.
func klinesServer(t *testing.T, from time.Time, total int, failAfter int) (*httptest.Server, *int) {
	t.Helper()
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if failAfter > 0 && requests > failAfter {
			http.Error(w, `{"code":-1000,"msg":"internal error"}`, http.StatusInternalServerError)
			return
		}
		if r.URL.Path != "/api/v3/klines" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		q := r.URL.Query()
		startMs, _ := strconv.ParseInt(q.Get("startTime"), 10, 64)
		endMs, _ := strconv.ParseInt(q.Get("endTime"), 10, 64)
		limit, _ := strconv.Atoi(q.Get("limit"))
		start := time.UnixMilli(startMs).UTC()
		end := time.UnixMilli(endMs).UTC()

		var rows [][]interface{}
		for i := 0; i < total && len(rows) < limit; i++ {
			ts := from.Add(time.Duration(i) * time.Hour)
			if ts.Before(start) || !ts.Before(end) {
				continue
			}
			rows = append(rows, klineRow(ts, 100+float64(i)))
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rows); err != nil {
			t.Errorf("encode: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestFetchRangePaginates(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	srv, requests := klinesServer(t, from, 250, 0)

	c := NewClient(xhttp.NewClient(), srv.URL, testLogger(t),
		WithPageLimit(100),
		WithPageDelay(0),
	)

	end := from.Add(250 * time.Hour)
	candles, err := c.FetchRange(context.Background(), "BTCUSDT", domrepo.I1h, from, end)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(candles) != 250 {
		t.Fatalf("candles = %d, want 250", len(candles))
	}
	if *requests != 3 {
		t.Fatalf("requests = %d, want 3 pages", *requests)
	}
	if !candles[0].Timestamp.Equal(from) {
		t.Fatalf("first candle at %v, want %v", candles[0].Timestamp, from)
	}
	if !candles[249].Timestamp.Equal(from.Add(249 * time.Hour)) {
		t.Fatalf("last candle at %v", candles[249].Timestamp)
	}
	// No duplicates across page boundaries.
	seen := make(map[int64]bool, len(candles))
	for _, cd := range candles {
		ms := cd.Timestamp.UnixMilli()
		if seen[ms] {
			t.Fatalf("duplicate candle at %v", cd.Timestamp)
		}
		seen[ms] = true
	}
}

func TestFetchRangePartialOnMidPaginationFailure(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	srv, _ := klinesServer(t, from, 250, 1) // second page fails

	c := NewClient(xhttp.NewClient(), srv.URL, testLogger(t),
		WithPageLimit(100),
		WithPageDelay(0),
	)

	end := from.Add(250 * time.Hour)
	candles, err := c.FetchRange(context.Background(), "BTCUSDT", domrepo.I1h, from, end)
	if err == nil {
		t.Fatal("expected a fetch error")
	}
	var ferr *models.FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("err = %T, want *models.FetchError", err)
	}
	if len(candles) != 100 {
		t.Fatalf("partial candles = %d, want the first full page (100)", len(candles))
	}
}

func TestFetchRangeParsesFields(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	srv, _ := klinesServer(t, from, 1, 0)

	c := NewClient(xhttp.NewClient(), srv.URL, testLogger(t), WithPageDelay(0))
	candles, err := c.FetchRange(context.Background(), "BTCUSDT", domrepo.I1h, from, from.Add(time.Hour))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(candles) != 1 {
		t.Fatalf("candles = %d, want 1", len(candles))
	}
	got := candles[0]
	if got.Open != 100 || got.High != 101 || got.Low != 99 || got.Close != 100 || got.Volume != 1000 {
		t.Fatalf("parsed candle = %+v", got)
	}
	if !got.CloseTime.Equal(from.Add(time.Hour - time.Millisecond)) {
		t.Fatalf("close time = %v", got.CloseTime)
	}
}

func TestParseKlineRejectsShortRow(t *testing.T) {
	if _, err := parseKline([]interface{}{float64(1)}); err == nil {
		t.Fatal("expected an error for a truncated row")
	}
}
