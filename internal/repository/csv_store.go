package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	applogger "MarketLens/pkg/logger"
	"MarketLens/pkg/util"
)

// csvHeader is the persisted column layout. Extra exchange columns after
// close_time are tolerated on load and dropped on save.
var csvHeader = []string{"timestamp", "open", "high", "low", "close", "volume", "close_time"}

// CSVSeriesStore persists one candle series per (symbol, interval) pair as a
// CSV file under dir. Saves are atomic: a temp file is written and renamed
// over the previous series.
type CSVSeriesStore struct {
	dir string
	l   *applogger.Logger
}

func NewCSVSeriesStore(dir string, l *applogger.Logger) *CSVSeriesStore {
	return &CSVSeriesStore{dir: dir, l: l}
}

func (s *CSVSeriesStore) path(symbol string, iv domrepo.Interval) string {
	return filepath.Join(s.dir, fmt.Sprintf("market_data_%s_%s.csv", symbol, iv))
}

func (s *CSVSeriesStore) Load(_ context.Context, symbol string, iv domrepo.Interval) ([]models.Candle, error) {
	f, err := os.Open(s.path(symbol, iv))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domrepo.ErrSeriesNotFound
		}
		return nil, &models.StoreError{Op: "load", Symbol: symbol, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate extra exchange columns

	rows, err := r.ReadAll()
	if err != nil {
		return nil, &models.StoreError{Op: "load", Symbol: symbol, Err: err}
	}

	candles := make([]models.Candle, 0, len(rows))
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == "timestamp" {
			continue // header
		}
		c, err := parseRow(row)
		if err != nil {
			return nil, &models.StoreError{Op: "load", Symbol: symbol, Err: fmt.Errorf("row %d: %w", i, err)}
		}
		candles = append(candles, c)
	}

	models.SortCandles(candles)
	return candles, nil
}

func (s *CSVSeriesStore) Save(_ context.Context, symbol string, iv domrepo.Interval, candles []models.Candle) error {
	merged := models.MergeCandles(nil, candles) // sorted, deduplicated

	tmp, err := os.CreateTemp(s.dir, fmt.Sprintf(".market_data_%s_%s_*.csv", symbol, iv))
	if err != nil {
		return &models.StoreError{Op: "save", Symbol: symbol, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		tmp.Close()
		return &models.StoreError{Op: "save", Symbol: symbol, Err: err}
	}
	for _, c := range merged {
		row := []string{
			util.FormatTime(c.Timestamp),
			formatFloat(c.Open),
			formatFloat(c.High),
			formatFloat(c.Low),
			formatFloat(c.Close),
			formatFloat(c.Volume),
			"",
		}
		if !c.CloseTime.IsZero() {
			row[6] = util.FormatTime(c.CloseTime)
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return &models.StoreError{Op: "save", Symbol: symbol, Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return &models.StoreError{Op: "save", Symbol: symbol, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &models.StoreError{Op: "save", Symbol: symbol, Err: err}
	}

	if err := os.Rename(tmpName, s.path(symbol, iv)); err != nil {
		return &models.StoreError{Op: "save", Symbol: symbol, Err: err}
	}

	if s.l != nil {
		s.l.Debug("series saved",
			applogger.String("symbol", symbol),
			applogger.String("interval", string(iv)),
			applogger.Int("candles", len(merged)),
		)
	}
	return nil
}

func parseRow(row []string) (models.Candle, error) {
	var c models.Candle
	if len(row) < 6 {
		return c, fmt.Errorf("expected at least 6 columns, got %d", len(row))
	}

	ts, ok := util.ParseTime(row[0])
	if !ok {
		return c, fmt.Errorf("bad timestamp %q", row[0])
	}
	c.Timestamp = ts

	vals := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(row[i+1], 64)
		if err != nil {
			return c, fmt.Errorf("bad %s %q", csvHeader[i+1], row[i+1])
		}
		vals[i] = v
	}
	c.Open, c.High, c.Low, c.Close, c.Volume = vals[0], vals[1], vals[2], vals[3], vals[4]

	if len(row) > 6 && row[6] != "" {
		if ct, ok := util.ParseTime(row[6]); ok {
			c.CloseTime = ct
		}
	}
	return c, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var _ domrepo.SeriesStore = (*CSVSeriesStore)(nil)
