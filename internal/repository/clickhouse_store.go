package repository

import (
	"context"
	"database/sql"
	"fmt"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	pkgch "MarketLens/pkg/clickhouse"
	applogger "MarketLens/pkg/logger"
)

// CandlesSchema is the idempotent schema for the ClickHouse series backend.
// ReplacingMergeTree keyed by (symbol, interval, ts) gives the same
// keep-latest dedup semantics as the whole-file CSV overwrite.
var CandlesSchema = []string{
	"CREATE DATABASE IF NOT EXISTS marketlens",
	`CREATE TABLE IF NOT EXISTS marketlens.candles (
        symbol String,
        interval String,
        ts DateTime64(3),
        open Float64,
        high Float64,
        low Float64,
        close Float64,
        volume Float64,
        close_time DateTime64(3)
    ) ENGINE = ReplacingMergeTree
    ORDER BY (symbol, interval, ts)`,
}

const candlesTable = "marketlens.candles"

// CHSeriesStore implements SeriesStore backed by ClickHouse.
type CHSeriesStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHSeriesStore(ch *pkgch.Client, l *applogger.Logger) *CHSeriesStore {
	return &CHSeriesStore{db: ch.DB(), l: l}
}

func (s *CHSeriesStore) Load(ctx context.Context, symbol string, iv domrepo.Interval) ([]models.Candle, error) {
	const q = `
        SELECT ts, open, high, low, close, volume, close_time
        FROM ` + candlesTable + ` FINAL
        WHERE symbol = ? AND interval = ?
        ORDER BY ts ASC
    `
	rows, err := s.db.QueryContext(ctx, q, symbol, string(iv))
	if err != nil {
		return nil, &models.StoreError{Op: "load", Symbol: symbol, Err: err}
	}
	defer rows.Close()

	out := make([]models.Candle, 0, 1024)
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume, &c.CloseTime); err != nil {
			return nil, &models.StoreError{Op: "load", Symbol: symbol, Err: fmt.Errorf("scan candle: %w", err)}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.StoreError{Op: "load", Symbol: symbol, Err: err}
	}
	if len(out) == 0 {
		return nil, domrepo.ErrSeriesNotFound
	}
	return out, nil
}

func (s *CHSeriesStore) Save(ctx context.Context, symbol string, iv domrepo.Interval, candles []models.Candle) error {
	merged := models.MergeCandles(nil, candles)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &models.StoreError{Op: "save", Symbol: symbol, Err: err}
	}
	const q = "INSERT INTO " + candlesTable +
		" (symbol, interval, ts, open, high, low, close, volume, close_time) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return &models.StoreError{Op: "save", Symbol: symbol, Err: err}
	}
	defer stmt.Close()

	for _, c := range merged {
		if _, err := stmt.ExecContext(ctx,
			symbol, string(iv), c.Timestamp, c.Open, c.High, c.Low, c.Close, c.Volume, c.CloseTime,
		); err != nil {
			_ = tx.Rollback()
			return &models.StoreError{Op: "save", Symbol: symbol, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
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

var _ domrepo.SeriesStore = (*CHSeriesStore)(nil)
