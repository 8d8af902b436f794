package api

import (
	"time"

	models "MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/usecase"
	xhttp "MarketLens/pkg/http"
	xlogger "MarketLens/pkg/logger"
	"MarketLens/pkg/util"

	"github.com/labstack/echo/v4"
)

// MarketHandler exposes the classification engine over HTTP.
type MarketHandler struct {
	logger   *xlogger.Logger
	analyzer *usecase.MarketAnalyzer
	candles  *usecase.CandlesUseCase
}

func NewMarketHandler(logger *xlogger.Logger, analyzer *usecase.MarketAnalyzer, candles *usecase.CandlesUseCase) *MarketHandler {
	return &MarketHandler{logger: logger, analyzer: analyzer, candles: candles}
}

func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api/market")
	g.GET("/state", h.State)
	g.GET("/candles", h.Candles)
}

func (h *MarketHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// State classifies the market state of a symbol at a point in time across the
// requested intervals. 404 means every interval abstained, not a failure.
func (h *MarketHandler) State(c echo.Context) error {
	req := &models.MarketStateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ts, ok := xhttp.ParseTime(req.TS)
	if !ok {
		return xhttp.BadRequestResponse(c, map[string]string{"ts": "unparseable timestamp"})
	}
	symbol := util.NormalizeSymbol(req.Symbol)
	intervals := domrepo.ParseIntervals(req.Intervals)

	view, err := h.analyzer.ClassifyMarketState(c.Request().Context(), symbol, ts, intervals)
	if err != nil {
		h.logger.Error("market state usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if view == nil {
		return xhttp.NotFoundResponse(c, map[string]string{
			"symbol": symbol,
			"reason": "no aligned candle on any requested interval",
		})
	}
	return xhttp.SuccessResponse(c, view)
}

// Candles returns a raw candle slice, fetching missing ranges on demand.
func (h *MarketHandler) Candles(c echo.Context) error {
	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	var from, to time.Time
	if req.From != "" {
		t, ok := xhttp.ParseTime(req.From)
		if !ok {
			return xhttp.BadRequestResponse(c, map[string]string{"from": "unparseable timestamp"})
		}
		from = t
	}
	if req.To != "" {
		t, ok := xhttp.ParseTime(req.To)
		if !ok {
			return xhttp.BadRequestResponse(c, map[string]string{"to": "unparseable timestamp"})
		}
		to = t
	}

	res, err := h.candles.GetCandles(c.Request().Context(), usecase.GetCandlesParams{
		Symbol:   util.NormalizeSymbol(req.Symbol),
		Interval: domrepo.Interval(req.Interval),
		From:     from,
		To:       to,
		Limit:    req.Limit,
	})
	if err != nil {
		h.logger.Error("candles usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
