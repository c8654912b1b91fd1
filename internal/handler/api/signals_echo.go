package api

import (
	"encoding/json"
	"net/http"
	"time"

	models "Radon/internal/domain/models"
	icache "Radon/internal/service/cache"
	"Radon/internal/service/ratelimit"
	"Radon/internal/usecase"
	xhttp "Radon/pkg/http"
	xlogger "Radon/pkg/logger"
	"Radon/pkg/queue"

	"github.com/labstack/echo/v4"
)

// SignalsEchoHandler implements the Echo-based HTTP surface.
type SignalsEchoHandler struct {
	logger   *xlogger.Logger
	signals  *usecase.SignalsUseCase
	bars     *usecase.BarsUseCase
	overview *usecase.OverviewUseCase
	queue    queue.QueueService
	cache    icache.BytesCache
	rl       *ratelimit.Limiter
}

func NewSignalsEchoHandler(logger *xlogger.Logger, signals *usecase.SignalsUseCase, bars *usecase.BarsUseCase, q queue.QueueService) *SignalsEchoHandler {
	return &SignalsEchoHandler{
		logger:  logger,
		signals: signals,
		bars:    bars,
		queue:   q,
		rl:      ratelimit.New(5, 2),
	}
}

// SetOverview enables the consolidated symbol overview endpoint.
func (h *SignalsEchoHandler) SetOverview(uc *usecase.OverviewUseCase) { h.overview = uc }

// SetCache enables short-lived response caching for the read endpoints.
func (h *SignalsEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *SignalsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signals", h.Signals)
	g.GET("/signals/recent", h.RecentSignals)
	g.POST("/scan", h.Scan)
	g.GET("/bars", h.Bars)
	g.GET("/overview", h.Overview)
}

func (h *SignalsEchoHandler) Overview(c echo.Context) error {
	req := &models.OverviewRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if h.overview == nil {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("not_available", "", "overview not configured", 503))
	}

	ov, err := h.overview.Overview(c.Request().Context(), req.Symbol, req.Interval)
	if err != nil {
		h.logger.Error("overview usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, ov)
}

func (h *SignalsEchoHandler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP() + ":signals") {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("rate_limited", "", "rate limited", 429))
	}

	cacheKey := "signals:" + req.Symbol + ":" + req.Interval
	ctx := c.Request().Context()
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(ctx, cacheKey); err == nil && ok {
			return c.JSONBlob(http.StatusOK, b)
		}
	}

	evs, err := h.signals.GetSignals(ctx, usecase.GetSignalsParams{
		Symbol:   req.Symbol,
		Interval: req.Interval,
		Limit:    req.Limit,
	})
	if err != nil {
		h.logger.Error("signals usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	if h.cache != nil {
		// Cache the full envelope so a hit serves the same shape as a miss.
		env := xhttp.APIResponse{
			Status:  http.StatusOK,
			Message: http.StatusText(http.StatusOK),
			Data:    evs,
		}
		if b, err := json.Marshal(env); err == nil {
			_ = h.cache.SetBytes(ctx, cacheKey, b, 15*time.Second)
		}
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, evs)
}

func (h *SignalsEchoHandler) RecentSignals(c echo.Context) error {
	req := &models.RecentSignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	evs, err := h.signals.Recent(c.Request().Context(), req.Limit)
	if err != nil {
		h.logger.Error("recent signals usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, evs)
}

func (h *SignalsEchoHandler) Scan(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	err := usecase.EnqueueScan(c.Request().Context(), h.queue, usecase.ScanPayload{
		Symbols:  req.Symbols,
		Interval: req.Interval,
		Profile:  req.Profile,
	})
	if err != nil {
		h.logger.Error("scan enqueue error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, map[string]interface{}{
		"queued":   true,
		"symbols":  len(req.Symbols),
		"interval": req.Interval,
		"profile":  req.Profile,
	})
}

func (h *SignalsEchoHandler) Bars(c echo.Context) error {
	req := &models.BarsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.bars.GetBars(c.Request().Context(), usecase.GetBarsParams{
		Symbol:   req.Symbol,
		Interval: req.Interval,
		N:        req.N,
		Annotate: req.Annotate,
	})
	if err != nil {
		h.logger.Error("bars usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
