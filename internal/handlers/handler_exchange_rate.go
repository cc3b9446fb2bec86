package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
	"github.com/finbooks-app/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	rateService portssvc.ExchangeRateSvcFacade
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(rs portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{
		rateService: rs,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, rateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(rateService)

	rates := rg.Group("/exchange-rates")
	{
		rates.POST("", h.createExchangeRate)
		rates.GET("/resolve", h.resolveRate)
		rates.GET("/:fromCurrencyID/:toCurrencyID/history", h.getRateHistory)
	}
}

// createExchangeRate godoc
// @Summary Record a new exchange rate
// @Description Appends a dated exchange rate for a currency pair
// @Tags exchange-rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateExchangeRateRequest true "Exchange rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to record exchange rate"
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExchangeRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(
		slog.String("from_currency_id", req.FromCurrencyID),
		slog.String("to_currency_id", req.ToCurrencyID),
	)
	logger.Info("Received request to record exchange rate")

	createdRate, err := h.rateService.CreateExchangeRate(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error recording exchange rate", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to record exchange rate in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record exchange rate"})
		}
		return
	}

	logger.Info("Exchange rate recorded successfully")
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(createdRate))
}

// resolveRate godoc
// @Summary Resolve the exchange rate for a pair
// @Description Resolves the rate effective at a given date, falling back to the latest known rate, then to 1
// @Tags exchange-rates
// @Produce  json
// @Param   from query string true "From currency ID"
// @Param   to query string true "To currency ID"
// @Param   asOf query string false "As-of date (RFC3339)"
// @Success 200 {object} dto.ResolveRateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to resolve rate"
// @Router /exchange-rates/resolve [get]
func (h *exchangeRateHandler) resolveRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameters 'from' and 'to' are required"})
		return
	}

	asOf := time.Now()
	var asOfPtr *time.Time
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date, expected RFC3339"})
			return
		}
		asOf = parsed
		asOfPtr = &parsed
	}

	logger = logger.With(slog.String("from_currency_id", from), slog.String("to_currency_id", to))

	rate, err := h.rateService.ResolveRate(c.Request.Context(), from, to, asOfPtr)
	if err != nil {
		logger.Error("Failed to resolve exchange rate", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve rate"})
		return
	}

	c.JSON(http.StatusOK, dto.ResolveRateResponse{
		FromCurrencyID: from,
		ToCurrencyID:   to,
		Rate:           rate,
		AsOf:           asOf,
	})
}

// getRateHistory godoc
// @Summary Get the rate history for a pair
// @Description Retrieves every recorded rate for the pair, newest first
// @Tags exchange-rates
// @Produce  json
// @Param   fromCurrencyID path string true "From currency ID"
// @Param   toCurrencyID path string true "To currency ID"
// @Success 200 {array} dto.ExchangeRateResponse
// @Failure 500 {object} map[string]string "Failed to retrieve rate history"
// @Router /exchange-rates/{fromCurrencyID}/{toCurrencyID}/history [get]
func (h *exchangeRateHandler) getRateHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from := c.Param("fromCurrencyID")
	to := c.Param("toCurrencyID")

	logger = logger.With(slog.String("from_currency_id", from), slog.String("to_currency_id", to))

	history, err := h.rateService.GetRateHistory(c.Request.Context(), from, to)
	if err != nil {
		logger.Error("Failed to get rate history from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rate history"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(history))
}
