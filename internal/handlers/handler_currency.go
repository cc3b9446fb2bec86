package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
	"github.com/finbooks-app/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencyHandler handles HTTP requests related to currencies.
type currencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

// newCurrencyHandler creates a new currencyHandler.
func newCurrencyHandler(cs portssvc.CurrencySvcFacade) *currencyHandler {
	return &currencyHandler{
		currencyService: cs,
	}
}

// registerCurrencyRoutes registers routes related to currencies.
func registerCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	h := newCurrencyHandler(currencyService)

	currencies := rg.Group("/currencies")
	{
		currencies.POST("", h.createCurrency)
		currencies.GET("", h.listCurrencies)
		currencies.GET("/base", h.getBaseCurrency)
		currencies.GET("/:currencyID", h.getCurrencyByID)
		currencies.PUT("/:currencyID", h.updateCurrency)
		currencies.DELETE("/:currencyID", h.deleteCurrency)
	}
}

// createCurrency godoc
// @Summary Create a new currency
// @Description Adds a new currency to the registry
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   currency body dto.CreateCurrencyRequest true "Currency details"
// @Success 201 {object} dto.CurrencyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Currency already exists"
// @Failure 500 {object} map[string]string "Failed to create currency"
// @Router /currencies [post]
func (h *currencyHandler) createCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("currency_id", req.CurrencyID))
	logger.Info("Received request to create currency")

	createdCurrency, err := h.currencyService.CreateCurrency(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Attempted to create duplicate currency")
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Currency '%s' already exists", req.CurrencyID)})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating currency", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create currency in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create currency"})
		}
		return
	}

	logger.Info("Currency created successfully")
	c.JSON(http.StatusCreated, dto.ToCurrencyResponse(createdCurrency))
}

// getCurrencyByID godoc
// @Summary Get a currency by ID
// @Description Retrieves details for a specific currency by its 3-letter code
// @Tags currencies
// @Produce  json
// @Param   currencyID path string true "Currency ID (3 letters)" MinLength(3) MaxLength(3)
// @Success 200 {object} dto.CurrencyResponse
// @Failure 404 {object} map[string]string "Currency not found"
// @Failure 500 {object} map[string]string "Failed to retrieve currency"
// @Router /currencies/{currencyID} [get]
func (h *currencyHandler) getCurrencyByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	currencyID := c.Param("currencyID")

	if len(currencyID) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency ID must be 3 letters"})
		return
	}

	logger = logger.With(slog.String("currency_id", currencyID))

	currency, err := h.currencyService.GetCurrencyByID(c.Request.Context(), currencyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Currency not found")
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Currency '%s' not found", currencyID)})
		} else {
			logger.Error("Failed to get currency from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve currency"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

// getBaseCurrency godoc
// @Summary Get the base currency
// @Description Retrieves the currency flagged as the reporting base
// @Tags currencies
// @Produce  json
// @Success 200 {object} dto.CurrencyResponse
// @Failure 404 {object} map[string]string "No base currency configured"
// @Failure 500 {object} map[string]string "Failed to retrieve base currency"
// @Router /currencies/base [get]
func (h *currencyHandler) getBaseCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	currency, err := h.currencyService.GetBaseCurrency(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("No base currency configured")
			c.JSON(http.StatusNotFound, gin.H{"error": "No base currency configured"})
		} else {
			logger.Error("Failed to get base currency from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve base currency"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

// listCurrencies godoc
// @Summary List all currencies
// @Description Retrieves all currencies, base currency first, then by name
// @Tags currencies
// @Produce  json
// @Success 200 {array} dto.CurrencyResponse
// @Failure 500 {object} map[string]string "Failed to list currencies"
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	currencies, err := h.currencyService.ListCurrencies(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list currencies from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list currencies"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(currencies))
}

// updateCurrency godoc
// @Summary Update a currency
// @Description Updates a currency's name, base flag, or default rate
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   currencyID path string true "Currency ID"
// @Param   currency body dto.UpdateCurrencyRequest true "Fields to update"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Currency not found"
// @Failure 409 {object} map[string]string "Currency name already exists"
// @Failure 500 {object} map[string]string "Failed to update currency"
// @Router /currencies/{currencyID} [put]
func (h *currencyHandler) updateCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	currencyID := c.Param("currencyID")

	var req dto.UpdateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("currency_id", currencyID))

	updatedCurrency, err := h.currencyService.UpdateCurrency(c.Request.Context(), currencyID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Currency not found for update")
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Currency '%s' not found", currencyID)})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Currency name already in use")
			c.JSON(http.StatusConflict, gin.H{"error": "Currency name already exists"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error updating currency", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update currency in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update currency"})
		}
		return
	}

	logger.Info("Currency updated successfully")
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(updatedCurrency))
}

// deleteCurrency godoc
// @Summary Delete a currency
// @Description Removes a currency from the registry
// @Tags currencies
// @Produce  json
// @Param   currencyID path string true "Currency ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Currency not found"
// @Failure 409 {object} map[string]string "Currency still referenced"
// @Failure 500 {object} map[string]string "Failed to delete currency"
// @Router /currencies/{currencyID} [delete]
func (h *currencyHandler) deleteCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	currencyID := c.Param("currencyID")

	logger = logger.With(slog.String("currency_id", currencyID))

	if err := h.currencyService.DeleteCurrency(c.Request.Context(), currencyID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Currency not found for delete")
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Currency '%s' not found", currencyID)})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Currency delete refused, still referenced", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Currency '%s' is still referenced by existing records", currencyID)})
		} else {
			logger.Error("Failed to delete currency in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete currency"})
		}
		return
	}

	logger.Info("Currency deleted successfully")
	c.Status(http.StatusNoContent)
}
