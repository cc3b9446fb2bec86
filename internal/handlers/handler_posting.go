package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
	"github.com/finbooks-app/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// postingHandler handles HTTP requests that translate business documents
// into journal entries.
type postingHandler struct {
	postingService portssvc.PostingSvcFacade
}

// newPostingHandler creates a new postingHandler.
func newPostingHandler(ps portssvc.PostingSvcFacade) *postingHandler {
	return &postingHandler{
		postingService: ps,
	}
}

// registerPostingRoutes registers routes for document postings.
func registerPostingRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newPostingHandler(postingService)

	postings := rg.Group("/postings")
	{
		postings.POST("/sales", h.recordSale)
		postings.POST("/purchases", h.recordPurchase)
		postings.POST("/payments", h.recordPayment)
	}
}

// recordSale godoc
// @Summary Post a sale
// @Description Translates a sale into a journal entry splitting the paid portion to cash and the remainder to receivable
// @Tags postings
// @Accept  json
// @Produce  json
// @Param   sale body dto.SalePostingRequest true "Sale details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "No account mapped for a required role"
// @Failure 500 {object} map[string]string "Failed to post sale"
// @Router /postings/sales [post]
func (h *postingHandler) recordSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SalePostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordSale", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("sale_id", req.SaleID))
	logger.Info("Received request to post sale")

	entry, err := h.postingService.RecordSale(c.Request.Context(), req)
	if err != nil {
		h.writePostingError(c, logger, err, "sale")
		return
	}

	logger.Info("Sale posted successfully", slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// recordPurchase godoc
// @Summary Post a purchase
// @Description Translates a purchase into a journal entry splitting the paid portion to cash and the remainder to payable
// @Tags postings
// @Accept  json
// @Produce  json
// @Param   purchase body dto.PurchasePostingRequest true "Purchase details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "No account mapped for a required role"
// @Failure 500 {object} map[string]string "Failed to post purchase"
// @Router /postings/purchases [post]
func (h *postingHandler) recordPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PurchasePostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordPurchase", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("purchase_id", req.PurchaseID))
	logger.Info("Received request to post purchase")

	entry, err := h.postingService.RecordPurchase(c.Request.Context(), req)
	if err != nil {
		h.writePostingError(c, logger, err, "purchase")
		return
	}

	logger.Info("Purchase posted successfully", slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// recordPayment godoc
// @Summary Post a payment
// @Description Translates an incoming or outgoing payment into a journal entry settling receivable or payable
// @Tags postings
// @Accept  json
// @Produce  json
// @Param   payment body dto.PaymentPostingRequest true "Payment details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "No account mapped for a required role"
// @Failure 500 {object} map[string]string "Failed to post payment"
// @Router /postings/payments [post]
func (h *postingHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PaymentPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(
		slog.String("payment_id", req.PaymentID),
		slog.String("direction", string(req.Direction)),
	)
	logger.Info("Received request to post payment")

	entry, err := h.postingService.RecordPayment(c.Request.Context(), req)
	if err != nil {
		h.writePostingError(c, logger, err, "payment")
		return
	}

	logger.Info("Payment posted successfully", slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// writePostingError maps document posting failures to HTTP responses.
func (h *postingHandler) writePostingError(c *gin.Context, logger *slog.Logger, err error, doc string) {
	switch {
	case errors.Is(err, apperrors.ErrRoleUnmapped):
		logger.Warn("Account role not mapped for "+doc+" posting", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error posting "+doc, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Referenced entity not found posting "+doc, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to post "+doc, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post " + doc})
	}
}
