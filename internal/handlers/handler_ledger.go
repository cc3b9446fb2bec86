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

// ledgerHandler handles HTTP requests for the append-only account transaction log.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ls,
	}
}

// registerLedgerRoutes registers the deposit, withdraw, and transaction log routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("/:accountID/deposit", h.deposit)
		accounts.POST("/:accountID/withdraw", h.withdraw)
		accounts.GET("/:accountID/transactions", h.listTransactions)
	}
}

// deposit godoc
// @Summary Record a deposit
// @Description Appends a deposit transaction and applies its base-currency total to the account balance
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   deposit body dto.DepositRequest true "Deposit details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "No account mapped for a required role"
// @Failure 500 {object} map[string]string "Failed to record deposit"
// @Router /accounts/{accountID}/deposit [post]
func (h *ledgerHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	req.AccountID = c.Param("accountID")

	logger = logger.With(slog.String("account_id", req.AccountID))
	logger.Info("Received request to record deposit")

	txn, err := h.ledgerService.Deposit(c.Request.Context(), req)
	if err != nil {
		h.writeTransactionError(c, logger, err, "deposit")
		return
	}

	logger.Info("Deposit recorded successfully", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// withdraw godoc
// @Summary Record a withdrawal
// @Description Appends a withdrawal transaction after checking the account can cover its base-currency total
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   withdrawal body dto.WithdrawRequest true "Withdrawal details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Insufficient balance or unmapped role"
// @Failure 500 {object} map[string]string "Failed to record withdrawal"
// @Router /accounts/{accountID}/withdraw [post]
func (h *ledgerHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Withdraw", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	req.AccountID = c.Param("accountID")

	logger = logger.With(slog.String("account_id", req.AccountID))
	logger.Info("Received request to record withdrawal")

	txn, err := h.ledgerService.Withdraw(c.Request.Context(), req)
	if err != nil {
		h.writeTransactionError(c, logger, err, "withdrawal")
		return
	}

	logger.Info("Withdrawal recorded successfully", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List an account's transactions
// @Description Retrieves a token-paginated page of the account's transaction log, newest first
// @Tags ledger
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Router /accounts/{accountID}/transactions [get]
func (h *ledgerHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("account_id", accountID))

	page, err := h.ledgerService.ListTransactions(c.Request.Context(), accountID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Account not found for transaction listing")
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid transaction listing parameters", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list transactions from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		}
		return
	}

	c.JSON(http.StatusOK, page)
}

// writeTransactionError maps ledger write failures to HTTP responses.
func (h *ledgerHandler) writeTransactionError(c *gin.Context, logger *slog.Logger, err error, op string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Account not found for "+op, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		logger.Warn("Insufficient balance for "+op, slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrRoleUnmapped):
		logger.Warn("Account role not mapped for "+op, slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error recording "+op, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to record "+op, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record " + op})
	}
}
