package dto

import (
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DepositRequest defines the data needed to record a deposit into an account.
// When IsFull is set the amount is ignored and the full remaining balance of
// the counter side is used, recorded as such on the transaction.
type DepositRequest struct {
	AccountID       string          `json:"accountID"` // Filled from the route path
	Amount          decimal.Decimal `json:"amount"`
	CurrencyName    string          `json:"currencyName" binding:"required"`
	Rate            decimal.Decimal `json:"rate"` // Optional, defaults to the currency's stored rate
	TransactionDate *time.Time      `json:"transactionDate"`
	IsFull          bool            `json:"isFull"`
	Notes           string          `json:"notes"`
}

// WithdrawRequest defines the data needed to record a withdrawal from an account.
type WithdrawRequest struct {
	AccountID       string          `json:"accountID"` // Filled from the route path
	Amount          decimal.Decimal `json:"amount"`
	CurrencyName    string          `json:"currencyName" binding:"required"`
	Rate            decimal.Decimal `json:"rate"`
	TransactionDate *time.Time      `json:"transactionDate"`
	IsFull          bool            `json:"isFull"`
	Notes           string          `json:"notes"`
}

// TransactionResponse defines the data returned for an account transaction.
type TransactionResponse struct {
	TransactionID   string          `json:"transactionID"`
	AccountID       string          `json:"accountID"`
	TransactionType string          `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyName    string          `json:"currencyName"`
	Rate            decimal.Decimal `json:"rate"`
	Total           decimal.Decimal `json:"total"`
	TransactionDate time.Time       `json:"transactionDate"`
	IsFull          bool            `json:"isFull"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ListTransactionsParams defines query parameters for listing account transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of account transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.AccountTransaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.AccountTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		AccountID:       txn.AccountID,
		TransactionType: string(txn.TransactionType),
		Amount:          txn.Amount,
		CurrencyName:    txn.CurrencyName,
		Rate:            txn.Rate,
		Total:           txn.Total,
		TransactionDate: txn.TransactionDate,
		IsFull:          txn.IsFull,
		Notes:           txn.Notes,
		CreatedAt:       txn.CreatedAt,
	}
}

// ToListTransactionResponse converts a slice of domain.AccountTransaction to DTOs
func ToListTransactionResponse(txns []domain.AccountTransaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		res[i] = ToTransactionResponse(&txn)
	}
	return res
}
