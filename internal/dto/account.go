package dto

import (
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name           string          `json:"name" binding:"required"`
	AccountType    string          `json:"accountType" binding:"required"`
	CurrencyID     *string         `json:"currencyID"` // Optional, accounts may be multi-currency
	CategoryID     *string         `json:"categoryID"`
	AccountCode    *string         `json:"accountCode"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Notes          string          `json:"notes"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name           *string          `json:"name"`
	CategoryID     *string          `json:"categoryID"`
	AccountCode    *string          `json:"accountCode"`
	InitialBalance *decimal.Decimal `json:"initialBalance"`
	Notes          *string          `json:"notes"`
	IsActive       *bool            `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID      string          `json:"accountID"`
	Name           string          `json:"name"`
	AccountType    string          `json:"accountType"`
	CurrencyID     *string         `json:"currencyID,omitempty"`
	CategoryID     *string         `json:"categoryID,omitempty"`
	AccountCode    *string         `json:"accountCode,omitempty"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	IsActive       bool            `json:"isActive"`
	Notes          string          `json:"notes"`
	CreatedAt      time.Time       `json:"createdAt"`
	LastUpdatedAt  time.Time       `json:"lastUpdatedAt"`
}

// CurrencyBalanceResponse defines the per-currency balance returned for an account.
type CurrencyBalanceResponse struct {
	AccountID  string          `json:"accountID"`
	CurrencyID string          `json:"currencyID"`
	Balance    decimal.Decimal `json:"balance"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		Name:           acc.Name,
		AccountType:    acc.AccountType,
		CurrencyID:     acc.CurrencyID,
		CategoryID:     acc.CategoryID,
		AccountCode:    acc.AccountCode,
		InitialBalance: acc.InitialBalance,
		CurrentBalance: acc.CurrentBalance,
		IsActive:       acc.IsActive,
		Notes:          acc.Notes,
		CreatedAt:      acc.CreatedAt,
		LastUpdatedAt:  acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ToCurrencyBalanceResponse converts a domain.AccountCurrencyBalance to its DTO
func ToCurrencyBalanceResponse(b *domain.AccountCurrencyBalance) CurrencyBalanceResponse {
	return CurrencyBalanceResponse{
		AccountID:  b.AccountID,
		CurrencyID: b.CurrencyID,
		Balance:    b.Balance,
	}
}

// ToListCurrencyBalanceResponse converts a slice of domain.AccountCurrencyBalance to DTOs
func ToListCurrencyBalanceResponse(balances []domain.AccountCurrencyBalance) []CurrencyBalanceResponse {
	res := make([]CurrencyBalanceResponse, len(balances))
	for i, b := range balances {
		res[i] = ToCurrencyBalanceResponse(&b)
	}
	return res
}
