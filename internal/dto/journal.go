package dto

import (
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryLineRequest defines one line of a journal entry being posted.
// Exactly one of debitAmount/creditAmount should be positive; the other zero.
type CreateEntryLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	CurrencyID   string          `json:"currencyID" binding:"required,len=3,uppercase"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"` // Optional, resolved from the rate store when zero
	Description  string          `json:"description"`
}

// CreateEntryRequest defines the data needed to post a journal entry.
type CreateEntryRequest struct {
	EntryDate     time.Time                `json:"entryDate" binding:"required"`
	Description   string                   `json:"description"`
	ReferenceType *string                  `json:"referenceType"`
	ReferenceID   *string                  `json:"referenceID"`
	Lines         []CreateEntryLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateEntryRequest defines the data for replacing an entry's lines.
// The old lines are reversed and the new lines applied atomically.
type UpdateEntryRequest struct {
	EntryDate   *time.Time               `json:"entryDate"`
	Description *string                  `json:"description"`
	Lines       []CreateEntryLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// EntryLineResponse defines the data returned for a journal entry line.
type EntryLineResponse struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	AccountID    string          `json:"accountID"`
	CurrencyID   string          `json:"currencyID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	BaseAmount   decimal.Decimal `json:"baseAmount"`
	Description  string          `json:"description"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID       string              `json:"entryID"`
	EntryNumber   string              `json:"entryNumber"`
	EntryDate     time.Time           `json:"entryDate"`
	Description   string              `json:"description"`
	ReferenceType *string             `json:"referenceType,omitempty"`
	ReferenceID   *string             `json:"referenceID,omitempty"`
	Lines         []EntryLineResponse `json:"lines"`
	CreatedAt     time.Time           `json:"createdAt"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
}

// ListEntriesParams defines query parameters for listing journal entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse wraps a page of journal entries.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ReconciliationResponse defines the result of comparing an account's stored
// balance against the net of its journal lines.
type ReconciliationResponse struct {
	AccountID      string          `json:"accountID"`
	CurrencyID     string          `json:"currencyID"`
	AccountBalance decimal.Decimal `json:"accountBalance"`
	JournalBalance decimal.Decimal `json:"journalBalance"`
	Difference     decimal.Decimal `json:"difference"`
	IsBalanced     bool            `json:"isBalanced"`
}

// ToEntryLineResponse converts a domain.JournalEntryLine to EntryLineResponse DTO
func ToEntryLineResponse(line *domain.JournalEntryLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:       line.LineID,
		EntryID:      line.EntryID,
		AccountID:    line.AccountID,
		CurrencyID:   line.CurrencyID,
		DebitAmount:  line.DebitAmount,
		CreditAmount: line.CreditAmount,
		ExchangeRate: line.ExchangeRate,
		BaseAmount:   line.BaseAmount,
		Description:  line.Description,
	}
}

// ToEntryResponse converts a domain.JournalEntry to EntryResponse DTO
func ToEntryResponse(entry *domain.JournalEntry) EntryResponse {
	lines := make([]EntryLineResponse, len(entry.Lines))
	for i, line := range entry.Lines {
		lines[i] = ToEntryLineResponse(&line)
	}
	return EntryResponse{
		EntryID:       entry.EntryID,
		EntryNumber:   entry.EntryNumber,
		EntryDate:     entry.EntryDate,
		Description:   entry.Description,
		ReferenceType: entry.ReferenceType,
		ReferenceID:   entry.ReferenceID,
		Lines:         lines,
		CreatedAt:     entry.CreatedAt,
		LastUpdatedAt: entry.LastUpdatedAt,
	}
}

// ToListEntryResponse converts a slice of domain.JournalEntry to EntryResponse DTOs
func ToListEntryResponse(entries []domain.JournalEntry) []EntryResponse {
	res := make([]EntryResponse, len(entries))
	for i, entry := range entries {
		res[i] = ToEntryResponse(&entry)
	}
	return res
}

// ToReconciliationResponse converts a domain.Reconciliation to its DTO
func ToReconciliationResponse(r *domain.Reconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		AccountID:      r.AccountID,
		CurrencyID:     r.CurrencyID,
		AccountBalance: r.AccountBalance,
		JournalBalance: r.JournalBalance,
		Difference:     r.Difference,
		IsBalanced:     r.IsBalanced,
	}
}
