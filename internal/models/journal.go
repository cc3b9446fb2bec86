package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry maps to the journal_entries table.
type JournalEntry struct {
	EntryID       string    `db:"entry_id"`
	EntryNumber   string    `db:"entry_number"` // Unique
	EntryDate     time.Time `db:"entry_date"`
	Description   string    `db:"description"`
	ReferenceType *string   `db:"reference_type"` // Nullable
	ReferenceID   *string   `db:"reference_id"`   // Nullable
	AuditFields
}

// JournalEntryLine maps to the journal_entry_lines table.
type JournalEntryLine struct {
	LineID       string          `db:"line_id"`
	EntryID      string          `db:"entry_id"`
	AccountID    string          `db:"account_id"`
	CurrencyID   string          `db:"currency_id"`
	DebitAmount  decimal.Decimal `db:"debit_amount"`
	CreditAmount decimal.Decimal `db:"credit_amount"`
	ExchangeRate decimal.Decimal `db:"exchange_rate"`
	BaseAmount   decimal.Decimal `db:"base_amount"`
	Description  string          `db:"description"`
}
