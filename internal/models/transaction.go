package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType mirrors domain.TransactionType for persistence.
type TransactionType string

// AccountTransaction maps to the account_transactions table. Rows are
// append-only; the ledger core never deletes them.
type AccountTransaction struct {
	TransactionID   string          `db:"transaction_id"`
	AccountID       string          `db:"account_id"`
	TransactionType TransactionType `db:"transaction_type"`
	Amount          decimal.Decimal `db:"amount"`
	CurrencyName    string          `db:"currency_name"`
	Rate            decimal.Decimal `db:"rate"`
	Total           decimal.Decimal `db:"total"`
	TransactionDate time.Time       `db:"transaction_date"`
	IsFull          bool            `db:"is_full"`
	Notes           string          `db:"notes"`
	AuditFields
}
