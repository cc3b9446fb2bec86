package models

import "github.com/shopspring/decimal"

// Account maps to the accounts table.
type Account struct {
	AccountID      string          `db:"account_id"`
	Name           string          `db:"name"`
	CurrencyID     *string         `db:"currency_id"`  // Nullable
	CategoryID     *string         `db:"category_id"`  // Nullable
	AccountCode    *string         `db:"account_code"` // Nullable, unique when set
	AccountType    string          `db:"account_type"`
	InitialBalance decimal.Decimal `db:"initial_balance"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	IsActive       bool            `db:"is_active"`
	Notes          string          `db:"notes"`
	AuditFields
}

// AccountCurrencyBalance maps to the account_currency_balances table,
// keyed uniquely by (account_id, currency_id).
type AccountCurrencyBalance struct {
	AccountID  string          `db:"account_id"`
	CurrencyID string          `db:"currency_id"`
	Balance    decimal.Decimal `db:"balance"`
}
