package domain

import "github.com/shopspring/decimal"

// Account represents a financial account attached to the chart of accounts.
// CurrentBalance is a derived reporting-currency aggregate, recomputed from
// the transaction log on every balance-affecting write; it is never trusted
// from caller input.
type Account struct {
	AccountID      string          `json:"accountID"`   // Primary Key (e.g., UUID)
	Name           string          `json:"name"`        // User-defined name
	CurrencyID     *string         `json:"currencyID"`  // Optional default currency
	CategoryID     *string         `json:"categoryID"`  // Optional FK -> CoaCategory
	AccountCode    *string         `json:"accountCode"` // Optional, unique when set
	AccountType    string          `json:"accountType"` // Optional type label, e.g. "cash"
	InitialBalance decimal.Decimal `json:"initialBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"` // Derived reporting-currency aggregate
	IsActive       bool            `json:"isActive"`
	Notes          string          `json:"notes"`
	AuditFields
}

// AccountCurrencyBalance is the authoritative running total an account holds
// in one currency, keyed uniquely by (account, currency).
type AccountCurrencyBalance struct {
	AccountID  string          `json:"accountID"`
	CurrencyID string          `json:"currencyID"`
	Balance    decimal.Decimal `json:"balance"`
}

// BalanceKey identifies one (account, currency) balance in a posting's set of
// balance changes.
type BalanceKey struct {
	AccountID  string
	CurrencyID string
}
