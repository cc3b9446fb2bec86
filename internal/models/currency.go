package models

import "github.com/shopspring/decimal"

// Currency maps to the currencies table.
type Currency struct {
	CurrencyID string          `db:"currency_id"`
	Name       string          `db:"name"` // Unique
	IsBase     bool            `db:"is_base"`
	Rate       decimal.Decimal `db:"rate"`
	AuditFields
}
