package domain

import "github.com/shopspring/decimal"

// Currency represents a named currency in the registry.
// At most one currency carries the base flag at any time; every aggregate
// balance in the system is expressed in the base (reporting) currency.
type Currency struct {
	CurrencyID string          `json:"currencyID"` // Primary Key (e.g., UUID)
	Name       string          `json:"name"`       // Unique name, e.g. "USD"
	IsBase     bool            `json:"isBase"`     // Reporting currency flag
	Rate       decimal.Decimal `json:"rate"`       // Informational rate relative to base
	AuditFields
}
