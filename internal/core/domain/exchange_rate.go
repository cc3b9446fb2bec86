package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores the conversion rate between two currencies for a specific date.
// Multiple rows per pair are kept as a time series; resolution picks the most
// recent row dated on or before the requested date.
type ExchangeRate struct {
	ExchangeRateID string          `json:"exchangeRateID"` // Primary Key (e.g., UUID)
	FromCurrencyID string          `json:"fromCurrencyID"` // FK -> Currency.currencyID
	ToCurrencyID   string          `json:"toCurrencyID"`   // FK -> Currency.currencyID
	Rate           decimal.Decimal `json:"rate"`
	RateDate       time.Time       `json:"rateDate"`
	AuditFields
}
