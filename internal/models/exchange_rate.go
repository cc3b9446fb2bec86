package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate maps to the currency_exchange_rates table.
type ExchangeRate struct {
	ExchangeRateID string          `db:"exchange_rate_id"`
	FromCurrencyID string          `db:"from_currency_id"`
	ToCurrencyID   string          `db:"to_currency_id"`
	Rate           decimal.Decimal `db:"rate"`
	RateDate       time.Time       `db:"rate_date"`
	AuditFields
}
