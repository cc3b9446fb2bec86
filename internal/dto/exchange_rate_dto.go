package dto

import (
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest defines the structure for recording a new exchange rate.
type CreateExchangeRateRequest struct {
	FromCurrencyID string          `json:"fromCurrencyID" binding:"required,len=3,uppercase"`
	ToCurrencyID   string          `json:"toCurrencyID" binding:"required,len=3,uppercase"`
	Rate           decimal.Decimal `json:"rate" binding:"required"`
	RateDate       time.Time       `json:"rateDate" binding:"required"`
}

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	ExchangeRateID string          `json:"exchangeRateID"`
	FromCurrencyID string          `json:"fromCurrencyID"`
	ToCurrencyID   string          `json:"toCurrencyID"`
	Rate           decimal.Decimal `json:"rate"`
	RateDate       time.Time       `json:"rateDate"`
	CreatedAt      time.Time       `json:"createdAt"`
	LastUpdatedAt  time.Time       `json:"lastUpdatedAt"`
}

// ResolveRateResponse defines the response for an as-of rate lookup.
type ResolveRateResponse struct {
	FromCurrencyID string          `json:"fromCurrencyID"`
	ToCurrencyID   string          `json:"toCurrencyID"`
	Rate           decimal.Decimal `json:"rate"`
	AsOf           time.Time       `json:"asOf"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID: rate.ExchangeRateID,
		FromCurrencyID: rate.FromCurrencyID,
		ToCurrencyID:   rate.ToCurrencyID,
		Rate:           rate.Rate,
		RateDate:       rate.RateDate,
		CreatedAt:      rate.CreatedAt,
		LastUpdatedAt:  rate.LastUpdatedAt,
	}
}

// ToListExchangeRateResponse converts a slice of domain.ExchangeRate to a slice of ExchangeRateResponse DTOs.
func ToListExchangeRateResponse(rates []domain.ExchangeRate) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(rates))
	for i, rate := range rates {
		responses[i] = ToExchangeRateResponse(&rate)
	}
	return responses
}
