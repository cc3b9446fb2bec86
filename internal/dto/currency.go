package dto

import (
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCurrencyRequest defines the data needed to register a new currency.
type CreateCurrencyRequest struct {
	CurrencyID string          `json:"currencyID" binding:"required,len=3,uppercase"`
	Name       string          `json:"name" binding:"required"`
	IsBase     bool            `json:"isBase"`
	Rate       decimal.Decimal `json:"rate"` // Optional, defaults to 1 when zero
}

// UpdateCurrencyRequest defines the data allowed for updating a currency.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateCurrencyRequest struct {
	Name   *string          `json:"name"`
	IsBase *bool            `json:"isBase"`
	Rate   *decimal.Decimal `json:"rate"`
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyID    string          `json:"currencyID"`
	Name          string          `json:"name"`
	IsBase        bool            `json:"isBase"`
	Rate          decimal.Decimal `json:"rate"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO
func ToCurrencyResponse(c *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyID:    c.CurrencyID,
		Name:          c.Name,
		IsBase:        c.IsBase,
		Rate:          c.Rate,
		CreatedAt:     c.CreatedAt,
		LastUpdatedAt: c.LastUpdatedAt,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to a slice of CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, c := range currencies {
		res[i] = ToCurrencyResponse(&c)
	}
	return res
}
