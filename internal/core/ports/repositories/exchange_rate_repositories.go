package repositories

import (
	"context"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// FindRateAsOf retrieves the most recent rate row for the pair dated on
	// or before the given date. Returns apperrors.ErrNotFound when no such
	// row exists.
	FindRateAsOf(ctx context.Context, fromCurrencyID, toCurrencyID string, date time.Time) (*domain.ExchangeRate, error)

	// FindLatestRate retrieves the globally newest rate row for the pair.
	// Returns apperrors.ErrNotFound when the pair has no rows at all.
	FindLatestRate(ctx context.Context, fromCurrencyID, toCurrencyID string) (*domain.ExchangeRate, error)

	// ListRateHistory retrieves every rate row for the pair, newest first.
	ListRateHistory(ctx context.Context, fromCurrencyID, toCurrencyID string) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveExchangeRate appends a new rate row. There is no uniqueness
	// constraint; multiple rates per pair and day are allowed.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate repository interfaces
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
