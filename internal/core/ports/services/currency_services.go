package services

import (
	"context"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// CurrencyReaderSvc defines read operations for currency data
type CurrencyReaderSvc interface {
	// GetCurrencyByID retrieves a specific currency by its id.
	GetCurrencyByID(ctx context.Context, currencyID string) (*domain.Currency, error)

	// GetCurrencyByName retrieves a specific currency by its unique name.
	GetCurrencyByName(ctx context.Context, name string) (*domain.Currency, error)

	// GetBaseCurrency retrieves the reporting currency.
	GetBaseCurrency(ctx context.Context) (*domain.Currency, error)

	// ListCurrencies retrieves all currencies, base first, then by name.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyWriterSvc defines write operations for currency data
type CurrencyWriterSvc interface {
	// CreateCurrency persists a new currency, clearing the base flag on all
	// others first when the new currency is flagged as base.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest) (*domain.Currency, error)

	// UpdateCurrency updates a currency with the same base-flag clearing rule.
	UpdateCurrency(ctx context.Context, currencyID string, req dto.UpdateCurrencyRequest) (*domain.Currency, error)

	// DeleteCurrency removes a currency. Fails with apperrors.ErrConflict
	// while other records still reference it.
	DeleteCurrency(ctx context.Context, currencyID string) error
}

// CurrencySvcFacade combines all currency-related service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
	CurrencyWriterSvc
}

// ExchangeRateReaderSvc defines read operations for exchange rate data
type ExchangeRateReaderSvc interface {
	// ResolveRate resolves the rate for a pair as of the given date.
	// A nil date means "latest known". An unknown pair resolves to 1.
	ResolveRate(ctx context.Context, fromCurrencyID, toCurrencyID string, date *time.Time) (decimal.Decimal, error)

	// GetRateHistory retrieves every rate row for the pair, newest first.
	GetRateHistory(ctx context.Context, fromCurrencyID, toCurrencyID string) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rate data
type ExchangeRateWriterSvc interface {
	// CreateExchangeRate appends a new rate row for a pair.
	CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest) (*domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}
