package repositories

import (
	"context"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
)

// CurrencyReader defines read operations for currency data
type CurrencyReader interface {
	// FindCurrencyByID retrieves a currency by its id.
	FindCurrencyByID(ctx context.Context, currencyID string) (*domain.Currency, error)

	// FindCurrencyByName retrieves a currency by its unique name.
	FindCurrencyByName(ctx context.Context, name string) (*domain.Currency, error)

	// FindBaseCurrency retrieves the currency flagged as base, if any.
	FindBaseCurrency(ctx context.Context) (*domain.Currency, error)

	// ListCurrencies retrieves all currencies, base currency first, then by name.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyWriter defines write operations for currency data
type CurrencyWriter interface {
	// SaveCurrency persists a new currency.
	SaveCurrency(ctx context.Context, currency domain.Currency) error

	// UpdateCurrency updates an existing currency.
	UpdateCurrency(ctx context.Context, currency domain.Currency) error

	// ClearBaseFlagExcept unsets the base flag on every currency except the
	// given id. Pass an empty id to clear the flag everywhere.
	ClearBaseFlagExcept(ctx context.Context, currencyID string) error

	// DeleteCurrency removes a currency. Fails with apperrors.ErrConflict
	// when the schema's foreign keys still reference it.
	DeleteCurrency(ctx context.Context, currencyID string) error
}

// CurrencyRepositoryFacade combines all currency-related repository interfaces
type CurrencyRepositoryFacade interface {
	CurrencyReader
	CurrencyWriter
}
