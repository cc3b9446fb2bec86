package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// currencyService provides business logic for the currency registry.
type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates a new currency service.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) *currencyService {
	return &currencyService{currencyRepo: currencyRepo}
}

// CreateCurrency registers a new currency. If the new currency is flagged as
// base, the base flag is cleared on every other currency first so at most one
// base currency exists at a time.
func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest) (*domain.Currency, error) {
	rate := req.Rate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}
	if rate.IsNegative() {
		return nil, fmt.Errorf("%w: currency rate must be positive", apperrors.ErrValidation)
	}

	now := time.Now()
	currency := domain.Currency{
		CurrencyID: req.CurrencyID,
		Name:       req.Name,
		IsBase:     req.IsBase,
		Rate:       rate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if req.IsBase {
		if err := s.currencyRepo.ClearBaseFlagExcept(ctx, req.CurrencyID); err != nil {
			return nil, fmt.Errorf("failed to clear base currency flag: %w", err)
		}
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		s.LogError(ctx, err, "failed to create currency", slog.String("currency_id", req.CurrencyID))
		return nil, fmt.Errorf("failed to create currency: %w", err)
	}

	return &currency, nil
}

// GetCurrencyByID retrieves a currency by its identifier.
func (s *currencyService) GetCurrencyByID(ctx context.Context, currencyID string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByID(ctx, currencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency %s: %w", currencyID, err)
	}
	return currency, nil
}

// GetCurrencyByName retrieves a currency by its unique name.
func (s *currencyService) GetCurrencyByName(ctx context.Context, name string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency by name %s: %w", name, err)
	}
	return currency, nil
}

// GetBaseCurrency retrieves the currency currently flagged as base.
func (s *currencyService) GetBaseCurrency(ctx context.Context) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindBaseCurrency(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get base currency: %w", err)
	}
	return currency, nil
}

// ListCurrencies returns all currencies, base currency first then by name.
func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

// UpdateCurrency updates a currency. Setting the base flag clears it on
// every other currency, excluding the row being updated.
func (s *currencyService) UpdateCurrency(ctx context.Context, currencyID string, req dto.UpdateCurrencyRequest) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByID(ctx, currencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find currency %s for update: %w", currencyID, err)
	}

	if req.Name != nil {
		currency.Name = *req.Name
	}
	if req.Rate != nil {
		if req.Rate.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: currency rate must be positive", apperrors.ErrValidation)
		}
		currency.Rate = *req.Rate
	}
	if req.IsBase != nil {
		currency.IsBase = *req.IsBase
		if *req.IsBase {
			if err := s.currencyRepo.ClearBaseFlagExcept(ctx, currencyID); err != nil {
				return nil, fmt.Errorf("failed to clear base currency flag: %w", err)
			}
		}
	}
	currency.LastUpdatedAt = time.Now()

	if err := s.currencyRepo.UpdateCurrency(ctx, *currency); err != nil {
		s.LogError(ctx, err, "failed to update currency", slog.String("currency_id", currencyID))
		return nil, fmt.Errorf("failed to update currency %s: %w", currencyID, err)
	}

	return currency, nil
}

// DeleteCurrency removes a currency. The storage layer's foreign keys refuse
// the delete with ErrConflict while rates, balances, transactions, or
// journal lines still reference it.
func (s *currencyService) DeleteCurrency(ctx context.Context, currencyID string) error {
	if err := s.currencyRepo.DeleteCurrency(ctx, currencyID); err != nil {
		return fmt.Errorf("failed to delete currency %s: %w", currencyID, err)
	}
	return nil
}
