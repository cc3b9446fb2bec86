package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// exchangeRateService provides business logic for the exchange rate store.
type exchangeRateService struct {
	BaseService
	rateRepo    portsrepo.ExchangeRateRepositoryFacade
	currencySvc portssvc.CurrencyReaderSvc
}

// NewExchangeRateService creates a new exchange rate service.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, currencySvc portssvc.CurrencyReaderSvc) *exchangeRateService {
	return &exchangeRateService{
		rateRepo:    rateRepo,
		currencySvc: currencySvc,
	}
}

// CreateExchangeRate appends a new rate record for a currency pair. Multiple
// records per pair and date are allowed; resolution picks by date, not
// insertion order.
func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest) (*domain.ExchangeRate, error) {
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if req.FromCurrencyID == req.ToCurrencyID {
		return nil, fmt.Errorf("%w: from and to currencies cannot be the same", apperrors.ErrValidation)
	}

	if _, err := s.currencySvc.GetCurrencyByID(ctx, req.FromCurrencyID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: 'from' currency '%s' not found", apperrors.ErrValidation, req.FromCurrencyID)
		}
		return nil, fmt.Errorf("failed to validate 'from' currency '%s': %w", req.FromCurrencyID, err)
	}
	if _, err := s.currencySvc.GetCurrencyByID(ctx, req.ToCurrencyID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: 'to' currency '%s' not found", apperrors.ErrValidation, req.ToCurrencyID)
		}
		return nil, fmt.Errorf("failed to validate 'to' currency '%s': %w", req.ToCurrencyID, err)
	}

	now := time.Now()
	rate := domain.ExchangeRate{
		ExchangeRateID: uuid.NewString(),
		FromCurrencyID: req.FromCurrencyID,
		ToCurrencyID:   req.ToCurrencyID,
		Rate:           req.Rate,
		RateDate:       req.RateDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to create exchange rate: %w", err)
	}

	return &rate, nil
}

// ResolveRate returns the effective rate for a currency pair. With a date it
// picks the most recent record dated on or before it; without one, or when no
// such record exists, it falls back to the latest record for the pair, and
// finally to 1 when the pair has no records at all.
func (s *exchangeRateService) ResolveRate(ctx context.Context, fromCurrencyID, toCurrencyID string, asOf *time.Time) (decimal.Decimal, error) {
	if fromCurrencyID == toCurrencyID {
		return decimal.NewFromInt(1), nil
	}

	if asOf != nil {
		rate, err := s.rateRepo.FindRateAsOf(ctx, fromCurrencyID, toCurrencyID, *asOf)
		if err == nil {
			return rate.Rate, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("failed to resolve rate %s/%s: %w", fromCurrencyID, toCurrencyID, err)
		}
	}

	rate, err := s.rateRepo.FindLatestRate(ctx, fromCurrencyID, toCurrencyID)
	if err == nil {
		return rate.Rate, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return decimal.Zero, fmt.Errorf("failed to resolve latest rate %s/%s: %w", fromCurrencyID, toCurrencyID, err)
	}

	// No record for the pair at all, default to parity.
	return decimal.NewFromInt(1), nil
}

// GetRateHistory returns all rate records for a pair, newest first.
func (s *exchangeRateService) GetRateHistory(ctx context.Context, fromCurrencyID, toCurrencyID string) ([]domain.ExchangeRate, error) {
	rates, err := s.rateRepo.ListRateHistory(ctx, fromCurrencyID, toCurrencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate history %s/%s: %w", fromCurrencyID, toCurrencyID, err)
	}
	if rates == nil {
		return []domain.ExchangeRate{}, nil
	}
	return rates, nil
}
