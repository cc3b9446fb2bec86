package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
	"github.com/shopspring/decimal"
)

const (
	refTypeSale     = "SALE"
	refTypePurchase = "PURCHASE"
	refTypePayment  = "PAYMENT"
)

// postingService translates sales, purchases, and payments into journal
// entries. Account lookup goes through the explicit role map only; an
// unmapped role fails the posting with ErrRoleUnmapped rather than being
// skipped.
type postingService struct {
	BaseService
	journalSvc  portssvc.JournalWriterSvc
	rateSvc     portssvc.ExchangeRateReaderSvc
	currencySvc portssvc.CurrencyReaderSvc
	roleMap     domain.AccountRoleMap
}

// NewPostingService creates a new posting service.
func NewPostingService(journalSvc portssvc.JournalWriterSvc, rateSvc portssvc.ExchangeRateReaderSvc, currencySvc portssvc.CurrencyReaderSvc, roleMap domain.AccountRoleMap) *postingService {
	return &postingService{
		journalSvc:  journalSvc,
		rateSvc:     rateSvc,
		currencySvc: currencySvc,
		roleMap:     roleMap,
	}
}

// RecordSale posts revenue recognition for a sale: credit the revenue role
// for the full amount, debit the cash role for the paid portion, and debit
// the receivable role for the remainder.
func (s *postingService) RecordSale(ctx context.Context, req dto.SalePostingRequest) (*domain.JournalEntry, error) {
	if err := validateDocumentAmounts(req.TotalAmount, req.PaidAmount); err != nil {
		return nil, err
	}

	revenueID, err := s.roleMap.Resolve(domain.RoleRevenue)
	if err != nil {
		return nil, err
	}

	rate, err := s.documentRate(ctx, req.CurrencyID, req.ExchangeRate, req.SaleDate)
	if err != nil {
		return nil, err
	}

	lines := []dto.CreateEntryLineRequest{}
	if req.PaidAmount.GreaterThan(decimal.Zero) {
		cashID, err := s.roleMap.Resolve(domain.RoleCash)
		if err != nil {
			return nil, err
		}
		lines = append(lines, dto.CreateEntryLineRequest{
			AccountID:    cashID,
			CurrencyID:   req.CurrencyID,
			DebitAmount:  req.PaidAmount,
			ExchangeRate: rate,
			Description:  req.Description,
		})
	}
	if outstanding := req.TotalAmount.Sub(req.PaidAmount); outstanding.GreaterThan(decimal.Zero) {
		receivableID, err := s.roleMap.Resolve(domain.RoleReceivable)
		if err != nil {
			return nil, err
		}
		lines = append(lines, dto.CreateEntryLineRequest{
			AccountID:    receivableID,
			CurrencyID:   req.CurrencyID,
			DebitAmount:  outstanding,
			ExchangeRate: rate,
			Description:  req.Description,
		})
	}
	lines = append(lines, dto.CreateEntryLineRequest{
		AccountID:    revenueID,
		CurrencyID:   req.CurrencyID,
		CreditAmount: req.TotalAmount,
		ExchangeRate: rate,
		Description:  req.Description,
	})

	return s.post(ctx, refTypeSale, req.SaleID, req.SaleDate, req.Description, lines)
}

// RecordPurchase posts an expense for a purchase: debit the expense role for
// the full amount, credit the cash role for the paid portion, and credit the
// payable role for the remainder.
func (s *postingService) RecordPurchase(ctx context.Context, req dto.PurchasePostingRequest) (*domain.JournalEntry, error) {
	if err := validateDocumentAmounts(req.TotalAmount, req.PaidAmount); err != nil {
		return nil, err
	}

	expenseID, err := s.roleMap.Resolve(domain.RoleExpense)
	if err != nil {
		return nil, err
	}

	rate, err := s.documentRate(ctx, req.CurrencyID, req.ExchangeRate, req.PurchaseDate)
	if err != nil {
		return nil, err
	}

	lines := []dto.CreateEntryLineRequest{
		{
			AccountID:    expenseID,
			CurrencyID:   req.CurrencyID,
			DebitAmount:  req.TotalAmount,
			ExchangeRate: rate,
			Description:  req.Description,
		},
	}
	if req.PaidAmount.GreaterThan(decimal.Zero) {
		cashID, err := s.roleMap.Resolve(domain.RoleCash)
		if err != nil {
			return nil, err
		}
		lines = append(lines, dto.CreateEntryLineRequest{
			AccountID:    cashID,
			CurrencyID:   req.CurrencyID,
			CreditAmount: req.PaidAmount,
			ExchangeRate: rate,
			Description:  req.Description,
		})
	}
	if outstanding := req.TotalAmount.Sub(req.PaidAmount); outstanding.GreaterThan(decimal.Zero) {
		payableID, err := s.roleMap.Resolve(domain.RolePayable)
		if err != nil {
			return nil, err
		}
		lines = append(lines, dto.CreateEntryLineRequest{
			AccountID:    payableID,
			CurrencyID:   req.CurrencyID,
			CreditAmount: outstanding,
			ExchangeRate: rate,
			Description:  req.Description,
		})
	}

	return s.post(ctx, refTypePurchase, req.PurchaseID, req.PurchaseDate, req.Description, lines)
}

// RecordPayment posts a settlement at the payment's own rate, not the rate
// of the document being settled. Incoming payments debit cash and credit the
// receivable role; outgoing payments debit the payable role and credit cash.
func (s *postingService) RecordPayment(ctx context.Context, req dto.PaymentPostingRequest) (*domain.JournalEntry, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	cashID, err := s.roleMap.Resolve(domain.RoleCash)
	if err != nil {
		return nil, err
	}

	rate, err := s.documentRate(ctx, req.CurrencyID, req.ExchangeRate, req.PaymentDate)
	if err != nil {
		return nil, err
	}

	var debitAccount, creditAccount string
	switch req.Direction {
	case dto.PaymentIncoming:
		receivableID, err := s.roleMap.Resolve(domain.RoleReceivable)
		if err != nil {
			return nil, err
		}
		debitAccount, creditAccount = cashID, receivableID
	case dto.PaymentOutgoing:
		payableID, err := s.roleMap.Resolve(domain.RolePayable)
		if err != nil {
			return nil, err
		}
		debitAccount, creditAccount = payableID, cashID
	default:
		return nil, fmt.Errorf("%w: unknown payment direction '%s'", apperrors.ErrValidation, req.Direction)
	}

	lines := []dto.CreateEntryLineRequest{
		{
			AccountID:    debitAccount,
			CurrencyID:   req.CurrencyID,
			DebitAmount:  req.Amount,
			ExchangeRate: rate,
			Description:  req.Description,
		},
		{
			AccountID:    creditAccount,
			CurrencyID:   req.CurrencyID,
			CreditAmount: req.Amount,
			ExchangeRate: rate,
			Description:  req.Description,
		},
	}

	return s.post(ctx, refTypePayment, req.PaymentID, req.PaymentDate, req.Description, lines)
}

func (s *postingService) post(ctx context.Context, refType, refID string, date time.Time, description string, lines []dto.CreateEntryLineRequest) (*domain.JournalEntry, error) {
	entry, err := s.journalSvc.PostEntry(ctx, dto.CreateEntryRequest{
		EntryDate:     date,
		Description:   description,
		ReferenceType: &refType,
		ReferenceID:   &refID,
		Lines:         lines,
	})
	if err != nil {
		s.LogError(ctx, err, "failed to post document entry",
			slog.String("reference_type", refType),
			slog.String("reference_id", refID))
		return nil, err
	}

	s.LogInfo(ctx, "document posted",
		slog.String("reference_type", refType),
		slog.String("reference_id", refID),
		slog.String("entry_number", entry.EntryNumber))

	return entry, nil
}

// documentRate uses the caller's explicit rate when given, otherwise
// resolves from the rate store as of the document date.
func (s *postingService) documentRate(ctx context.Context, currencyID string, explicit decimal.Decimal, asOf time.Time) (decimal.Decimal, error) {
	if !explicit.IsZero() {
		if explicit.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
		}
		return explicit, nil
	}
	base, err := s.currencySvc.GetBaseCurrency(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.NewFromInt(1), nil
		}
		return decimal.Zero, fmt.Errorf("failed to find base currency: %w", err)
	}
	return s.rateSvc.ResolveRate(ctx, currencyID, base.CurrencyID, &asOf)
}

func validateDocumentAmounts(total, paid decimal.Decimal) error {
	if total.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: total amount must be positive", apperrors.ErrValidation)
	}
	if paid.IsNegative() {
		return fmt.Errorf("%w: paid amount cannot be negative", apperrors.ErrValidation)
	}
	if paid.GreaterThan(total) {
		return fmt.Errorf("%w: paid amount exceeds total", apperrors.ErrValidation)
	}
	return nil
}
