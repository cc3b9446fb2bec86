package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
	"github.com/finbooks-app/finbooks_backend/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// journalService implements the double-entry core: posting and editing
// journal entries, applying their per-currency balance effects, and
// reconciling the two balance representations.
//
// Entries are deliberately allowed to be unbalanced; sum(debits) ==
// sum(credits) is never checked at write time. Reconciliation is the
// mechanism for detecting imbalance.
type journalService struct {
	BaseService
	journalRepo  portsrepo.JournalRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
	currencyRepo portsrepo.CurrencyRepositoryFacade
	rateSvc      portssvc.ExchangeRateReaderSvc
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, currencyRepo portsrepo.CurrencyRepositoryFacade, rateSvc portssvc.ExchangeRateReaderSvc) *journalService {
	return &journalService{
		journalRepo:  journalRepo,
		accountRepo:  accountRepo,
		currencyRepo: currencyRepo,
		rateSvc:      rateSvc,
	}
}

// PostEntry persists a new journal entry. The entry number is assigned
// inside the storage transaction as max existing sequence + 1, and every
// line's balance effect (+debit or -credit) is applied to its (account,
// currency) balance in the same transaction.
func (s *journalService) PostEntry(ctx context.Context, req dto.CreateEntryRequest) (*domain.JournalEntry, error) {
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: entry requires at least one line", apperrors.ErrValidation)
	}

	entryID := uuid.NewString()
	lines, err := s.buildLines(ctx, entryID, req.EntryDate, req.Lines)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entry := domain.JournalEntry{
		EntryID:       entryID,
		EntryDate:     req.EntryDate,
		Description:   req.Description,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		Lines:         lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	balanceChanges := make(map[domain.BalanceKey]decimal.Decimal)
	for _, line := range lines {
		key := domain.BalanceKey{AccountID: line.AccountID, CurrencyID: line.CurrencyID}
		balanceChanges[key] = balanceChanges[key].Add(accounting.LineBalanceEffect(line))
	}

	entryNumber, err := s.journalRepo.SaveEntry(ctx, entry, balanceChanges)
	if err != nil {
		s.LogError(ctx, err, "failed to post journal entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to post journal entry: %w", err)
	}
	entry.EntryNumber = entryNumber

	s.LogInfo(ctx, "journal entry posted",
		slog.String("entry_id", entryID),
		slog.String("entry_number", entryNumber),
		slog.Int("lines", len(lines)))

	return &entry, nil
}

// UpdateEntry replaces an entry's lines using an undo-then-redo strategy:
// the old lines' balance effects are reversed and the new lines' effects
// applied, in one storage transaction, together with a mirrored account
// transaction per new line. The net effect on every touched (account,
// currency) pair equals posting the new lines from the pre-entry state.
func (s *journalService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	oldLines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines of entry %s: %w", entryID, err)
	}

	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: entry requires at least one line", apperrors.ErrValidation)
	}

	if req.EntryDate != nil {
		entry.EntryDate = *req.EntryDate
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	entry.LastUpdatedAt = time.Now()

	newLines, err := s.buildLines(ctx, entryID, entry.EntryDate, req.Lines)
	if err != nil {
		return nil, err
	}

	balanceChanges := make(map[domain.BalanceKey]decimal.Decimal)
	for _, line := range oldLines {
		key := domain.BalanceKey{AccountID: line.AccountID, CurrencyID: line.CurrencyID}
		balanceChanges[key] = balanceChanges[key].Sub(accounting.LineBalanceEffect(line))
	}
	for _, line := range newLines {
		key := domain.BalanceKey{AccountID: line.AccountID, CurrencyID: line.CurrencyID}
		balanceChanges[key] = balanceChanges[key].Add(accounting.LineBalanceEffect(line))
	}

	mirrors, err := s.buildLineMirrors(ctx, entry.EntryDate, newLines)
	if err != nil {
		return nil, err
	}

	if err := s.journalRepo.ReplaceEntryLines(ctx, *entry, newLines, balanceChanges, mirrors); err != nil {
		s.LogError(ctx, err, "failed to update journal entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update journal entry %s: %w", entryID, err)
	}
	entry.Lines = newLines

	s.LogInfo(ctx, "journal entry updated",
		slog.String("entry_id", entryID),
		slog.Int("old_lines", len(oldLines)),
		slog.Int("new_lines", len(newLines)))

	return entry, nil
}

// buildLines validates and materializes request lines. A line missing its
// exchange rate gets it resolved against the base currency as of the entry
// date.
func (s *journalService) buildLines(ctx context.Context, entryID string, entryDate time.Time, reqLines []dto.CreateEntryLineRequest) ([]domain.JournalEntryLine, error) {
	accountIDs := make([]string, 0, len(reqLines))
	for _, line := range reqLines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load line accounts: %w", err)
	}

	var baseCurrencyID string
	base, err := s.currencyRepo.FindBaseCurrency(ctx)
	if err == nil {
		baseCurrencyID = base.CurrencyID
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find base currency: %w", err)
	}

	lines := make([]domain.JournalEntryLine, 0, len(reqLines))
	for i, reqLine := range reqLines {
		if reqLine.DebitAmount.IsNegative() || reqLine.CreditAmount.IsNegative() {
			return nil, fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrValidation, i)
		}
		if reqLine.DebitAmount.IsZero() && reqLine.CreditAmount.IsZero() {
			return nil, fmt.Errorf("%w: line %d has no amount", apperrors.ErrValidation, i)
		}
		if _, ok := accounts[reqLine.AccountID]; !ok {
			return nil, fmt.Errorf("%w: line %d account '%s' not found", apperrors.ErrValidation, i, reqLine.AccountID)
		}
		if _, err := s.currencyRepo.FindCurrencyByID(ctx, reqLine.CurrencyID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: line %d currency '%s' not found", apperrors.ErrValidation, i, reqLine.CurrencyID)
			}
			return nil, fmt.Errorf("failed to validate line %d currency: %w", i, err)
		}

		rate := reqLine.ExchangeRate
		if rate.IsZero() {
			if baseCurrencyID == "" {
				rate = decimal.NewFromInt(1)
			} else {
				rate, err = s.rateSvc.ResolveRate(ctx, reqLine.CurrencyID, baseCurrencyID, &entryDate)
				if err != nil {
					return nil, fmt.Errorf("failed to resolve rate for line %d: %w", i, err)
				}
			}
		}
		if rate.IsNegative() {
			return nil, fmt.Errorf("%w: line %d has a negative exchange rate", apperrors.ErrValidation, i)
		}

		lines = append(lines, domain.JournalEntryLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    reqLine.AccountID,
			CurrencyID:   reqLine.CurrencyID,
			DebitAmount:  reqLine.DebitAmount,
			CreditAmount: reqLine.CreditAmount,
			ExchangeRate: rate,
			BaseAmount:   accounting.LineBaseAmount(reqLine.DebitAmount, reqLine.CreditAmount, rate),
			Description:  reqLine.Description,
		})
	}
	return lines, nil
}

// buildLineMirrors produces one account transaction per journal line: a
// debit becomes a deposit, a credit a withdrawal, with the line's own rate
// and base amount.
func (s *journalService) buildLineMirrors(ctx context.Context, entryDate time.Time, lines []domain.JournalEntryLine) ([]domain.AccountTransaction, error) {
	currencyNames := make(map[string]string)
	now := time.Now()

	mirrors := make([]domain.AccountTransaction, 0, len(lines))
	for _, line := range lines {
		name, ok := currencyNames[line.CurrencyID]
		if !ok {
			currency, err := s.currencyRepo.FindCurrencyByID(ctx, line.CurrencyID)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve currency '%s': %w", line.CurrencyID, err)
			}
			name = currency.Name
			currencyNames[line.CurrencyID] = name
		}

		txnType := domain.Deposit
		amount := line.DebitAmount
		if line.CreditAmount.GreaterThan(decimal.Zero) && line.DebitAmount.IsZero() {
			txnType = domain.Withdraw
			amount = line.CreditAmount
		}

		mirrors = append(mirrors, domain.AccountTransaction{
			TransactionID:   uuid.NewString(),
			AccountID:       line.AccountID,
			TransactionType: txnType,
			Amount:          amount,
			CurrencyName:    name,
			Rate:            line.ExchangeRate,
			Total:           line.BaseAmount,
			TransactionDate: entryDate,
			IsFull:          false,
			Notes:           line.Description,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		})
	}
	return mirrors, nil
}

// GetEntryByID retrieves a journal entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines of entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a page of journal entry headers, newest first.
// Lines are not loaded for list views.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	return &dto.ListEntriesResponse{
		Entries:   dto.ToListEntryResponse(entries),
		NextToken: nextToken,
	}, nil
}

// Reconcile compares the stored (account, currency) balance against the net
// of all journal lines for the pair. A balance row that was never created
// counts as zero. The two representations agree when the absolute difference
// is below the tolerance.
func (s *journalService) Reconcile(ctx context.Context, accountID string, currencyID string) (*domain.Reconciliation, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	accountBalance := decimal.Zero
	balance, err := s.accountRepo.FindCurrencyBalance(ctx, accountID, currencyID)
	if err == nil {
		accountBalance = balance.Balance
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to load balance for %s/%s: %w", accountID, currencyID, err)
	}

	debits, credits, err := s.journalRepo.SumLineAmounts(ctx, accountID, currencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum journal lines for %s/%s: %w", accountID, currencyID, err)
	}
	journalBalance := debits.Sub(credits)

	diff := accountBalance.Sub(journalBalance)
	return &domain.Reconciliation{
		AccountID:      accountID,
		CurrencyID:     currencyID,
		AccountBalance: accountBalance,
		JournalBalance: journalBalance,
		Difference:     diff,
		IsBalanced:     accounting.IsWithinTolerance(diff),
	}, nil
}
