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
	"github.com/finbooks-app/finbooks_backend/internal/dto"
	"github.com/finbooks-app/finbooks_backend/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ledgerService implements the deposit/withdraw commands over the append-only
// account transaction log. Every command recomputes the account's aggregate
// balance from the full log before validating. The repository repeats the
// recompute-and-settle under the account lock, so a concurrent write between
// the read here and the lock cannot overdraw the account; it commits the
// transaction row, the per-currency balance change, the balance snapshot,
// and the mirroring journal entry atomically.
type ledgerService struct {
	BaseService
	ledgerRepo   portsrepo.LedgerRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
	currencyRepo portsrepo.CurrencyRepositoryFacade
	roleMap      domain.AccountRoleMap
}

// NewLedgerService creates a new ledger service. A nil roleMap disables the
// mirroring journal postings; a non-nil but incomplete map makes deposits and
// withdrawals fail loudly with ErrRoleUnmapped.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, currencyRepo portsrepo.CurrencyRepositoryFacade, roleMap domain.AccountRoleMap) *ledgerService {
	return &ledgerService{
		ledgerRepo:   ledgerRepo,
		accountRepo:  accountRepo,
		currencyRepo: currencyRepo,
		roleMap:      roleMap,
	}
}

// Deposit appends a deposit to the account's transaction log.
func (s *ledgerService) Deposit(ctx context.Context, req dto.DepositRequest) (*domain.AccountTransaction, error) {
	return s.record(ctx, domain.Deposit, req.AccountID, req.Amount, req.CurrencyName, req.Rate, req.TransactionDate, req.IsFull, req.Notes)
}

// Withdraw appends a withdrawal to the account's transaction log.
func (s *ledgerService) Withdraw(ctx context.Context, req dto.WithdrawRequest) (*domain.AccountTransaction, error) {
	return s.record(ctx, domain.Withdraw, req.AccountID, req.Amount, req.CurrencyName, req.Rate, req.TransactionDate, req.IsFull, req.Notes)
}

func (s *ledgerService) record(ctx context.Context, txnType domain.TransactionType, accountID string, amount decimal.Decimal, currencyName string, rate decimal.Decimal, txnDate *time.Time, isFull bool, notes string) (*domain.AccountTransaction, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	currency, err := s.currencyRepo.FindCurrencyByName(ctx, currencyName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unresolvable currency '%s'", apperrors.ErrValidation, currencyName)
		}
		return nil, fmt.Errorf("failed to resolve currency '%s': %w", currencyName, err)
	}

	if rate.IsZero() {
		rate = currency.Rate
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: rate must be positive", apperrors.ErrValidation)
	}

	deposits, withdrawals, err := s.accountRepo.SumTransactionTotals(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions for %s: %w", accountID, err)
	}
	current := accounting.RecomputeBalance(account.InitialBalance, deposits, withdrawals)

	if isFull {
		// "The whole balance" in both directions.
		if current.LessThanOrEqual(decimal.Zero) {
			if txnType == domain.Deposit {
				return nil, fmt.Errorf("%w: nothing to deposit, balance is %s", apperrors.ErrValidation, current)
			}
			return nil, fmt.Errorf("%w: nothing to withdraw, balance is %s", apperrors.ErrValidation, current)
		}
		amount = current
	} else if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	total := amount.Mul(rate)

	// Advisory pre-check against the snapshot read above. The authoritative
	// overdraft check runs again inside SaveTransaction, after the account
	// rows are locked.
	if _, err := accounting.SettleTransaction(txnType, total, current); err != nil {
		return nil, err
	}

	when := time.Now()
	if txnDate != nil {
		when = *txnDate
	}

	now := time.Now()
	txn := domain.AccountTransaction{
		TransactionID:   uuid.NewString(),
		AccountID:       accountID,
		TransactionType: txnType,
		Amount:          amount,
		CurrencyName:    currency.Name,
		Rate:            rate,
		Total:           total,
		TransactionDate: when,
		IsFull:          isFull,
		Notes:           notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	mirror, err := s.buildMirrorEntry(account, currency, txn)
	if err != nil {
		return nil, err
	}

	// One balance-change map feeds the whole write. When a mirror entry is
	// posted, its lines are the single source of the per-currency effects;
	// otherwise the bare deposit/withdraw supplies them directly.
	balanceChanges := make(map[domain.BalanceKey]decimal.Decimal)
	if mirror != nil {
		for _, line := range mirror.Lines {
			key := domain.BalanceKey{AccountID: line.AccountID, CurrencyID: line.CurrencyID}
			balanceChanges[key] = balanceChanges[key].Add(accounting.LineBalanceEffect(line))
		}
	} else {
		key := domain.BalanceKey{AccountID: accountID, CurrencyID: currency.CurrencyID}
		if txnType == domain.Deposit {
			balanceChanges[key] = amount
		} else {
			balanceChanges[key] = amount.Neg()
		}
	}

	if err := s.ledgerRepo.SaveTransaction(ctx, txn, balanceChanges, mirror); err != nil {
		s.LogError(ctx, err, "failed to save account transaction",
			slog.String("account_id", accountID),
			slog.String("type", string(txnType)))
		return nil, fmt.Errorf("failed to save account transaction: %w", err)
	}

	s.LogInfo(ctx, "account transaction recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_id", accountID),
		slog.String("type", string(txnType)),
		slog.String("total", total.String()))

	return &txn, nil
}

// buildMirrorEntry constructs the two-line journal entry that mirrors a
// deposit or withdrawal: deposit debits the account and credits the cash
// role, withdrawal debits the expense role and credits the account. Returns
// nil when no role map is configured.
func (s *ledgerService) buildMirrorEntry(account *domain.Account, currency *domain.Currency, txn domain.AccountTransaction) (*domain.JournalEntry, error) {
	if s.roleMap == nil {
		return nil, nil
	}

	var counterRole domain.AccountRole
	if txn.TransactionType == domain.Deposit {
		counterRole = domain.RoleCash
	} else {
		counterRole = domain.RoleExpense
	}
	counterID, err := s.roleMap.Resolve(counterRole)
	if err != nil {
		return nil, err
	}

	entryID := uuid.NewString()
	refType := "ACCOUNT_TRANSACTION"
	debitAccount, creditAccount := account.AccountID, counterID
	if txn.TransactionType == domain.Withdraw {
		debitAccount, creditAccount = counterID, account.AccountID
	}

	lines := []domain.JournalEntryLine{
		{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    debitAccount,
			CurrencyID:   currency.CurrencyID,
			DebitAmount:  txn.Amount,
			CreditAmount: decimal.Zero,
			ExchangeRate: txn.Rate,
			BaseAmount:   txn.Total,
			Description:  txn.Notes,
		},
		{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    creditAccount,
			CurrencyID:   currency.CurrencyID,
			DebitAmount:  decimal.Zero,
			CreditAmount: txn.Amount,
			ExchangeRate: txn.Rate,
			BaseAmount:   txn.Total,
			Description:  txn.Notes,
		},
	}

	return &domain.JournalEntry{
		EntryID:       entryID,
		EntryDate:     txn.TransactionDate,
		Description:   fmt.Sprintf("%s %s %s", txn.TransactionType, txn.Amount, currency.Name),
		ReferenceType: &refType,
		ReferenceID:   &txn.TransactionID,
		Lines:         lines,
		AuditFields:   txn.AuditFields,
	}, nil
}

// ListTransactions retrieves a page of the account's transaction log.
func (s *ledgerService) ListTransactions(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	txns, nextToken, err := s.ledgerRepo.ListTransactionsByAccount(ctx, accountID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for %s: %w", accountID, err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToListTransactionResponse(txns),
		NextToken:    nextToken,
	}, nil
}
