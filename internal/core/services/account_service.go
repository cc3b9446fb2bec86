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

// accountService provides business logic for accounts and their balances.
type accountService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	currencyRepo portsrepo.CurrencyRepositoryFacade
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, currencyRepo portsrepo.CurrencyRepositoryFacade, categoryRepo portsrepo.CategoryRepositoryFacade) *accountService {
	return &accountService{
		accountRepo:  accountRepo,
		currencyRepo: currencyRepo,
		categoryRepo: categoryRepo,
	}
}

// CreateAccount persists a new account. The initial balance doubles as the
// starting aggregate balance, and when a default currency is given the
// (account, currency) balance row is seeded with the same value.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	if req.InitialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance cannot be negative", apperrors.ErrValidation)
	}

	if req.CurrencyID != nil {
		if _, err := s.currencyRepo.FindCurrencyByID(ctx, *req.CurrencyID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: currency '%s' not found", apperrors.ErrValidation, *req.CurrencyID)
			}
			return nil, fmt.Errorf("failed to validate currency '%s': %w", *req.CurrencyID, err)
		}
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindCategoryByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: category '%s' not found", apperrors.ErrValidation, *req.CategoryID)
			}
			return nil, fmt.Errorf("failed to validate category '%s': %w", *req.CategoryID, err)
		}
	}

	now := time.Now()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		Name:           req.Name,
		AccountType:    req.AccountType,
		CurrencyID:     req.CurrencyID,
		CategoryID:     req.CategoryID,
		AccountCode:    req.AccountCode,
		InitialBalance: req.InitialBalance,
		CurrentBalance: req.InitialBalance,
		IsActive:       true,
		Notes:          req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	var seed *domain.AccountCurrencyBalance
	if req.CurrencyID != nil {
		seed = &domain.AccountCurrencyBalance{
			AccountID:  account.AccountID,
			CurrencyID: *req.CurrencyID,
			Balance:    req.InitialBalance,
		}
	}

	if err := s.accountRepo.SaveAccount(ctx, account, seed); err != nil {
		s.LogError(ctx, err, "failed to create account", slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return &account, nil
}

// GetAccountByID retrieves a specific account.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}
	return account, nil
}

// GetAccountsByIDs retrieves multiple accounts keyed by id.
func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts by ids: %w", err)
	}
	return accounts, nil
}

// ListAccounts retrieves a paginated list of accounts.
func (s *accountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// GetCurrencyBalances retrieves every per-currency balance of an account.
func (s *accountService) GetCurrencyBalances(ctx context.Context, accountID string) ([]domain.AccountCurrencyBalance, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	balances, err := s.accountRepo.ListCurrencyBalances(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list currency balances for %s: %w", accountID, err)
	}
	if balances == nil {
		return []domain.AccountCurrencyBalance{}, nil
	}
	return balances, nil
}

// RecomputeBalance derives the account's aggregate balance from its full
// transaction log and writes the snapshot back to the account row.
func (s *accountService) RecomputeBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	deposits, withdrawals, err := s.accountRepo.SumTransactionTotals(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions for %s: %w", accountID, err)
	}

	balance := accounting.RecomputeBalance(account.InitialBalance, deposits, withdrawals)
	if err := s.accountRepo.UpdateCurrentBalance(ctx, accountID, balance, time.Now()); err != nil {
		return decimal.Zero, fmt.Errorf("failed to persist recomputed balance for %s: %w", accountID, err)
	}

	return balance, nil
}

// UpdateAccount updates an account's details. The aggregate balance is
// recomputed from the transaction log rather than trusted from the caller.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s for update: %w", accountID, err)
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindCategoryByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: category '%s' not found", apperrors.ErrValidation, *req.CategoryID)
			}
			return nil, fmt.Errorf("failed to validate category '%s': %w", *req.CategoryID, err)
		}
		account.CategoryID = req.CategoryID
	}
	if req.AccountCode != nil {
		account.AccountCode = req.AccountCode
	}
	if req.InitialBalance != nil {
		account.InitialBalance = *req.InitialBalance
	}
	if req.Notes != nil {
		account.Notes = *req.Notes
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	deposits, withdrawals, err := s.accountRepo.SumTransactionTotals(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions for %s: %w", accountID, err)
	}
	account.CurrentBalance = accounting.RecomputeBalance(account.InitialBalance, deposits, withdrawals)
	account.LastUpdatedAt = time.Now()

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "failed to update account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account %s: %w", accountID, err)
	}

	return account, nil
}

// DeactivateAccount marks an account as inactive.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string) error {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, time.Now()); err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	return nil
}
