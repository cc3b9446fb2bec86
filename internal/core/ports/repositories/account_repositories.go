package repositories

import (
	"context"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)

	// FindCurrencyBalance retrieves the (account, currency) balance row.
	// Returns apperrors.ErrNotFound when the pair has never been touched.
	FindCurrencyBalance(ctx context.Context, accountID, currencyID string) (*domain.AccountCurrencyBalance, error)

	// ListCurrencyBalances retrieves every per-currency balance row for an account.
	ListCurrencyBalances(ctx context.Context, accountID string) ([]domain.AccountCurrencyBalance, error)

	// SumTransactionTotals sums the reporting-currency totals of the
	// account's transaction log, split by deposits and withdrawals.
	SumTransactionTotals(ctx context.Context, accountID string) (deposits, withdrawals decimal.Decimal, err error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account and, when seed is non-nil, its
	// initial (account, currency) balance row within the same transaction.
	SaveAccount(ctx context.Context, account domain.Account, seed *domain.AccountCurrencyBalance) error

	// UpdateAccount updates an existing account's details, including its
	// recomputed current balance.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// UpdateCurrentBalance persists a freshly recomputed aggregate balance.
	UpdateCurrentBalance(ctx context.Context, accountID string, balance decimal.Decimal, now time.Time) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
