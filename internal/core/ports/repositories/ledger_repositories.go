package repositories

import (
	"context"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations for the account transaction log
type LedgerReader interface {
	// ListTransactionsByAccount retrieves a paginated list of the account's
	// deposit/withdraw records using token-based pagination, newest first.
	ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.AccountTransaction, *string, error)
}

// LedgerWriter defines write operations for the account transaction log
type LedgerWriter interface {
	// SaveTransaction appends an account transaction and applies all of its
	// side effects in one database transaction: the per-currency balance
	// changes, the aggregate balance snapshot, and (when mirror is non-nil)
	// the mirroring journal entry with its lines. The aggregate balance is
	// recomputed from the log after the account rows are locked, and a
	// withdrawal that would overdraw the locked balance fails with
	// apperrors.ErrInsufficientBalance. The caller's pre-lock check is
	// advisory only.
	SaveTransaction(ctx context.Context, txn domain.AccountTransaction, balanceChanges map[domain.BalanceKey]decimal.Decimal, mirror *domain.JournalEntry) error
}

// LedgerRepositoryFacade combines the transaction log repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
