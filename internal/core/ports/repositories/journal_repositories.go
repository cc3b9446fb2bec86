package repositories

import (
	"context"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindEntryByID retrieves a journal entry header by its id.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines of a journal entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error)

	// ListEntries retrieves a paginated list of journal entries using
	// token-based pagination, newest first.
	ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// SumLineAmounts sums debit and credit amounts over all journal lines
	// for the (account, currency) pair.
	SumLineAmounts(ctx context.Context, accountID, currencyID string) (debits, credits decimal.Decimal, err error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveEntry persists a journal entry with its lines and applies the
	// per-currency balance changes in one database transaction. The entry
	// number is generated inside the transaction (max existing sequence +1)
	// and returned.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[domain.BalanceKey]decimal.Decimal) (string, error)

	// ReplaceEntryLines updates the entry header, deletes its existing
	// lines, inserts the new ones, applies the combined balance changes,
	// and appends the mirrored account transactions, all in one database
	// transaction.
	ReplaceEntryLines(ctx context.Context, entry domain.JournalEntry, newLines []domain.JournalEntryLine, balanceChanges map[domain.BalanceKey]decimal.Decimal, mirrors []domain.AccountTransaction) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
