package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks-app/finbooks_backend/internal/models"
	"github.com/finbooks-app/finbooks_backend/internal/utils/accounting"
	"github.com/finbooks-app/finbooks_backend/internal/utils/mapping"
	"github.com/finbooks-app/finbooks_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for the account transaction log.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// SaveTransaction appends an account transaction and applies all of its side
// effects in one database transaction: the per-currency balance changes, the
// aggregate balance snapshot, and (when mirror is non-nil) the mirroring
// journal entry with its lines. The overdraft check runs here, against the
// balance recomputed after the account rows are locked; the service's
// pre-lock check cannot see writes committed between its read and the lock.
func (r *PgxLedgerRepository) SaveTransaction(ctx context.Context, txn domain.AccountTransaction, balanceChanges map[domain.BalanceKey]decimal.Decimal, mirror *domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockAccountsTx(ctx, tx, balanceChanges); err != nil {
		return apperrors.NewAppError(500, "failed to lock accounts for transaction "+txn.TransactionID, err)
	}

	current, err := recomputeBalanceTx(ctx, tx, txn.AccountID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to recompute balance for transaction "+txn.TransactionID, err)
	}
	newCurrentBalance, err := accounting.SettleTransaction(txn.TransactionType, txn.Total, current)
	if err != nil {
		return err
	}

	if err := insertAccountTransactionsTx(ctx, tx, []domain.AccountTransaction{txn}); err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction "+txn.TransactionID, err)
	}

	if err := applyBalanceChangesTx(ctx, tx, balanceChanges); err != nil {
		return apperrors.NewAppError(500, "failed to apply balance changes for transaction "+txn.TransactionID, err)
	}

	snapshotQuery := `UPDATE accounts SET current_balance = $2, last_updated_at = $3 WHERE account_id = $1;`
	ct, err := tx.Exec(ctx, snapshotQuery, txn.AccountID, newCurrentBalance, time.Now())
	if err != nil {
		return apperrors.NewAppError(500, "failed to update balance snapshot for account "+txn.AccountID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if mirror != nil {
		entryNumber, err := nextEntryNumberTx(ctx, tx)
		if err != nil {
			return apperrors.NewAppError(500, "failed to generate entry number", err)
		}
		mirror.EntryNumber = entryNumber

		if err := insertJournalEntryTx(ctx, tx, *mirror); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
				return fmt.Errorf("%w: entry number %s already taken", apperrors.ErrDuplicate, entryNumber)
			}
			return apperrors.NewAppError(500, "failed to insert mirror entry for transaction "+txn.TransactionID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// ListTransactionsByAccount retrieves a paginated list of the account's
// deposit/withdraw records using token-based pagination, newest first.
func (r *PgxLedgerRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.AccountTransaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine if there is a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT transaction_id, account_id, transaction_type, amount, currency_name, rate, total, transaction_date, is_full, notes, created_at, last_updated_at
		FROM account_transactions
	`
	filterClause := `WHERE account_id = $1`
	orderByClause := `ORDER BY transaction_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{accountID}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		cursorClause := `AND (transaction_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)

		query := baseQuery + " " + filterClause + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions for account "+accountID, err)
	}
	defer rows.Close()

	modelTxns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.AccountTransaction, error) {
		var m models.AccountTransaction
		err := row.Scan(
			&m.TransactionID,
			&m.AccountID,
			&m.TransactionType,
			&m.Amount,
			&m.CurrencyName,
			&m.Rate,
			&m.Total,
			&m.TransactionDate,
			&m.IsFull,
			&m.Notes,
			&m.CreatedAt,
			&m.LastUpdatedAt,
		)
		return m, err
	})
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to scan transactions for account "+accountID, err)
	}

	var nextTokenVal *string
	results := modelTxns
	if len(modelTxns) > limit {
		lastTxn := modelTxns[limit-1]
		token := pagination.EncodeToken(lastTxn.TransactionDate, lastTxn.CreatedAt)
		nextTokenVal = &token
		results = modelTxns[:limit]
	}

	return mapping.ToDomainTransactionSlice(results), nextTokenVal, nil
}
