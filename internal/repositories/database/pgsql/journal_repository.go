package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks-app/finbooks_backend/internal/models"
	"github.com/finbooks-app/finbooks_backend/internal/utils/mapping"
	"github.com/finbooks-app/finbooks_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, entry_number, entry_date, description, reference_type, reference_id, created_at, last_updated_at`

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Description,
		&m.ReferenceType,
		&m.ReferenceID,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveEntry persists a journal entry with its lines and applies the
// per-currency balance effects in one database transaction. The entry number
// is generated inside the transaction and returned.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[domain.BalanceKey]decimal.Decimal) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	if err := lockAccountsTx(ctx, tx, balanceChanges); err != nil {
		return "", apperrors.NewAppError(500, "failed to lock accounts for entry "+entry.EntryID, err)
	}

	entryNumber, err := nextEntryNumberTx(ctx, tx)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to generate entry number", err)
	}
	entry.EntryNumber = entryNumber

	if err := insertJournalEntryTx(ctx, tx, entry); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return "", fmt.Errorf("%w: entry number %s already taken", apperrors.ErrDuplicate, entryNumber)
		}
		return "", apperrors.NewAppError(500, "failed to insert entry "+entry.EntryID, err)
	}

	if err := applyBalanceChangesTx(ctx, tx, balanceChanges); err != nil {
		return "", apperrors.NewAppError(500, "failed to apply balance changes for entry "+entry.EntryID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return entryNumber, nil
}

// ReplaceEntryLines updates the entry header, swaps its lines for newLines,
// applies the combined balance changes, and appends the mirrored account
// transactions, all in one database transaction.
func (r *PgxJournalRepository) ReplaceEntryLines(ctx context.Context, entry domain.JournalEntry, newLines []domain.JournalEntryLine, balanceChanges map[domain.BalanceKey]decimal.Decimal, mirrors []domain.AccountTransaction) error {
	modelEntry := mapping.ToModelEntry(entry)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockAccountsTx(ctx, tx, balanceChanges); err != nil {
		return apperrors.NewAppError(500, "failed to lock accounts for entry "+entry.EntryID, err)
	}

	headerQuery := `
		UPDATE journal_entries
		SET entry_date = $2, description = $3, last_updated_at = $4
		WHERE entry_id = $1;
	`
	ct, err := tx.Exec(ctx, headerQuery,
		modelEntry.EntryID,
		modelEntry.EntryDate,
		modelEntry.Description,
		modelEntry.LastUpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update entry header "+entry.EntryID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, entry.EntryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines of entry "+entry.EntryID, err)
	}

	if err := insertEntryLinesTx(ctx, tx, newLines); err != nil {
		return apperrors.NewAppError(500, "failed to insert new lines of entry "+entry.EntryID, err)
	}

	if err := applyBalanceChangesTx(ctx, tx, balanceChanges); err != nil {
		return apperrors.NewAppError(500, "failed to apply balance changes for entry "+entry.EntryID, err)
	}

	if err := insertAccountTransactionsTx(ctx, tx, mirrors); err != nil {
		return apperrors.NewAppError(500, "failed to insert mirrored transactions for entry "+entry.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves a journal entry header by its id.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	modelEntry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find entry by id "+entryID, err)
	}

	domainEntry := mapping.ToDomainEntry(modelEntry)
	return &domainEntry, nil
}

// FindLinesByEntryID retrieves all lines of a journal entry.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	query := `
		SELECT line_id, entry_id, account_id, currency_id, debit_amount, credit_amount, exchange_rate, base_amount, description
		FROM journal_entry_lines
		WHERE entry_id = $1
		ORDER BY line_id;
	`

	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	modelLines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.JournalEntryLine, error) {
		var m models.JournalEntryLine
		err := row.Scan(
			&m.LineID,
			&m.EntryID,
			&m.AccountID,
			&m.CurrencyID,
			&m.DebitAmount,
			&m.CreditAmount,
			&m.ExchangeRate,
			&m.BaseAmount,
			&m.Description,
		)
		return m, err
	})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan lines for entry "+entryID, err)
	}

	return mapping.ToDomainEntryLineSlice(modelLines), nil
}

// ListEntries retrieves a paginated list of journal entries using
// token-based pagination, newest first.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine if there is a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + entryColumns + ` FROM journal_entries`
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		cursorClause := `WHERE (entry_date, created_at) < ($1, $2)`
		args = append(args, lastDate, lastCreatedAt)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $1;"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journal entries", err)
	}
	defer rows.Close()

	modelEntries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.JournalEntry, error) {
		return scanEntry(row)
	})
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to scan journal entries", err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		lastEntry := modelEntries[limit-1]
		token := pagination.EncodeToken(lastEntry.EntryDate, lastEntry.CreatedAt)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	return mapping.ToDomainEntrySlice(results), nextTokenVal, nil
}

// SumLineAmounts sums debit and credit amounts over all journal lines for
// the (account, currency) pair.
func (r *PgxJournalRepository) SumLineAmounts(ctx context.Context, accountID, currencyID string) (debits, credits decimal.Decimal, err error) {
	query := `
		SELECT COALESCE(SUM(debit_amount), 0), COALESCE(SUM(credit_amount), 0)
		FROM journal_entry_lines
		WHERE account_id = $1 AND currency_id = $2;
	`

	if err = r.Pool.QueryRow(ctx, query, accountID, currencyID).Scan(&debits, &credits); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum journal lines for %s/%s: %w", accountID, currencyID, err)
	}
	return debits, credits, nil
}
