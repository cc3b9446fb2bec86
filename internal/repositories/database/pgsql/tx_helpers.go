package pgsql

import (
	"context"
	"fmt"
	"sort"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/finbooks-app/finbooks_backend/internal/utils/accounting"
	"github.com/finbooks-app/finbooks_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Shared transaction-scoped write helpers. Journal posts, entry updates, and
// deposits/withdrawals all funnel their side effects through these so every
// operation applies balances and inserts rows the same way inside one DB
// transaction.

// lockAccountsTx locks the account rows referenced by balanceChanges with
// FOR UPDATE, serializing concurrent postings per account instead of
// globally. Accounts are locked in sorted order to avoid deadlocks between
// concurrent postings touching the same set.
func lockAccountsTx(ctx context.Context, tx pgx.Tx, balanceChanges map[domain.BalanceKey]decimal.Decimal) error {
	idSet := make(map[string]struct{})
	for key := range balanceChanges {
		idSet[key.AccountID] = struct{}{}
	}
	if len(idSet) == 0 {
		return nil
	}
	accountIDs := make([]string, 0, len(idSet))
	for id := range idSet {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)

	query := `SELECT account_id FROM accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE;`
	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to lock accounts: %w", err)
	}
	defer rows.Close()

	locked := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan locked account: %w", err)
		}
		locked++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read locked accounts: %w", err)
	}
	if locked != len(accountIDs) {
		return fmt.Errorf("failed to lock accounts: %d of %d found", locked, len(accountIDs))
	}
	return nil
}

// recomputeBalanceTx derives the account's aggregate reporting-currency
// balance from the full transaction log. Callers must hold the account's
// lock via lockAccountsTx so the result cannot be invalidated by a
// concurrent write before commit.
func recomputeBalanceTx(ctx context.Context, tx pgx.Tx, accountID string) (decimal.Decimal, error) {
	query := `
		SELECT a.initial_balance,
		       COALESCE(SUM(t.total) FILTER (WHERE t.transaction_type = 'DEPOSIT'), 0),
		       COALESCE(SUM(t.total) FILTER (WHERE t.transaction_type = 'WITHDRAW'), 0)
		FROM accounts a
		LEFT JOIN account_transactions t ON t.account_id = a.account_id
		WHERE a.account_id = $1
		GROUP BY a.initial_balance;
	`

	var initial, deposits, withdrawals decimal.Decimal
	if err := tx.QueryRow(ctx, query, accountID).Scan(&initial, &deposits, &withdrawals); err != nil {
		return decimal.Zero, fmt.Errorf("failed to recompute balance for account %s: %w", accountID, err)
	}
	return accounting.RecomputeBalance(initial, deposits, withdrawals), nil
}

// applyBalanceChangesTx applies the per-(account, currency) deltas to the
// account_currency_balances table, creating rows for pairs touched for the
// first time. Callers must hold the account locks via lockAccountsTx.
func applyBalanceChangesTx(ctx context.Context, tx pgx.Tx, balanceChanges map[domain.BalanceKey]decimal.Decimal) error {
	query := `
		INSERT INTO account_currency_balances (account_id, currency_id, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id, currency_id) DO UPDATE SET
			balance = account_currency_balances.balance + EXCLUDED.balance;
	`

	keys := make([]domain.BalanceKey, 0, len(balanceChanges))
	for key, delta := range balanceChanges {
		if !delta.IsZero() {
			keys = append(keys, key)
		}
	}
	// Deterministic order keeps concurrent postings deadlock free.
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].AccountID != keys[j].AccountID {
			return keys[i].AccountID < keys[j].AccountID
		}
		return keys[i].CurrencyID < keys[j].CurrencyID
	})

	batch := &pgx.Batch{}
	for _, key := range keys {
		batch.Queue(query, key.AccountID, key.CurrencyID, balanceChanges[key])
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to apply balance changes: %w", err)
	}
	return nil
}

// nextEntryNumberTx generates the next journal entry number as the max
// numeric suffix of existing entries plus one. Gaps are never reused.
// Two concurrent posts computing the same sequence collide on the
// entry_number unique constraint and one of them fails.
func nextEntryNumberTx(ctx context.Context, tx pgx.Tx) (string, error) {
	query := `
		SELECT COALESCE(MAX(CAST(SUBSTRING(entry_number FROM 2) AS BIGINT)), 0)
		FROM journal_entries
		WHERE entry_number ~ '^J[0-9]+$';
	`

	var maxSeq int64
	if err := tx.QueryRow(ctx, query).Scan(&maxSeq); err != nil {
		return "", fmt.Errorf("failed to read max entry number: %w", err)
	}
	return accounting.FormatEntryNumber(maxSeq + 1), nil
}

// insertJournalEntryTx inserts an entry header and all of its lines.
func insertJournalEntryTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	modelEntry := mapping.ToModelEntry(entry)

	headerQuery := `
		INSERT INTO journal_entries (entry_id, entry_number, entry_date, description, reference_type, reference_id, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := tx.Exec(ctx, headerQuery,
		modelEntry.EntryID,
		modelEntry.EntryNumber,
		modelEntry.EntryDate,
		modelEntry.Description,
		modelEntry.ReferenceType,
		modelEntry.ReferenceID,
		modelEntry.CreatedAt,
		modelEntry.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry %s: %w", modelEntry.EntryID, err)
	}

	return insertEntryLinesTx(ctx, tx, entry.Lines)
}

// insertEntryLinesTx inserts journal entry lines via a batch.
func insertEntryLinesTx(ctx context.Context, tx pgx.Tx, lines []domain.JournalEntryLine) error {
	if len(lines) == 0 {
		return nil
	}

	lineQuery := `
		INSERT INTO journal_entry_lines (line_id, entry_id, account_id, currency_id, debit_amount, credit_amount, exchange_rate, base_amount, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`

	batch := &pgx.Batch{}
	for _, line := range lines {
		modelLine := mapping.ToModelEntryLine(line)
		batch.Queue(lineQuery,
			modelLine.LineID,
			modelLine.EntryID,
			modelLine.AccountID,
			modelLine.CurrencyID,
			modelLine.DebitAmount,
			modelLine.CreditAmount,
			modelLine.ExchangeRate,
			modelLine.BaseAmount,
			modelLine.Description,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert journal entry lines: %w", err)
	}
	return nil
}

// insertAccountTransactionsTx appends account transaction rows via a batch.
func insertAccountTransactionsTx(ctx context.Context, tx pgx.Tx, txns []domain.AccountTransaction) error {
	if len(txns) == 0 {
		return nil
	}

	txnQuery := `
		INSERT INTO account_transactions (transaction_id, account_id, transaction_type, amount, currency_name, rate, total, transaction_date, is_full, notes, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`

	batch := &pgx.Batch{}
	for _, txn := range txns {
		modelTxn := mapping.ToModelTransaction(txn)
		batch.Queue(txnQuery,
			modelTxn.TransactionID,
			modelTxn.AccountID,
			modelTxn.TransactionType,
			modelTxn.Amount,
			modelTxn.CurrencyName,
			modelTxn.Rate,
			modelTxn.Total,
			modelTxn.TransactionDate,
			modelTxn.IsFull,
			modelTxn.Notes,
			modelTxn.CreatedAt,
			modelTxn.LastUpdatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert account transactions: %w", err)
	}
	return nil
}
