package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks-app/finbooks_backend/internal/models"
	"github.com/finbooks-app/finbooks_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, name, currency_id, category_id, account_code, account_type, initial_balance, current_balance, is_active, notes, created_at, last_updated_at`

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Name,
		&m.CurrencyID,
		&m.CategoryID,
		&m.AccountCode,
		&m.AccountType,
		&m.InitialBalance,
		&m.CurrentBalance,
		&m.IsActive,
		&m.Notes,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveAccount inserts a new account and, when seed is non-nil, its initial
// (account, currency) balance row within the same transaction.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account, seed *domain.AccountCurrencyBalance) error {
	modelAcc := mapping.ToModelAccount(account)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO accounts (account_id, name, currency_id, category_id, account_code, account_type, initial_balance, current_balance, is_active, notes, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.Name,
		modelAcc.CurrencyID,
		modelAcc.CategoryID,
		modelAcc.AccountCode,
		modelAcc.AccountType,
		modelAcc.InitialBalance,
		modelAcc.CurrentBalance,
		modelAcc.IsActive,
		modelAcc.Notes,
		modelAcc.CreatedAt,
		modelAcc.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: account code already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save account %s: %w", modelAcc.AccountID, err)
	}

	if seed != nil {
		seedQuery := `
			INSERT INTO account_currency_balances (account_id, currency_id, balance)
			VALUES ($1, $2, $3);
		`
		if _, err := tx.Exec(ctx, seedQuery, seed.AccountID, seed.CurrencyID, seed.Balance); err != nil {
			return fmt.Errorf("failed to seed currency balance for account %s: %w", modelAcc.AccountID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// FindAccountByID retrieves an account by its id.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	modelAcc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by id %s: %w", accountID, err)
	}

	domainAcc := mapping.ToDomainAccount(modelAcc)
	return &domainAcc, nil
}

// FindAccountsByIDs retrieves multiple accounts keyed by id.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by ids: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account)
	for rows.Next() {
		modelAcc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accountsMap[modelAcc.AccountID] = mapping.ToDomainAccount(modelAcc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account rows: %w", err)
	}

	return accountsMap, nil
}

// ListAccounts retrieves a paginated list of accounts ordered by name.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY name LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	modelAccs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Account, error) {
		return scanAccount(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan accounts: %w", err)
	}

	return mapping.ToDomainAccountSlice(modelAccs), nil
}

// FindCurrencyBalance retrieves the (account, currency) balance row.
func (r *PgxAccountRepository) FindCurrencyBalance(ctx context.Context, accountID, currencyID string) (*domain.AccountCurrencyBalance, error) {
	query := `
		SELECT account_id, currency_id, balance
		FROM account_currency_balances
		WHERE account_id = $1 AND currency_id = $2;
	`

	var m models.AccountCurrencyBalance
	err := r.Pool.QueryRow(ctx, query, accountID, currencyID).Scan(&m.AccountID, &m.CurrencyID, &m.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find balance %s/%s: %w", accountID, currencyID, err)
	}

	domainBal := mapping.ToDomainCurrencyBalance(m)
	return &domainBal, nil
}

// ListCurrencyBalances retrieves every per-currency balance row for an account.
func (r *PgxAccountRepository) ListCurrencyBalances(ctx context.Context, accountID string) ([]domain.AccountCurrencyBalance, error) {
	query := `
		SELECT account_id, currency_id, balance
		FROM account_currency_balances
		WHERE account_id = $1
		ORDER BY currency_id;
	`

	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances for account %s: %w", accountID, err)
	}
	defer rows.Close()

	modelBals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.AccountCurrencyBalance, error) {
		var m models.AccountCurrencyBalance
		err := row.Scan(&m.AccountID, &m.CurrencyID, &m.Balance)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan balances for account %s: %w", accountID, err)
	}

	return mapping.ToDomainCurrencyBalanceSlice(modelBals), nil
}

// SumTransactionTotals sums the reporting-currency totals of the account's
// transaction log, split by deposits and withdrawals.
func (r *PgxAccountRepository) SumTransactionTotals(ctx context.Context, accountID string) (deposits, withdrawals decimal.Decimal, err error) {
	query := `
		SELECT
			COALESCE(SUM(total) FILTER (WHERE transaction_type = 'DEPOSIT'), 0),
			COALESCE(SUM(total) FILTER (WHERE transaction_type = 'WITHDRAW'), 0)
		FROM account_transactions
		WHERE account_id = $1;
	`

	if err = r.Pool.QueryRow(ctx, query, accountID).Scan(&deposits, &withdrawals); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum transactions for account %s: %w", accountID, err)
	}
	return deposits, withdrawals, nil
}

// UpdateAccount updates an existing account's details.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	modelAcc := mapping.ToModelAccount(account)

	query := `
		UPDATE accounts
		SET name = $2, currency_id = $3, category_id = $4, account_code = $5, account_type = $6,
		    initial_balance = $7, current_balance = $8, is_active = $9, notes = $10, last_updated_at = $11
		WHERE account_id = $1;
	`

	ct, err := r.Pool.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.Name,
		modelAcc.CurrencyID,
		modelAcc.CategoryID,
		modelAcc.AccountCode,
		modelAcc.AccountType,
		modelAcc.InitialBalance,
		modelAcc.CurrentBalance,
		modelAcc.IsActive,
		modelAcc.Notes,
		modelAcc.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: account code already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update account %s: %w", modelAcc.AccountID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateCurrentBalance persists a freshly recomputed aggregate balance.
func (r *PgxAccountRepository) UpdateCurrentBalance(ctx context.Context, accountID string, balance decimal.Decimal, now time.Time) error {
	query := `UPDATE accounts SET current_balance = $2, last_updated_at = $3 WHERE account_id = $1;`

	ct, err := r.Pool.Exec(ctx, query, accountID, balance, now)
	if err != nil {
		return fmt.Errorf("failed to update current balance for account %s: %w", accountID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateAccount marks an account as inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, now time.Time) error {
	query := `UPDATE accounts SET is_active = FALSE, last_updated_at = $2 WHERE account_id = $1;`

	ct, err := r.Pool.Exec(ctx, query, accountID, now)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
