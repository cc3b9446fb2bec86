package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks-app/finbooks_backend/internal/models"
	"github.com/finbooks-app/finbooks_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCurrencyRepository struct {
	BaseRepository
}

// newPgxCurrencyRepository creates a new repository for currency data.
func newPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepositoryFacade {
	return &PgxCurrencyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CurrencyRepositoryFacade = (*PgxCurrencyRepository)(nil)

// SaveCurrency inserts a new currency.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	modelCurr := mapping.ToModelCurrency(currency)

	query := `
		INSERT INTO currencies (currency_id, name, is_base, rate, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`

	_, err := r.Pool.Exec(ctx, query,
		modelCurr.CurrencyID,
		modelCurr.Name,
		modelCurr.IsBase,
		modelCurr.Rate,
		modelCurr.CreatedAt,
		modelCurr.LastUpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: currency '%s' already exists", apperrors.ErrDuplicate, modelCurr.CurrencyID)
		}
		return fmt.Errorf("failed to save currency %s: %w", modelCurr.CurrencyID, err)
	}
	return nil
}

// currencyColumns is the shared select list for currency queries.
const currencyColumns = `currency_id, name, is_base, rate, created_at, last_updated_at`

func scanCurrency(row pgx.Row) (models.Currency, error) {
	var m models.Currency
	err := row.Scan(
		&m.CurrencyID,
		&m.Name,
		&m.IsBase,
		&m.Rate,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// FindCurrencyByID retrieves a currency by its id.
func (r *PgxCurrencyRepository) FindCurrencyByID(ctx context.Context, currencyID string) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE currency_id = $1;`

	modelCurr, err := scanCurrency(r.Pool.QueryRow(ctx, query, currencyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency by id %s: %w", currencyID, err)
	}

	domainCurr := mapping.ToDomainCurrency(modelCurr)
	return &domainCurr, nil
}

// FindCurrencyByName retrieves a currency by its unique name.
func (r *PgxCurrencyRepository) FindCurrencyByName(ctx context.Context, name string) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE name = $1;`

	modelCurr, err := scanCurrency(r.Pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency by name %s: %w", name, err)
	}

	domainCurr := mapping.ToDomainCurrency(modelCurr)
	return &domainCurr, nil
}

// FindBaseCurrency retrieves the currency flagged as base.
func (r *PgxCurrencyRepository) FindBaseCurrency(ctx context.Context) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE is_base LIMIT 1;`

	modelCurr, err := scanCurrency(r.Pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find base currency: %w", err)
	}

	domainCurr := mapping.ToDomainCurrency(modelCurr)
	return &domainCurr, nil
}

// ListCurrencies retrieves all currencies, base first, then by name.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies ORDER BY is_base DESC, name;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	modelCurrencies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Currency, error) {
		return scanCurrency(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan currencies: %w", err)
	}

	return mapping.ToDomainCurrencySlice(modelCurrencies), nil
}

// UpdateCurrency updates an existing currency.
func (r *PgxCurrencyRepository) UpdateCurrency(ctx context.Context, currency domain.Currency) error {
	modelCurr := mapping.ToModelCurrency(currency)

	query := `
		UPDATE currencies
		SET name = $2, is_base = $3, rate = $4, last_updated_at = $5
		WHERE currency_id = $1;
	`

	ct, err := r.Pool.Exec(ctx, query,
		modelCurr.CurrencyID,
		modelCurr.Name,
		modelCurr.IsBase,
		modelCurr.Rate,
		modelCurr.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: currency name '%s' already exists", apperrors.ErrDuplicate, modelCurr.Name)
		}
		return fmt.Errorf("failed to update currency %s: %w", modelCurr.CurrencyID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ClearBaseFlagExcept unsets the base flag on every currency except the given
// id. An empty id clears the flag everywhere.
func (r *PgxCurrencyRepository) ClearBaseFlagExcept(ctx context.Context, currencyID string) error {
	query := `UPDATE currencies SET is_base = FALSE WHERE is_base AND currency_id != $1;`

	if _, err := r.Pool.Exec(ctx, query, currencyID); err != nil {
		return fmt.Errorf("failed to clear base currency flag: %w", err)
	}
	return nil
}

// DeleteCurrency removes a currency. The schema's foreign keys refuse the
// delete while rates, balances, transactions, or journal lines still
// reference it; that surfaces as ErrConflict.
func (r *PgxCurrencyRepository) DeleteCurrency(ctx context.Context, currencyID string) error {
	query := `DELETE FROM currencies WHERE currency_id = $1;`

	ct, err := r.Pool.Exec(ctx, query, currencyID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return fmt.Errorf("%w: currency '%s' is still referenced by existing records", apperrors.ErrConflict, currencyID)
		}
		return fmt.Errorf("failed to delete currency %s: %w", currencyID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
