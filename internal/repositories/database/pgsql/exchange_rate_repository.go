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
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxExchangeRateRepository struct {
	BaseRepository
}

// newPgxExchangeRateRepository creates a new repository for exchange rate data.
func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

const exchangeRateColumns = `exchange_rate_id, from_currency_id, to_currency_id, rate, rate_date, created_at, last_updated_at`

func scanExchangeRate(row pgx.Row) (models.ExchangeRate, error) {
	var m models.ExchangeRate
	err := row.Scan(
		&m.ExchangeRateID,
		&m.FromCurrencyID,
		&m.ToCurrencyID,
		&m.Rate,
		&m.RateDate,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveExchangeRate appends a new rate row.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	modelRate := mapping.ToModelExchangeRate(rate)

	query := `
		INSERT INTO currency_exchange_rates (exchange_rate_id, from_currency_id, to_currency_id, rate, rate_date, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`

	_, err := r.Pool.Exec(ctx, query,
		modelRate.ExchangeRateID,
		modelRate.FromCurrencyID,
		modelRate.ToCurrencyID,
		modelRate.Rate,
		modelRate.RateDate,
		modelRate.CreatedAt,
		modelRate.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save exchange rate %s: %w", modelRate.ExchangeRateID, err)
	}
	return nil
}

// FindRateAsOf retrieves the most recent rate row for the pair dated on or
// before the given date.
func (r *PgxExchangeRateRepository) FindRateAsOf(ctx context.Context, fromCurrencyID, toCurrencyID string, date time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM currency_exchange_rates
		WHERE from_currency_id = $1 AND to_currency_id = $2 AND rate_date <= $3
		ORDER BY rate_date DESC, created_at DESC
		LIMIT 1;
	`

	modelRate, err := scanExchangeRate(r.Pool.QueryRow(ctx, query, fromCurrencyID, toCurrencyID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rate %s/%s as of %s: %w", fromCurrencyID, toCurrencyID, date.Format(time.DateOnly), err)
	}

	domainRate := mapping.ToDomainExchangeRate(modelRate)
	return &domainRate, nil
}

// FindLatestRate retrieves the globally newest rate row for the pair.
func (r *PgxExchangeRateRepository) FindLatestRate(ctx context.Context, fromCurrencyID, toCurrencyID string) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM currency_exchange_rates
		WHERE from_currency_id = $1 AND to_currency_id = $2
		ORDER BY rate_date DESC, created_at DESC
		LIMIT 1;
	`

	modelRate, err := scanExchangeRate(r.Pool.QueryRow(ctx, query, fromCurrencyID, toCurrencyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest rate %s/%s: %w", fromCurrencyID, toCurrencyID, err)
	}

	domainRate := mapping.ToDomainExchangeRate(modelRate)
	return &domainRate, nil
}

// ListRateHistory retrieves every rate row for the pair, newest first.
func (r *PgxExchangeRateRepository) ListRateHistory(ctx context.Context, fromCurrencyID, toCurrencyID string) ([]domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM currency_exchange_rates
		WHERE from_currency_id = $1 AND to_currency_id = $2
		ORDER BY rate_date DESC, created_at DESC;
	`

	rows, err := r.Pool.Query(ctx, query, fromCurrencyID, toCurrencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate history %s/%s: %w", fromCurrencyID, toCurrencyID, err)
	}
	defer rows.Close()

	modelRates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ExchangeRate, error) {
		return scanExchangeRate(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan rate history %s/%s: %w", fromCurrencyID, toCurrencyID, err)
	}

	return mapping.ToDomainExchangeRateSlice(modelRates), nil
}
