package pgsql

import (
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	currencyRepo := newPgxCurrencyRepository(dbPool)
	exchangeRateRepo := newPgxExchangeRateRepository(dbPool)
	categoryRepo := newPgxCategoryRepository(dbPool)
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)

	return portsrepo.RepositoryProvider{
		CurrencyRepo:     currencyRepo,
		ExchangeRateRepo: exchangeRateRepo,
		CategoryRepo:     categoryRepo,
		AccountRepo:      accountRepo,
		LedgerRepo:       ledgerRepo,
		JournalRepo:      journalRepo,
	}
}
