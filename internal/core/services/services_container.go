package services

import (
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, container.Currency)
	container.Category = NewCategoryService(repos.CategoryRepo)
	container.Account = NewAccountService(repos.AccountRepo, repos.CurrencyRepo, repos.CategoryRepo)
	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.AccountRepo, repos.CurrencyRepo, cfg.AccountRoles)
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo, repos.CurrencyRepo, container.ExchangeRate)
	container.Posting = NewPostingService(container.Journal, container.ExchangeRate, container.Currency, cfg.AccountRoles)

	return container
}

// Compile time checks for interface implementations
var (
	_ portssvc.CurrencySvcFacade     = (*currencyService)(nil)
	_ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)
	_ portssvc.CategorySvcFacade     = (*categoryService)(nil)
	_ portssvc.AccountSvcFacade      = (*accountService)(nil)
	_ portssvc.LedgerSvcFacade       = (*ledgerService)(nil)
	_ portssvc.JournalSvcFacade      = (*journalService)(nil)
	_ portssvc.PostingSvcFacade      = (*postingService)(nil)
)
