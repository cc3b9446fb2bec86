package mapping

import (
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/finbooks-app/finbooks_backend/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		Name:           d.Name,
		CurrencyID:     d.CurrencyID,
		CategoryID:     d.CategoryID,
		AccountCode:    d.AccountCode,
		AccountType:    d.AccountType,
		InitialBalance: d.InitialBalance,
		CurrentBalance: d.CurrentBalance,
		IsActive:       d.IsActive,
		Notes:          d.Notes,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		Name:           m.Name,
		CurrencyID:     m.CurrencyID,
		CategoryID:     m.CategoryID,
		AccountCode:    m.AccountCode,
		AccountType:    m.AccountType,
		InitialBalance: m.InitialBalance,
		CurrentBalance: m.CurrentBalance,
		IsActive:       m.IsActive,
		Notes:          m.Notes,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Account to domain Account
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

// ToDomainCurrencyBalance converts a model AccountCurrencyBalance to its domain form
func ToDomainCurrencyBalance(m models.AccountCurrencyBalance) domain.AccountCurrencyBalance {
	return domain.AccountCurrencyBalance{
		AccountID:  m.AccountID,
		CurrencyID: m.CurrencyID,
		Balance:    m.Balance,
	}
}

// ToDomainCurrencyBalanceSlice converts a slice of model AccountCurrencyBalance to domain form
func ToDomainCurrencyBalanceSlice(ms []models.AccountCurrencyBalance) []domain.AccountCurrencyBalance {
	ds := make([]domain.AccountCurrencyBalance, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCurrencyBalance(m)
	}
	return ds
}

// ToModelCategory converts a domain CoaCategory to a model CoaCategory
func ToModelCategory(d domain.CoaCategory) models.CoaCategory {
	return models.CoaCategory{
		CategoryID:   d.CategoryID,
		ParentID:     d.ParentID,
		Name:         d.Name,
		Code:         d.Code,
		CategoryType: models.CategoryType(d.CategoryType),
		Level:        d.Level,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCategory converts a model CoaCategory to a domain CoaCategory
func ToDomainCategory(m models.CoaCategory) domain.CoaCategory {
	return domain.CoaCategory{
		CategoryID:   m.CategoryID,
		ParentID:     m.ParentID,
		Name:         m.Name,
		Code:         m.Code,
		CategoryType: domain.CategoryType(m.CategoryType),
		Level:        m.Level,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCategorySlice converts a slice of model CoaCategory to domain CoaCategory
func ToDomainCategorySlice(ms []models.CoaCategory) []domain.CoaCategory {
	ds := make([]domain.CoaCategory, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCategory(m)
	}
	return ds
}
