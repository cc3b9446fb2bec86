package mapping

import (
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/finbooks-app/finbooks_backend/internal/models"
)

// ToModelEntry converts a domain JournalEntry to a model JournalEntry
func ToModelEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:       d.EntryID,
		EntryNumber:   d.EntryNumber,
		EntryDate:     d.EntryDate,
		Description:   d.Description,
		ReferenceType: d.ReferenceType,
		ReferenceID:   d.ReferenceID,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:       m.EntryID,
		EntryNumber:   m.EntryNumber,
		EntryDate:     m.EntryDate,
		Description:   m.Description,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelEntryLine converts a domain JournalEntryLine to a model JournalEntryLine
func ToModelEntryLine(d domain.JournalEntryLine) models.JournalEntryLine {
	return models.JournalEntryLine{
		LineID:       d.LineID,
		EntryID:      d.EntryID,
		AccountID:    d.AccountID,
		CurrencyID:   d.CurrencyID,
		DebitAmount:  d.DebitAmount,
		CreditAmount: d.CreditAmount,
		ExchangeRate: d.ExchangeRate,
		BaseAmount:   d.BaseAmount,
		Description:  d.Description,
	}
}

// ToDomainEntryLine converts a model JournalEntryLine to a domain JournalEntryLine
func ToDomainEntryLine(m models.JournalEntryLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:       m.LineID,
		EntryID:      m.EntryID,
		AccountID:    m.AccountID,
		CurrencyID:   m.CurrencyID,
		DebitAmount:  m.DebitAmount,
		CreditAmount: m.CreditAmount,
		ExchangeRate: m.ExchangeRate,
		BaseAmount:   m.BaseAmount,
		Description:  m.Description,
	}
}

// ToDomainEntryLineSlice converts a slice of model lines to domain lines
func ToDomainEntryLineSlice(ms []models.JournalEntryLine) []domain.JournalEntryLine {
	out := make([]domain.JournalEntryLine, len(ms))
	for i, m := range ms {
		out[i] = ToDomainEntryLine(m)
	}
	return out
}

// ToModelTransaction converts a domain AccountTransaction to a model AccountTransaction
func ToModelTransaction(d domain.AccountTransaction) models.AccountTransaction {
	return models.AccountTransaction{
		TransactionID:   d.TransactionID,
		AccountID:       d.AccountID,
		TransactionType: models.TransactionType(d.TransactionType),
		Amount:          d.Amount,
		CurrencyName:    d.CurrencyName,
		Rate:            d.Rate,
		Total:           d.Total,
		TransactionDate: d.TransactionDate,
		IsFull:          d.IsFull,
		Notes:           d.Notes,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model AccountTransaction to a domain AccountTransaction
func ToDomainTransaction(m models.AccountTransaction) domain.AccountTransaction {
	return domain.AccountTransaction{
		TransactionID:   m.TransactionID,
		AccountID:       m.AccountID,
		TransactionType: domain.TransactionType(m.TransactionType),
		Amount:          m.Amount,
		CurrencyName:    m.CurrencyName,
		Rate:            m.Rate,
		Total:           m.Total,
		TransactionDate: m.TransactionDate,
		IsFull:          m.IsFull,
		Notes:           m.Notes,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model transactions to domain transactions
func ToDomainTransactionSlice(ms []models.AccountTransaction) []domain.AccountTransaction {
	out := make([]domain.AccountTransaction, len(ms))
	for i, m := range ms {
		out[i] = ToDomainTransaction(m)
	}
	return out
}

// ToDomainEntrySlice converts a slice of model entries to domain entries
func ToDomainEntrySlice(ms []models.JournalEntry) []domain.JournalEntry {
	out := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		out[i] = ToDomainEntry(m)
	}
	return out
}
