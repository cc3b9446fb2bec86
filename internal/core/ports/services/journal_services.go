package services

import (
	"context"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	// GetEntryByID retrieves a journal entry with its lines
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	// ListEntries retrieves a paginated list of journal entries, newest first
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
	// Reconcile compares an account's stored currency balance against the
	// net of its journal lines for the given currency.
	Reconcile(ctx context.Context, accountID string, currencyID string) (*domain.Reconciliation, error)
}

// JournalWriterSvc defines mutation operations for journal entries
type JournalWriterSvc interface {
	// PostEntry persists a new journal entry with its lines, assigns the
	// next sequential entry number, and applies per-line balance effects.
	PostEntry(ctx context.Context, req dto.CreateEntryRequest) (*domain.JournalEntry, error)
	// UpdateEntry replaces an entry's lines, reversing the balance effects
	// of the old lines and applying the new ones in a single transaction.
	UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines the journal service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
