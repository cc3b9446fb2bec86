package services

import (
	"context"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
)

// PostingSvcFacade translates business documents into journal entries.
// Each operation resolves the accounts it needs from the configured role
// map and posts a single entry through the journal service.
type PostingSvcFacade interface {
	// RecordSale posts revenue recognition for a sale, splitting the
	// received amount between cash and receivable when partially paid.
	RecordSale(ctx context.Context, req dto.SalePostingRequest) (*domain.JournalEntry, error)
	// RecordPurchase posts an expense for a purchase, splitting the paid
	// amount between cash and payable when partially paid.
	RecordPurchase(ctx context.Context, req dto.PurchasePostingRequest) (*domain.JournalEntry, error)
	// RecordPayment posts a settlement against a receivable or payable
	RecordPayment(ctx context.Context, req dto.PaymentPostingRequest) (*domain.JournalEntry, error)
}
