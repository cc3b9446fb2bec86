package services

import (
	"context"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
)

// LedgerReaderSvc defines read operations for the account transaction log
type LedgerReaderSvc interface {
	// ListTransactions retrieves a paginated list of an account's
	// deposit/withdraw records, newest first.
	ListTransactions(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// LedgerWriterSvc defines the deposit/withdraw commands
type LedgerWriterSvc interface {
	// Deposit appends a deposit to the account's transaction log, bumps the
	// (account, currency) balance, recomputes the aggregate balance, and
	// posts the mirroring journal entry when a role map is configured.
	Deposit(ctx context.Context, req dto.DepositRequest) (*domain.AccountTransaction, error)

	// Withdraw mirrors Deposit. Fails with apperrors.ErrInsufficientBalance
	// when the requested amount exceeds the recomputed balance.
	Withdraw(ctx context.Context, req dto.WithdrawRequest) (*domain.AccountTransaction, error)
}

// LedgerSvcFacade combines the transaction log service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
