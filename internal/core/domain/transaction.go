package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether an account transaction is a deposit or a withdrawal.
type TransactionType string

const (
	Deposit  TransactionType = "DEPOSIT"
	Withdraw TransactionType = "WITHDRAW"
)

// AccountTransaction is one append-only deposit/withdraw record against a
// single account, independent of journal lines. The full log for an account
// is scanned to recompute its aggregate balance from scratch.
// CurrencyName stores the currency by name rather than id (legacy shape).
type AccountTransaction struct {
	TransactionID   string          `json:"transactionID"` // Primary Key (e.g., UUID)
	AccountID       string          `json:"accountID"`     // FK -> Account.accountID
	TransactionType TransactionType `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`       // In transaction currency
	CurrencyName    string          `json:"currencyName"` // Currency name, not id
	Rate            decimal.Decimal `json:"rate"`         // Transaction currency -> reporting currency
	Total           decimal.Decimal `json:"total"`        // Amount * Rate, reporting currency
	TransactionDate time.Time       `json:"transactionDate"`
	IsFull          bool            `json:"isFull"` // Operation requested "entire balance"
	Notes           string          `json:"notes"`
	AuditFields
}
