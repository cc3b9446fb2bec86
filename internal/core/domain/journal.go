package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry groups the debit/credit lines posted together for one
// financial event. EntryNumber is a unique sequential "J######" value;
// numbers are never reused after deletes, so gaps are acceptable.
type JournalEntry struct {
	EntryID       string             `json:"entryID"`     // Primary Key (e.g., UUID)
	EntryNumber   string             `json:"entryNumber"` // Unique, "J" + zero-padded sequence
	EntryDate     time.Time          `json:"entryDate"`
	Description   string             `json:"description"`
	ReferenceType *string            `json:"referenceType"` // Originating workflow, e.g. "SALE"
	ReferenceID   *string            `json:"referenceID"`   // Id within the originating workflow
	Lines         []JournalEntryLine `json:"lines,omitempty"`
	AuditFields
}

// JournalEntryLine is one debit-or-credit movement against one
// (account, currency) pair within an entry. By convention only one of
// DebitAmount/CreditAmount is non-zero; this is not validated, and entries
// are allowed to post unbalanced. Reconciliation, not insertion, detects
// imbalance.
type JournalEntryLine struct {
	LineID       string          `json:"lineID"`  // Primary Key (e.g., UUID)
	EntryID      string          `json:"entryID"` // FK -> JournalEntry.entryID
	AccountID    string          `json:"accountID"`
	CurrencyID   string          `json:"currencyID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	BaseAmount   decimal.Decimal `json:"baseAmount"` // (debit > 0 ? debit : credit) * rate
	Description  string          `json:"description"`
}

// Reconciliation compares the incrementally maintained per-currency balance
// against the sum of journal-line effects for the same pair. It is a
// read-only diagnostic; drift is reported, never corrected.
type Reconciliation struct {
	AccountID      string          `json:"accountID"`
	CurrencyID     string          `json:"currencyID"`
	AccountBalance decimal.Decimal `json:"accountBalance"` // AccountCurrencyBalance row
	JournalBalance decimal.Decimal `json:"journalBalance"` // Sum(debits) - Sum(credits)
	Difference     decimal.Decimal `json:"difference"`
	IsBalanced     bool            `json:"isBalanced"` // |Difference| < 0.01
}
