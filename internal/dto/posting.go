package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentDirection distinguishes money received from money paid out.
type PaymentDirection string

const (
	PaymentIncoming PaymentDirection = "INCOMING"
	PaymentOutgoing PaymentDirection = "OUTGOING"
)

// SalePostingRequest defines the data a sale workflow supplies to post
// revenue recognition. PaidAmount may be less than TotalAmount; the
// remainder is carried on the receivable account.
type SalePostingRequest struct {
	SaleID       string          `json:"saleID" binding:"required"`
	TotalAmount  decimal.Decimal `json:"totalAmount" binding:"required"`
	PaidAmount   decimal.Decimal `json:"paidAmount"`
	CurrencyID   string          `json:"currencyID" binding:"required,len=3,uppercase"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"` // Optional, resolved as of SaleDate when zero
	SaleDate     time.Time       `json:"saleDate" binding:"required"`
	Description  string          `json:"description"`
}

// PurchasePostingRequest defines the data a purchase workflow supplies to
// post an expense. The unpaid remainder is carried on the payable account.
type PurchasePostingRequest struct {
	PurchaseID   string          `json:"purchaseID" binding:"required"`
	TotalAmount  decimal.Decimal `json:"totalAmount" binding:"required"`
	PaidAmount   decimal.Decimal `json:"paidAmount"`
	CurrencyID   string          `json:"currencyID" binding:"required,len=3,uppercase"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	PurchaseDate time.Time       `json:"purchaseDate" binding:"required"`
	Description  string          `json:"description"`
}

// PaymentPostingRequest defines the data for settling a receivable
// (incoming) or a payable (outgoing). The rate is the payment's own rate,
// not the rate of the document being settled.
type PaymentPostingRequest struct {
	PaymentID    string           `json:"paymentID" binding:"required"`
	Direction    PaymentDirection `json:"direction" binding:"required,oneof=INCOMING OUTGOING"`
	Amount       decimal.Decimal  `json:"amount" binding:"required"`
	CurrencyID   string           `json:"currencyID" binding:"required,len=3,uppercase"`
	ExchangeRate decimal.Decimal  `json:"exchangeRate"`
	PaymentDate  time.Time        `json:"paymentDate" binding:"required"`
	Description  string           `json:"description"`
}
