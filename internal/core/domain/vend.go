package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VendCode tags the internal outcome of a vend attempt. External callers that
// only care about success check Vended(); the code keeps the individual
// refusal branches testable without exposing which check failed.
type VendCode string

const (
	VendOK                VendCode = "VENDED"
	VendNoDirectory       VendCode = "NO_ACCOUNT_DIRECTORY"
	VendNoCard            VendCode = "NO_CARD"
	VendBelowMinimum      VendCode = "BALANCE_BELOW_MINIMUM"
	VendUnknownProduct    VendCode = "UNKNOWN_PRODUCT"
	VendOutOfStock        VendCode = "OUT_OF_STOCK"
	VendInsufficientFunds VendCode = "INSUFFICIENT_FUNDS"
	VendDebitRefused      VendCode = "DEBIT_REFUSED"
)

// Receipt records a successful vend.
type Receipt struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	VendedAt         time.Time       `json:"vended_at"`
}

// VendResult is the tagged outcome of a vend transaction. Receipt is non-nil
// only when Code is VendOK.
type VendResult struct {
	Code    VendCode `json:"code"`
	Receipt *Receipt `json:"receipt,omitempty"`
}

// Vended reports whether the transaction completed.
func (r VendResult) Vended() bool {
	return r.Code == VendOK
}
