package apperror

import (
	"fmt"
)

// AppError is a structured error carrying a stable code and, for validation
// failures, the name of the offending parameter.
type AppError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Param   string `json:"param,omitempty"`
	Err     error  `json:"-"` // Wrapped internal error (not exposed to callers)
}

func (e *AppError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	case e.Param != "":
		return fmt.Sprintf("[%s] %s (param: %s)", e.Code, e.Message, e.Param)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ---- Argument Validation (ARG) ----

// InvalidArgument reports a structurally invalid caller-supplied value.
// The offending parameter is always named.
func InvalidArgument(param string, message string) *AppError {
	return &AppError{
		Code:    "ARG_001",
		Message: message,
		Param:   param,
	}
}

// ---- Account Ledger (ACC) ----

// ErrNegativeBalance is the ledger entry's internal guard: no assignment may
// leave a balance below zero.
func ErrNegativeBalance() *AppError {
	return &AppError{
		Code:    "ACC_001",
		Message: "supplied value cannot be less than zero",
		Param:   "value",
	}
}

// ErrCreditBelowZero re-labels ACC_001 raised through the credit path.
func ErrCreditBelowZero() *AppError {
	return &AppError{
		Code:    "ACC_002",
		Message: "cannot set balance to less than zero via credit",
		Param:   "amount",
	}
}

// ErrDebitBelowZero re-labels ACC_001 raised through the debit path.
func ErrDebitBelowZero() *AppError {
	return &AppError{
		Code:    "ACC_003",
		Message: "cannot set balance to less than zero via debit",
		Param:   "amount",
	}
}

// ---- Stock / Inventory (STK) ----

// ErrCapacityExceeded reports an add that would push aggregate stock above the
// machine's maximum.
func ErrCapacityExceeded(requested int, max int) *AppError {
	return New("STK_001", fmt.Sprintf("cannot add %d units, exceeds max stock level of %d", requested, max))
}

// ErrStockLineLimit reports an add that would create more distinct product
// lines than the machine holds.
func ErrStockLineLimit(productID string, max int) *AppError {
	return New("STK_001", fmt.Sprintf("cannot add product %s, max of %d stock lines reached", productID, max))
}

// ErrInsufficientStock reports a removal larger than the line's current stock.
func ErrInsufficientStock(productID string, requested int) *AppError {
	return New("STK_002", fmt.Sprintf("cannot remove %d units of product %s, insufficient stock", requested, productID))
}

// ---- Missing Entities (NF) ----

// ErrNotFound reports a referenced entity that does not exist. Distinct from
// InvalidArgument so callers can tell bad input from missing data.
func ErrNotFound(entity string) *AppError {
	return New("NF_001", fmt.Sprintf("%s not found", entity))
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "internal error", err)
}

// ErrLockTimeout reports failure to acquire a guarding lock within its bound.
// Fatal and non-retryable; never a business condition.
func ErrLockTimeout(err error) *AppError {
	return Wrap("SYS_002", "lock acquisition timeout", err)
}
