package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"vending-machine/pkg/apperror"
	"vending-machine/pkg/timedlock"
)

// Account is the ledger entry for a single account: an immutable identifier
// and a balance that can never go negative. All balance reads and writes go
// through the entry's own bounded-wait lock.
type Account struct {
	identifier string
	balance    decimal.Decimal
	lock       *timedlock.Lock
}

// NewAccount creates an Account with a zero balance and the default lock
// timeout.
func NewAccount(identifier string) (*Account, error) {
	return NewAccountWithLockTimeout(identifier, timedlock.DefaultTimeout)
}

// NewAccountWithLockTimeout creates an Account with an explicit bound on lock
// acquisition.
func NewAccountWithLockTimeout(identifier string, lockTimeout time.Duration) (*Account, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, apperror.InvalidArgument("accountIdentifier", "cannot be empty")
	}

	return &Account{
		identifier: identifier,
		balance:    decimal.Zero,
		lock:       timedlock.New(lockTimeout),
	}, nil
}

// Identifier returns the account's immutable identifier.
func (a *Account) Identifier() string {
	return a.identifier
}

// Balance returns the current balance.
func (a *Account) Balance(ctx context.Context) (decimal.Decimal, error) {
	if err := a.lock.Acquire(ctx); err != nil {
		return decimal.Zero, err
	}
	defer a.lock.Release()

	return a.balance, nil
}

// Credit adds amount to the balance. A negative amount that would leave the
// balance below zero fails without mutating state.
func (a *Account) Credit(ctx context.Context, amount decimal.Decimal) error {
	if err := a.apply(ctx, amount); err != nil {
		return relabelNegativeBalance(err, apperror.ErrCreditBelowZero())
	}
	return nil
}

// Debit subtracts amount from the balance. Fails without mutating state if
// the result would be negative.
func (a *Account) Debit(ctx context.Context, amount decimal.Decimal) error {
	if err := a.apply(ctx, amount.Neg()); err != nil {
		return relabelNegativeBalance(err, apperror.ErrDebitBelowZero())
	}
	return nil
}

// apply performs the read-modify-write under the entry lock, enforcing the
// non-negative balance invariant.
func (a *Account) apply(ctx context.Context, delta decimal.Decimal) error {
	if err := a.lock.Acquire(ctx); err != nil {
		return err
	}
	defer a.lock.Release()

	next := a.balance.Add(delta)
	if next.IsNegative() {
		return apperror.ErrNegativeBalance()
	}

	a.balance = next

	return nil
}

// relabelNegativeBalance re-labels the ledger's generic non-negative guard
// (ACC_001 on param "value") into the operation-specific error. Anything else
// propagates unchanged.
func relabelNegativeBalance(err error, replacement *apperror.AppError) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Code == "ACC_001" && appErr.Param == "value" {
		return replacement
	}
	return err
}
