package domain

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"vending-machine/pkg/apperror"
	"vending-machine/pkg/pincode"
	"vending-machine/pkg/timedlock"
)

// AccountDirectory is the slice of the account manager a card needs: the
// authenticate/credit/debit operations keyed by account identifier.
type AccountDirectory interface {
	Authenticate(ctx context.Context, accountIdentifier string) (bool, error)
	CreditAccount(ctx context.Context, accountIdentifier string, amount decimal.Decimal) (bool, error)
	DebitAccount(ctx context.Context, accountIdentifier string, amount decimal.Decimal) (bool, error)
}

// VendingCard binds an account identifier to a settable PIN. The PIN is held
// as an Argon2id digest, never in clear text. The binding to the directory is
// checked at construction; the account's existence is not.
type VendingCard struct {
	accountIdentifier string
	directory         AccountDirectory
	pinHash           string
	lock              *timedlock.Lock
}

// NewVendingCard creates a card bound to the given account directory. The PIN
// is initially unset.
func NewVendingCard(accountIdentifier string, directory AccountDirectory) (*VendingCard, error) {
	if strings.TrimSpace(accountIdentifier) == "" {
		return nil, apperror.InvalidArgument("accountIdentifier", "cannot be empty")
	}
	if directory == nil {
		return nil, apperror.InvalidArgument("accountDirectory", "cannot be nil")
	}

	return &VendingCard{
		accountIdentifier: accountIdentifier,
		directory:         directory,
		lock:              timedlock.New(timedlock.DefaultTimeout),
	}, nil
}

// AccountIdentifier returns the bound account identifier.
func (c *VendingCard) AccountIdentifier() string {
	return c.accountIdentifier
}

// SetPin stores a new PIN, replacing any previous one.
func (c *VendingCard) SetPin(ctx context.Context, pin string) error {
	if strings.TrimSpace(pin) == "" {
		return apperror.InvalidArgument("pin", "cannot be empty")
	}

	hash, err := pincode.Hash(pin)
	if err != nil {
		return apperror.InternalError(err)
	}

	if err := c.lock.Acquire(ctx); err != nil {
		return err
	}
	defer c.lock.Release()

	c.pinHash = hash

	return nil
}

// VerifyPin reports whether pin matches the stored PIN. Returns false, not an
// error, when no PIN has ever been set.
func (c *VendingCard) VerifyPin(ctx context.Context, pin string) (bool, error) {
	if strings.TrimSpace(pin) == "" {
		return false, apperror.InvalidArgument("pin", "cannot be empty")
	}

	if err := c.lock.Acquire(ctx); err != nil {
		return false, err
	}
	hash := c.pinHash
	c.lock.Release()

	if hash == "" {
		return false, nil
	}

	match, err := pincode.Verify(pin, hash)
	if err != nil {
		return false, apperror.InternalError(err)
	}

	return match, nil
}

// CreditAccount authenticates the bound account and verifies the pin, then
// forwards the credit to the directory. Refusal is silent: false without an
// error when either check fails.
func (c *VendingCard) CreditAccount(ctx context.Context, pin string, amount decimal.Decimal) (bool, error) {
	ok, err := c.authorize(ctx, pin)
	if err != nil || !ok {
		return false, err
	}

	return c.directory.CreditAccount(ctx, c.accountIdentifier, amount)
}

// DebitAccount authenticates the bound account and verifies the pin, then
// forwards the debit to the directory. Refusal is silent.
func (c *VendingCard) DebitAccount(ctx context.Context, pin string, amount decimal.Decimal) (bool, error) {
	ok, err := c.authorize(ctx, pin)
	if err != nil || !ok {
		return false, err
	}

	return c.directory.DebitAccount(ctx, c.accountIdentifier, amount)
}

func (c *VendingCard) authorize(ctx context.Context, pin string) (bool, error) {
	known, err := c.directory.Authenticate(ctx, c.accountIdentifier)
	if err != nil || !known {
		return false, err
	}

	return c.VerifyPin(ctx, pin)
}
