package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"vending-machine/internal/core/domain"
	"vending-machine/pkg/apperror"
	"vending-machine/pkg/timedlock"
)

// AccountManager is the account directory: an identifier-keyed map of ledger
// entries whose membership is fixed at construction. Only balances mutate
// afterwards, and every operation serializes through the directory-wide lock.
type AccountManager struct {
	accounts map[string]*domain.Account
	lock     *timedlock.Lock
	log      zerolog.Logger
}

// NewAccountManager builds the directory from the supplied account list.
// Duplicate identifiers collapse to the first occurrence.
func NewAccountManager(accounts []*domain.Account, lockTimeout time.Duration, log zerolog.Logger) (*AccountManager, error) {
	if accounts == nil {
		return nil, apperror.InvalidArgument("accounts", "cannot be nil")
	}

	index := make(map[string]*domain.Account, len(accounts))
	for _, acc := range accounts {
		if acc == nil || strings.TrimSpace(acc.Identifier()) == "" {
			return nil, apperror.InvalidArgument("accounts", "cannot contain an account with an empty identifier")
		}
		if _, exists := index[acc.Identifier()]; exists {
			continue
		}
		index[acc.Identifier()] = acc
	}

	log.Debug().Int("accounts", len(index)).Msg("account directory built")

	return &AccountManager{
		accounts: index,
		lock:     timedlock.New(lockTimeout),
		log:      log,
	}, nil
}

// Authenticate reports whether the identifier is present in the directory.
// The empty string is a valid lookup key, never present.
func (m *AccountManager) Authenticate(ctx context.Context, accountIdentifier string) (bool, error) {
	if err := m.lock.Acquire(ctx); err != nil {
		return false, err
	}
	defer m.lock.Release()

	_, ok := m.accounts[accountIdentifier]

	return ok, nil
}

// GetAccountBalance returns the account's balance, or zero for an unknown
// identifier. The lenient read path is deliberate.
func (m *AccountManager) GetAccountBalance(ctx context.Context, accountIdentifier string) (decimal.Decimal, error) {
	if err := m.lock.Acquire(ctx); err != nil {
		return decimal.Zero, err
	}
	defer m.lock.Release()

	acc, ok := m.accounts[accountIdentifier]
	if !ok {
		return decimal.Zero, nil
	}

	return acc.Balance(ctx)
}

// CreditAccount credits the identified account. Unknown identifiers are a
// no-op returning false; ledger validation failures propagate unchanged.
func (m *AccountManager) CreditAccount(ctx context.Context, accountIdentifier string, amount decimal.Decimal) (bool, error) {
	if err := m.lock.Acquire(ctx); err != nil {
		return false, err
	}
	defer m.lock.Release()

	acc, ok := m.accounts[accountIdentifier]
	if !ok {
		return false, nil
	}

	if err := acc.Credit(ctx, amount); err != nil {
		return false, err
	}

	m.log.Debug().Str("account_id", accountIdentifier).Str("amount", amount.String()).Msg("account credited")

	return true, nil
}

// DebitAccount debits the identified account. Unknown identifiers are a
// no-op returning false; ledger validation failures propagate unchanged.
func (m *AccountManager) DebitAccount(ctx context.Context, accountIdentifier string, amount decimal.Decimal) (bool, error) {
	if err := m.lock.Acquire(ctx); err != nil {
		return false, err
	}
	defer m.lock.Release()

	acc, ok := m.accounts[accountIdentifier]
	if !ok {
		return false, nil
	}

	if err := acc.Debit(ctx, amount); err != nil {
		return false, err
	}

	m.log.Debug().Str("account_id", accountIdentifier).Str("amount", amount.String()).Msg("account debited")

	return true, nil
}
