package supply

import (
	"context"

	"github.com/shopspring/decimal"

	"vending-machine/internal/core/domain"
)

// AccountSeed is one account to materialize: an identifier and its opening
// balance.
type AccountSeed struct {
	Identifier string
	Balance    decimal.Decimal
}

// StaticSupplier serves a fixed seed list. It implements ports.AccountSupplier
// for deployments without an external account source.
type StaticSupplier struct {
	seeds []AccountSeed
}

// NewStaticSupplier creates a StaticSupplier from the given seeds.
func NewStaticSupplier(seeds []AccountSeed) *StaticSupplier {
	return &StaticSupplier{seeds: seeds}
}

// DefaultSeeds returns the demo seed list: a single account "1" opened with
// 50.00.
func DefaultSeeds() []AccountSeed {
	return []AccountSeed{
		{Identifier: "1", Balance: decimal.NewFromFloat(50.00)},
	}
}

// ListAccounts materializes fresh ledger entries from the seed list. Each call
// returns new entries at their opening balances.
func (s *StaticSupplier) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	accounts := make([]*domain.Account, 0, len(s.seeds))
	for _, seed := range s.seeds {
		acc, err := domain.NewAccount(seed.Identifier)
		if err != nil {
			return nil, err
		}
		if seed.Balance.IsPositive() {
			if err := acc.Credit(ctx, seed.Balance); err != nil {
				return nil, err
			}
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}
