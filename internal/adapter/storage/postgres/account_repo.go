package postgres

import (
	"context"
	"fmt"

	"vending-machine/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Pool is the subset of pgxpool.Pool this package needs. pgxmock satisfies it
// in tests.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// AccountRepo loads ledger accounts from PostgreSQL. It implements
// ports.AccountSupplier.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// ListAccounts fetches all accounts and materializes them as ledger entries at
// their stored balances.
func (r *AccountRepo) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	query := `SELECT identifier, balance::text FROM accounts ORDER BY identifier`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		var identifier, balanceText string
		if err := rows.Scan(&identifier, &balanceText); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}

		balance, err := decimal.NewFromString(balanceText)
		if err != nil {
			return nil, fmt.Errorf("parse balance for account %s: %w", identifier, err)
		}
		if balance.IsNegative() {
			return nil, fmt.Errorf("account %s has negative stored balance %s", identifier, balance)
		}

		acc, err := domain.NewAccount(identifier)
		if err != nil {
			return nil, fmt.Errorf("materialize account %s: %w", identifier, err)
		}
		if balance.IsPositive() {
			if err := acc.Credit(ctx, balance); err != nil {
				return nil, fmt.Errorf("open balance for account %s: %w", identifier, err)
			}
		}

		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}

	return accounts, nil
}
