package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"vending-machine/internal/core/domain"
	"vending-machine/internal/core/ports"
	"vending-machine/pkg/apperror"
	"vending-machine/pkg/timedlock"
)

// MachineOptions holds the machine-wide configuration supplied at
// construction.
type MachineOptions struct {
	MaxStockLines  int
	MaxStockLevel  int
	MinVendBalance decimal.Decimal
	LockTimeout    time.Duration
}

// DefaultMachineOptions returns the stock defaults: one stock line, 25 units,
// a 0.5 minimum vend balance, and the default lock bound.
func DefaultMachineOptions() MachineOptions {
	return MachineOptions{
		MaxStockLines:  1,
		MaxStockLevel:  25,
		MinVendBalance: decimal.NewFromFloat(0.5),
		LockTimeout:    timedlock.DefaultTimeout,
	}
}

// VendingMachine orchestrates the vend transaction: card, account directory,
// and inventory composed under the machine-wide lock. The account directory
// is resolved lazily from the supplier on first use. The debit and the stock
// removal remain two separate ledger operations; the machine lock only
// narrows the window in which the gap is observable.
type VendingMachine struct {
	inventory    *Inventory
	supplier     ports.AccountSupplier
	manager      *AccountManager // nil until resolved
	insertedCard *domain.VendingCard
	outOfService bool

	minVendBalance decimal.Decimal
	lockTimeout    time.Duration
	lock           *timedlock.Lock
	log            zerolog.Logger
}

// NewVendingMachine creates a machine with an empty inventory sized from
// opts. The account supplier is consulted lazily, not here.
func NewVendingMachine(supplier ports.AccountSupplier, opts MachineOptions, log zerolog.Logger) (*VendingMachine, error) {
	if supplier == nil {
		return nil, apperror.InvalidArgument("accountSupplier", "cannot be nil")
	}
	if opts.MinVendBalance.IsNegative() {
		return nil, apperror.InvalidArgument("minVendBalance", "cannot be less than zero")
	}
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = timedlock.DefaultTimeout
	}

	inventory, err := NewInventory(opts.MaxStockLines, opts.MaxStockLevel, []*domain.StockLine{}, opts.LockTimeout, log)
	if err != nil {
		return nil, err
	}

	return &VendingMachine{
		inventory:      inventory,
		supplier:       supplier,
		minVendBalance: opts.MinVendBalance,
		lockTimeout:    opts.LockTimeout,
		lock:           timedlock.New(opts.LockTimeout),
		log:            log,
	}, nil
}

// Inventory returns the machine's stock directory.
func (v *VendingMachine) Inventory() *Inventory {
	return v.inventory
}

// Accounts resolves and returns the account directory. The supplier is
// consulted at most once; until it succeeds, every call retries.
func (v *VendingMachine) Accounts(ctx context.Context) (*AccountManager, error) {
	if err := v.lock.Acquire(ctx); err != nil {
		return nil, err
	}
	defer v.lock.Release()

	v.resolveAccounts(ctx)
	if v.manager == nil {
		return nil, apperror.ErrNotFound("account directory")
	}

	return v.manager, nil
}

// resolveAccounts is the initialize-once path for the account directory.
// Callers must hold the machine lock.
func (v *VendingMachine) resolveAccounts(ctx context.Context) {
	if v.manager != nil {
		return
	}

	accounts, err := v.supplier.ListAccounts(ctx)
	if err != nil {
		v.log.Warn().Err(err).Msg("account supplier failed, directory unresolved")
		return
	}

	manager, err := NewAccountManager(accounts, v.lockTimeout, v.log)
	if err != nil {
		v.log.Warn().Err(err).Msg("account directory rejected supplied accounts")
		return
	}

	v.manager = manager
	v.log.Info().Msg("account directory resolved")
}

// InsertCard sets the currently inserted card, replacing any previous one
// without validation, and reports the card's account balance.
func (v *VendingMachine) InsertCard(ctx context.Context, card *domain.VendingCard) (decimal.Decimal, error) {
	if err := v.lock.Acquire(ctx); err != nil {
		return decimal.Zero, err
	}
	defer v.lock.Release()

	v.insertedCard = card
	v.resolveAccounts(ctx)

	balance, err := v.displayBalanceLocked(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	v.log.Info().Str("balance", balance.String()).Msg("card inserted")

	return balance, nil
}

// EjectCard clears the currently inserted card.
func (v *VendingMachine) EjectCard(ctx context.Context) error {
	if err := v.lock.Acquire(ctx); err != nil {
		return err
	}
	defer v.lock.Release()

	v.insertedCard = nil

	return nil
}

// DisplayCardBalance returns the inserted card's live balance, or zero when
// no card is inserted or the directory is unresolved.
func (v *VendingMachine) DisplayCardBalance(ctx context.Context) (decimal.Decimal, error) {
	if err := v.lock.Acquire(ctx); err != nil {
		return decimal.Zero, err
	}
	defer v.lock.Release()

	return v.displayBalanceLocked(ctx)
}

func (v *VendingMachine) displayBalanceLocked(ctx context.Context) (decimal.Decimal, error) {
	if v.insertedCard == nil || v.manager == nil {
		return decimal.Zero, nil
	}

	return v.manager.GetAccountBalance(ctx, v.insertedCard.AccountIdentifier())
}

// IsOutOfService reports whether the machine's aggregate stock has reached
// zero.
func (v *VendingMachine) IsOutOfService(ctx context.Context) (bool, error) {
	if err := v.lock.Acquire(ctx); err != nil {
		return false, err
	}
	defer v.lock.Release()

	return v.outOfService, nil
}

// Restock merges a stock line into the inventory and re-derives the
// out-of-service state.
func (v *VendingMachine) Restock(ctx context.Context, line *domain.StockLine) error {
	if err := v.lock.Acquire(ctx); err != nil {
		return err
	}
	defer v.lock.Release()

	if err := v.inventory.AddInventory(ctx, line); err != nil {
		return err
	}

	return v.refreshOutOfService(ctx)
}

func (v *VendingMachine) refreshOutOfService(ctx context.Context) error {
	level, err := v.inventory.CurrentStockLevel(ctx)
	if err != nil {
		return err
	}
	v.outOfService = level == 0

	return nil
}

// VendProduct is the atomic vend transaction: authenticate, check funds,
// check stock, debit, then remove one unit. All refusal branches return a
// tagged result with a nil error; errors are reserved for infrastructure
// failures such as lock timeouts.
func (v *VendingMachine) VendProduct(ctx context.Context, productIdentifier string, pin string) (domain.VendResult, error) {
	if err := v.lock.Acquire(ctx); err != nil {
		return domain.VendResult{}, err
	}
	defer v.lock.Release()

	v.resolveAccounts(ctx)
	if v.manager == nil {
		return v.refuse(productIdentifier, domain.VendNoDirectory), nil
	}
	if v.insertedCard == nil {
		return v.refuse(productIdentifier, domain.VendNoCard), nil
	}

	balance, err := v.manager.GetAccountBalance(ctx, v.insertedCard.AccountIdentifier())
	if err != nil {
		return domain.VendResult{}, err
	}
	if balance.LessThanOrEqual(v.minVendBalance) {
		return v.refuse(productIdentifier, domain.VendBelowMinimum), nil
	}

	lines, err := v.inventory.CurrentStockLines(ctx)
	if err != nil {
		return domain.VendResult{}, err
	}

	var selected *StockLineSnapshot
	for idx := range lines {
		if lines[idx].Product.Identifier() == productIdentifier {
			selected = &lines[idx]
			break
		}
	}
	if selected == nil {
		return v.refuse(productIdentifier, domain.VendUnknownProduct), nil
	}
	if selected.Stock == 0 {
		return v.refuse(productIdentifier, domain.VendOutOfStock), nil
	}

	unitPrice := selected.Product.Price()
	if balance.LessThan(unitPrice) {
		return v.refuse(productIdentifier, domain.VendInsufficientFunds), nil
	}

	debited, err := v.insertedCard.DebitAccount(ctx, pin, unitPrice)
	if err != nil {
		return domain.VendResult{}, err
	}
	if !debited {
		return v.refuse(productIdentifier, domain.VendDebitRefused), nil
	}

	// The debit has landed; a failure here leaves the two ledgers apart.
	// There is no compensating credit.
	if err := v.inventory.RemoveInventory(ctx, productIdentifier, 1); err != nil {
		return domain.VendResult{}, err
	}

	if err := v.refreshOutOfService(ctx); err != nil {
		return domain.VendResult{}, err
	}

	receipt := &domain.Receipt{
		ID:               uuid.New(),
		ProductID:        productIdentifier,
		ProductName:      selected.Product.Name(),
		UnitPrice:        unitPrice,
		RemainingBalance: balance.Sub(unitPrice),
		VendedAt:         time.Now().UTC(),
	}

	v.log.Info().
		Str("receipt_id", receipt.ID.String()).
		Str("product_id", productIdentifier).
		Str("unit_price", unitPrice.String()).
		Bool("out_of_service", v.outOfService).
		Msg("product vended")

	return domain.VendResult{Code: domain.VendOK, Receipt: receipt}, nil
}

func (v *VendingMachine) refuse(productIdentifier string, code domain.VendCode) domain.VendResult {
	v.log.Debug().
		Str("product_id", productIdentifier).
		Str("code", string(code)).
		Msg("vend refused")

	return domain.VendResult{Code: code}
}
