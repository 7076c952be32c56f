package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"vending-machine/internal/core/domain"
	"vending-machine/internal/core/ports/mocks"
)

const testPin = "1234"

func testOptions() MachineOptions {
	return MachineOptions{
		MaxStockLines:  2,
		MaxStockLevel:  25,
		MinVendBalance: dec("0.5"),
		LockTimeout:    time.Second,
	}
}

// newMachine builds a machine whose supplier serves a single account "1" with
// the given opening balance, and returns a pinned card bound to the resolved
// directory. The card is not yet inserted.
func newMachine(t *testing.T, balance string) (*VendingMachine, *domain.VendingCard) {
	t.Helper()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	supplier := mocks.NewMockAccountSupplier(ctrl)
	supplier.EXPECT().ListAccounts(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]*domain.Account, error) {
		acc := mustAccount(t, "1")
		require.NoError(t, acc.Credit(ctx, dec(balance)))
		return []*domain.Account{acc}, nil
	})

	machine, err := NewVendingMachine(supplier, testOptions(), zerolog.Nop())
	require.NoError(t, err)

	manager, err := machine.Accounts(ctx)
	require.NoError(t, err)

	card, err := domain.NewVendingCard("1", manager)
	require.NoError(t, err)
	require.NoError(t, card.SetPin(ctx, testPin))

	return machine, card
}

func stockCola(t *testing.T, machine *VendingMachine, units int) {
	t.Helper()
	require.NoError(t, machine.Restock(context.Background(), mustLine(t, "cola", "Cola", "0.75", units)))
}

func TestNewVendingMachine_Validation(t *testing.T) {
	_, err := NewVendingMachine(nil, testOptions(), zerolog.Nop())
	require.Error(t, err)
	assertAppCode(t, err, "ARG_001")

	ctrl := gomock.NewController(t)
	supplier := mocks.NewMockAccountSupplier(ctrl)

	opts := testOptions()
	opts.MinVendBalance = dec("-0.1")
	_, err = NewVendingMachine(supplier, opts, zerolog.Nop())
	require.Error(t, err)
	assertAppCode(t, err, "ARG_001")
}

func TestVendingMachine_VendSuccess(t *testing.T) {
	// Opening balance 1.00, one unit at 0.75: vend succeeds, balance drops to
	// 0.25, the line empties, and the machine goes out of service.
	ctx := context.Background()
	machine, card := newMachine(t, "1.00")
	stockCola(t, machine, 1)

	balance, err := machine.InsertCard(ctx, card)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("1.00")))

	result, err := machine.VendProduct(ctx, "cola", testPin)
	require.NoError(t, err)
	require.True(t, result.Vended())
	assert.Equal(t, domain.VendOK, result.Code)

	require.NotNil(t, result.Receipt)
	assert.Equal(t, "cola", result.Receipt.ProductID)
	assert.Equal(t, "Cola", result.Receipt.ProductName)
	assert.True(t, result.Receipt.UnitPrice.Equal(dec("0.75")))
	assert.True(t, result.Receipt.RemainingBalance.Equal(dec("0.25")))

	balance, err = machine.DisplayCardBalance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("0.25")))

	level, err := machine.Inventory().GetProductStockLevel(ctx, "cola")
	require.NoError(t, err)
	assert.Equal(t, 0, level)

	oos, err := machine.IsOutOfService(ctx)
	require.NoError(t, err)
	assert.True(t, oos)
}

func TestVendingMachine_VendBelowMinimumBalance(t *testing.T) {
	// Opening balance 0.40 is under the 0.5 floor: refused before any stock or
	// price check, and nothing is mutated.
	ctx := context.Background()
	machine, card := newMachine(t, "0.40")
	stockCola(t, machine, 5)

	_, err := machine.InsertCard(ctx, card)
	require.NoError(t, err)

	result, err := machine.VendProduct(ctx, "cola", testPin)
	require.NoError(t, err)
	assert.Equal(t, domain.VendBelowMinimum, result.Code)
	assert.False(t, result.Vended())
	assert.Nil(t, result.Receipt)

	balance, err := machine.DisplayCardBalance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("0.40")))

	level, err := machine.Inventory().GetProductStockLevel(ctx, "cola")
	require.NoError(t, err)
	assert.Equal(t, 5, level)
}

func TestVendingMachine_VendBalanceExactlyAtMinimum(t *testing.T) {
	// The floor is exclusive: a balance of exactly 0.5 is still refused.
	ctx := context.Background()
	machine, card := newMachine(t, "0.50")
	stockCola(t, machine, 1)

	_, err := machine.InsertCard(ctx, card)
	require.NoError(t, err)

	result, err := machine.VendProduct(ctx, "cola", testPin)
	require.NoError(t, err)
	assert.Equal(t, domain.VendBelowMinimum, result.Code)
}

func TestVendingMachine_VendNoCard(t *testing.T) {
	ctx := context.Background()
	machine, _ := newMachine(t, "1.00")
	stockCola(t, machine, 1)

	result, err := machine.VendProduct(ctx, "cola", testPin)
	require.NoError(t, err)
	assert.Equal(t, domain.VendNoCard, result.Code)
}

func TestVendingMachine_VendUnknownProduct(t *testing.T) {
	ctx := context.Background()
	machine, card := newMachine(t, "1.00")
	stockCola(t, machine, 1)

	_, err := machine.InsertCard(ctx, card)
	require.NoError(t, err)

	result, err := machine.VendProduct(ctx, "chips", testPin)
	require.NoError(t, err)
	assert.Equal(t, domain.VendUnknownProduct, result.Code)
}

func TestVendingMachine_VendOutOfStock(t *testing.T) {
	// Deplete the line, then ask again: the line still exists at zero, so the
	// refusal is out-of-stock, not unknown-product.
	ctx := context.Background()
	machine, card := newMachine(t, "5.00")
	stockCola(t, machine, 1)

	_, err := machine.InsertCard(ctx, card)
	require.NoError(t, err)

	result, err := machine.VendProduct(ctx, "cola", testPin)
	require.NoError(t, err)
	require.Equal(t, domain.VendOK, result.Code)

	result, err = machine.VendProduct(ctx, "cola", testPin)
	require.NoError(t, err)
	assert.Equal(t, domain.VendOutOfStock, result.Code)
}

func TestVendingMachine_VendInsufficientFunds(t *testing.T) {
	// 0.60 clears the 0.5 floor but not the 0.75 price.
	ctx := context.Background()
	machine, card := newMachine(t, "0.60")
	stockCola(t, machine, 1)

	_, err := machine.InsertCard(ctx, card)
	require.NoError(t, err)

	result, err := machine.VendProduct(ctx, "cola", testPin)
	require.NoError(t, err)
	assert.Equal(t, domain.VendInsufficientFunds, result.Code)

	balance, err := machine.DisplayCardBalance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("0.60")))
}

func TestVendingMachine_VendDebitRefused(t *testing.T) {
	ctx := context.Background()
	machine, card := newMachine(t, "1.00")
	stockCola(t, machine, 1)

	_, err := machine.InsertCard(ctx, card)
	require.NoError(t, err)

	result, err := machine.VendProduct(ctx, "cola", "0000")
	require.NoError(t, err)
	assert.Equal(t, domain.VendDebitRefused, result.Code)

	// Stock untouched when the debit is refused.
	level, err := machine.Inventory().GetProductStockLevel(ctx, "cola")
	require.NoError(t, err)
	assert.Equal(t, 1, level)
}

func TestVendingMachine_UnresolvedDirectoryRetries(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	supplier := mocks.NewMockAccountSupplier(ctrl)

	// The first supplier call fails; the machine stays degraded and silently
	// refuses vends, then recovers on the next resolution attempt.
	supplier.EXPECT().ListAccounts(gomock.Any()).Return(nil, errors.New("upstream down"))
	supplier.EXPECT().ListAccounts(gomock.Any()).Return([]*domain.Account{mustAccount(t, "1")}, nil)

	machine, err := NewVendingMachine(supplier, testOptions(), zerolog.Nop())
	require.NoError(t, err)

	result, err := machine.VendProduct(ctx, "cola", testPin)
	require.NoError(t, err)
	assert.Equal(t, domain.VendNoDirectory, result.Code)

	manager, err := machine.Accounts(ctx)
	require.NoError(t, err)
	require.NotNil(t, manager)

	// Resolved once, the directory is reused without further supplier calls.
	_, err = machine.Accounts(ctx)
	require.NoError(t, err)
}

func TestVendingMachine_CardLifecycle(t *testing.T) {
	ctx := context.Background()
	machine, card := newMachine(t, "2.00")

	// No card inserted yet.
	balance, err := machine.DisplayCardBalance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	balance, err = machine.InsertCard(ctx, card)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("2.00")))

	require.NoError(t, machine.EjectCard(ctx))

	balance, err = machine.DisplayCardBalance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestVendingMachine_RestockClearsOutOfService(t *testing.T) {
	ctx := context.Background()
	machine, card := newMachine(t, "5.00")
	stockCola(t, machine, 1)

	_, err := machine.InsertCard(ctx, card)
	require.NoError(t, err)

	result, err := machine.VendProduct(ctx, "cola", testPin)
	require.NoError(t, err)
	require.Equal(t, domain.VendOK, result.Code)

	oos, err := machine.IsOutOfService(ctx)
	require.NoError(t, err)
	require.True(t, oos)

	stockCola(t, machine, 3)

	oos, err = machine.IsOutOfService(ctx)
	require.NoError(t, err)
	assert.False(t, oos)
}

func TestVendingMachine_RepeatedVendsDrainBalanceAndStock(t *testing.T) {
	ctx := context.Background()
	machine, card := newMachine(t, "2.00")
	stockCola(t, machine, 5)

	_, err := machine.InsertCard(ctx, card)
	require.NoError(t, err)

	vended := 0
	for {
		result, err := machine.VendProduct(ctx, "cola", testPin)
		require.NoError(t, err)
		if !result.Vended() {
			// 2.00 buys two units at 0.75; the third attempt fails the floor
			// with 0.50 remaining.
			assert.Equal(t, domain.VendBelowMinimum, result.Code)
			break
		}
		vended++
	}
	assert.Equal(t, 2, vended)

	balance, err := machine.DisplayCardBalance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("0.50")))

	level, err := machine.Inventory().GetProductStockLevel(ctx, "cola")
	require.NoError(t, err)
	assert.Equal(t, 3, level)
}

func TestDefaultMachineOptions(t *testing.T) {
	opts := DefaultMachineOptions()
	assert.Equal(t, 1, opts.MaxStockLines)
	assert.Equal(t, 25, opts.MaxStockLevel)
	assert.True(t, opts.MinVendBalance.Equal(decimal.NewFromFloat(0.5)))
	assert.Equal(t, 3*time.Second, opts.LockTimeout)
}
