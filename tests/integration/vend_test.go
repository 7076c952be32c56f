package integration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vending-machine/internal/adapter/supply"
	"vending-machine/internal/core/domain"
	"vending-machine/internal/service"
)

// TestConcurrentVends fires 40 concurrent vend requests at one machine and
// verifies conservation: every successful vend removed exactly one unit and
// debited exactly one unit price, with no lost or duplicated updates.
func TestConcurrentVends(t *testing.T) {
	ctx := context.Background()
	pin := "4321"
	unitPrice := decimal.RequireFromString("0.75")
	openingBalance := decimal.RequireFromString("20.00")

	supplier := supply.NewStaticSupplier([]supply.AccountSeed{
		{Identifier: "1", Balance: openingBalance},
	})

	machine, err := service.NewVendingMachine(supplier, service.MachineOptions{
		MaxStockLines:  1,
		MaxStockLevel:  100,
		MinVendBalance: decimal.RequireFromString("0.5"),
		LockTimeout:    10 * time.Second,
	}, zerolog.Nop())
	require.NoError(t, err)

	product, err := domain.NewProduct("cola", "Cola", unitPrice)
	require.NoError(t, err)
	line, err := domain.NewStockLine(product, 60)
	require.NoError(t, err)
	require.NoError(t, machine.Restock(ctx, line))

	manager, err := machine.Accounts(ctx)
	require.NoError(t, err)

	card, err := domain.NewVendingCard("1", manager)
	require.NoError(t, err)
	require.NoError(t, card.SetPin(ctx, pin))

	_, err = machine.InsertCard(ctx, card)
	require.NoError(t, err)

	// 20.00 buys 26 units at 0.75 before the balance hits the 0.5 floor
	// (20.00 - 26*0.75 = 0.50). The remaining 14 attempts must be refused.
	concurrency := 40

	var wg sync.WaitGroup
	var vended atomic.Int64
	var refused atomic.Int64

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := machine.VendProduct(ctx, "cola", pin)
			if err != nil {
				t.Error(err)
				return
			}
			if result.Vended() {
				vended.Add(1)
			} else {
				refused.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(26), vended.Load())
	assert.Equal(t, int64(14), refused.Load())

	// Balance conservation: opening minus one unit price per successful vend.
	balance, err := machine.DisplayCardBalance(ctx)
	require.NoError(t, err)
	expectedBalance := openingBalance.Sub(unitPrice.Mul(decimal.NewFromInt(vended.Load())))
	assert.True(t, balance.Equal(expectedBalance), "balance %s, want %s", balance, expectedBalance)

	// Stock conservation: one unit removed per successful vend.
	level, err := machine.Inventory().GetProductStockLevel(ctx, "cola")
	require.NoError(t, err)
	assert.Equal(t, 60-int(vended.Load()), level)

	oos, err := machine.IsOutOfService(ctx)
	require.NoError(t, err)
	assert.False(t, oos)
}

// TestConcurrentVendsDrainStock pits concurrent vends against a nearly empty
// line: exactly the stocked units vend, the rest are refused out-of-stock, and
// the machine ends out of service.
func TestConcurrentVendsDrainStock(t *testing.T) {
	ctx := context.Background()
	pin := "4321"

	supplier := supply.NewStaticSupplier([]supply.AccountSeed{
		{Identifier: "1", Balance: decimal.RequireFromString("100.00")},
	})

	machine, err := service.NewVendingMachine(supplier, service.MachineOptions{
		MaxStockLines:  1,
		MaxStockLevel:  100,
		MinVendBalance: decimal.RequireFromString("0.5"),
		LockTimeout:    10 * time.Second,
	}, zerolog.Nop())
	require.NoError(t, err)

	product, err := domain.NewProduct("cola", "Cola", decimal.RequireFromString("0.75"))
	require.NoError(t, err)
	line, err := domain.NewStockLine(product, 5)
	require.NoError(t, err)
	require.NoError(t, machine.Restock(ctx, line))

	manager, err := machine.Accounts(ctx)
	require.NoError(t, err)
	card, err := domain.NewVendingCard("1", manager)
	require.NoError(t, err)
	require.NoError(t, card.SetPin(ctx, pin))
	_, err = machine.InsertCard(ctx, card)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var vended atomic.Int64
	var outOfStock atomic.Int64

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := machine.VendProduct(ctx, "cola", pin)
			if err != nil {
				t.Error(err)
				return
			}
			switch result.Code {
			case domain.VendOK:
				vended.Add(1)
			case domain.VendOutOfStock:
				outOfStock.Add(1)
			default:
				t.Errorf("unexpected vend code %s", result.Code)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(5), vended.Load())
	assert.Equal(t, int64(15), outOfStock.Load())

	level, err := machine.Inventory().GetProductStockLevel(ctx, "cola")
	require.NoError(t, err)
	assert.Equal(t, 0, level)

	oos, err := machine.IsOutOfService(ctx)
	require.NoError(t, err)
	assert.True(t, oos)
}
