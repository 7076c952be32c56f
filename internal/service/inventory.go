package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"vending-machine/internal/core/domain"
	"vending-machine/pkg/apperror"
	"vending-machine/pkg/timedlock"
)

// StockLineSnapshot is one line of a point-in-time inventory copy.
type StockLineSnapshot struct {
	Product *domain.Product
	Stock   int
}

// Inventory is the stock directory: product-identifier-keyed stock lines,
// bounded by a maximum distinct-line count and a maximum aggregate unit
// count. All operations serialize through the directory-wide lock. Lines are
// retained at zero stock rather than removed when depleted.
type Inventory struct {
	lines             map[string]*domain.StockLine
	order             []string // insertion order of product identifiers
	maxStockLines     int
	maxStockLevel     int
	currentStockLevel int
	lock              *timedlock.Lock
	log               zerolog.Logger
}

// NewInventory creates an Inventory with the given capacity bounds, seeded
// from the initial stock list. Lines for the same product merge additively.
func NewInventory(maxStockLines int, maxStockLevel int, stock []*domain.StockLine, lockTimeout time.Duration, log zerolog.Logger) (*Inventory, error) {
	if maxStockLines <= 0 {
		return nil, apperror.InvalidArgument("maxStockLines", "must be greater than zero")
	}
	if maxStockLevel <= 0 {
		return nil, apperror.InvalidArgument("maxStockLevel", "must be greater than zero")
	}
	if stock == nil {
		return nil, apperror.InvalidArgument("stock", "cannot be nil")
	}

	distinct := make(map[string]struct{}, len(stock))
	for _, line := range stock {
		if line != nil && line.Product() != nil {
			distinct[line.Product().Identifier()] = struct{}{}
		}
	}
	if len(distinct) > maxStockLines {
		return nil, apperror.InvalidArgument("stock", "contains more product lines than maxStockLines allows")
	}

	inv := &Inventory{
		lines:         make(map[string]*domain.StockLine),
		maxStockLines: maxStockLines,
		maxStockLevel: maxStockLevel,
		lock:          timedlock.New(lockTimeout),
		log:           log,
	}

	// The inventory is not shared yet, so the seed merge runs unlocked.
	for _, line := range stock {
		if err := inv.addLocked(line); err != nil {
			return nil, err
		}
	}

	return inv, nil
}

// MaxStockLines returns the distinct-line bound.
func (i *Inventory) MaxStockLines() int {
	return i.maxStockLines
}

// MaxStockLevel returns the aggregate unit bound.
func (i *Inventory) MaxStockLevel() int {
	return i.maxStockLevel
}

// CurrentStockLevel returns the aggregate unit count across all lines.
func (i *Inventory) CurrentStockLevel(ctx context.Context) (int, error) {
	if err := i.lock.Acquire(ctx); err != nil {
		return 0, err
	}
	defer i.lock.Release()

	return i.currentStockLevel, nil
}

// AddInventory merges the incoming stock line, creating the product's line if
// absent and adding the incoming count to it.
func (i *Inventory) AddInventory(ctx context.Context, line *domain.StockLine) error {
	if err := i.lock.Acquire(ctx); err != nil {
		return err
	}
	defer i.lock.Release()

	if err := i.addLocked(line); err != nil {
		return err
	}

	i.log.Info().
		Str("product_id", line.Product().Identifier()).
		Int("units", line.Stock()).
		Int("stock_level", i.currentStockLevel).
		Msg("inventory added")

	return nil
}

func (i *Inventory) addLocked(line *domain.StockLine) error {
	if line == nil {
		return apperror.InvalidArgument("inventory", "cannot be nil")
	}
	if line.Product() == nil {
		return apperror.InvalidArgument("inventory", "product cannot be nil")
	}
	productID := line.Product().Identifier()
	if strings.TrimSpace(productID) == "" {
		return apperror.InvalidArgument("inventory", "product identifier cannot be empty")
	}
	if line.Stock() <= 0 {
		return apperror.InvalidArgument("inventory", "stock must be greater than zero")
	}

	existing, ok := i.lines[productID]
	if !ok && len(i.lines) >= i.maxStockLines {
		return apperror.ErrStockLineLimit(productID, i.maxStockLines)
	}
	if i.currentStockLevel+line.Stock() > i.maxStockLevel {
		return apperror.ErrCapacityExceeded(line.Stock(), i.maxStockLevel)
	}

	if !ok {
		fresh, err := domain.NewStockLine(line.Product(), 0)
		if err != nil {
			return err
		}
		i.lines[productID] = fresh
		i.order = append(i.order, productID)
		existing = fresh
	}

	if err := existing.Adjust(line.Stock()); err != nil {
		return err
	}
	i.currentStockLevel += line.Stock()

	return nil
}

// RemoveInventory removes count units of the identified product.
func (i *Inventory) RemoveInventory(ctx context.Context, productIdentifier string, count int) error {
	if strings.TrimSpace(productIdentifier) == "" {
		return apperror.InvalidArgument("productIdentifier", "cannot be empty")
	}
	if count <= 0 {
		return apperror.InvalidArgument("count", "must be greater than zero")
	}

	if err := i.lock.Acquire(ctx); err != nil {
		return err
	}
	defer i.lock.Release()

	line, ok := i.lines[productIdentifier]
	if !ok {
		return apperror.ErrNotFound("product " + productIdentifier)
	}
	if line.Stock()-count < 0 {
		return apperror.ErrInsufficientStock(productIdentifier, count)
	}

	if err := line.Adjust(-count); err != nil {
		return err
	}
	i.currentStockLevel -= count

	i.log.Info().
		Str("product_id", productIdentifier).
		Int("units", count).
		Int("stock_level", i.currentStockLevel).
		Msg("inventory removed")

	return nil
}

// GetProductStockLevel returns the current count for the identified product.
func (i *Inventory) GetProductStockLevel(ctx context.Context, productIdentifier string) (int, error) {
	if strings.TrimSpace(productIdentifier) == "" {
		return 0, apperror.InvalidArgument("productIdentifier", "cannot be empty")
	}

	if err := i.lock.Acquire(ctx); err != nil {
		return 0, err
	}
	defer i.lock.Release()

	line, ok := i.lines[productIdentifier]
	if !ok {
		return 0, apperror.ErrNotFound("product " + productIdentifier)
	}

	return line.Stock(), nil
}

// CurrentStockLines returns a point-in-time copy of all stock lines in
// insertion order.
func (i *Inventory) CurrentStockLines(ctx context.Context) ([]StockLineSnapshot, error) {
	if err := i.lock.Acquire(ctx); err != nil {
		return nil, err
	}
	defer i.lock.Release()

	snapshot := make([]StockLineSnapshot, 0, len(i.order))
	for _, productID := range i.order {
		line := i.lines[productID]
		snapshot = append(snapshot, StockLineSnapshot{
			Product: line.Product(),
			Stock:   line.Stock(),
		})
	}

	return snapshot, nil
}
