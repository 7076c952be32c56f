package domain

import (
	"vending-machine/pkg/apperror"
)

// StockLine is the count record for one product. The count never goes
// negative. Stock lines carry no lock of their own: they are always guarded
// by the owning inventory's directory-wide lock.
type StockLine struct {
	product *Product
	stock   int
}

// NewStockLine creates a StockLine for the given product with the given
// initial count.
func NewStockLine(product *Product, stock int) (*StockLine, error) {
	if product == nil {
		return nil, apperror.InvalidArgument("product", "cannot be nil")
	}
	if stock < 0 {
		return nil, apperror.InvalidArgument("stock", "cannot be less than zero")
	}

	return &StockLine{
		product: product,
		stock:   stock,
	}, nil
}

// Product returns the line's product.
func (s *StockLine) Product() *Product {
	return s.product
}

// Stock returns the current unit count.
func (s *StockLine) Stock() int {
	return s.stock
}

// Adjust changes the unit count by delta, enforcing the non-negative
// invariant. The count is unchanged on failure.
func (s *StockLine) Adjust(delta int) error {
	next := s.stock + delta
	if next < 0 {
		return apperror.InvalidArgument("value", "cannot be less than zero")
	}

	s.stock = next

	return nil
}
