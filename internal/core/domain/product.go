package domain

import (
	"strings"

	"github.com/shopspring/decimal"

	"vending-machine/pkg/apperror"
)

// Product identifies one vendable item: identifier, display name, and unit
// price. Immutable once attached to a stock line.
type Product struct {
	identifier string
	name       string
	price      decimal.Decimal
}

// NewProduct creates a Product. The identifier and name must be non-empty and
// the price non-negative.
func NewProduct(identifier string, name string, price decimal.Decimal) (*Product, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, apperror.InvalidArgument("productIdentifier", "cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperror.InvalidArgument("productName", "cannot be empty")
	}
	if price.IsNegative() {
		return nil, apperror.InvalidArgument("price", "cannot be less than zero")
	}

	return &Product{
		identifier: identifier,
		name:       name,
		price:      price,
	}, nil
}

// Identifier returns the product identifier.
func (p *Product) Identifier() string {
	return p.identifier
}

// Name returns the display name.
func (p *Product) Name() string {
	return p.name
}

// Price returns the unit price.
func (p *Product) Price() decimal.Decimal {
	return p.price
}
