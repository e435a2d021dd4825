package domain

import (
	"errors"
	"time"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Product is a catalog record sold through the storefront. Prices are in the
// currency's smallest unit (JPY has none, so yen).
type Product struct {
	ID          string
	Name        string
	Description string
	Price       int64
	Image       string
	Currency    string
	Stock       int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct creates a product with business validation applied.
func NewProduct(id, name, description, image, currency string, price int64, stock int, now time.Time) (*Product, error) {
	p := &Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		Image:       image,
		Currency:    currency,
		Stock:       stock,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate applies business validation rules.
func (p *Product) Validate() error {
	if len(p.Name) < 1 || len(p.Name) > 200 {
		return errors.New("product name must be 1-200 characters")
	}
	if p.Price < 1 {
		return errors.New("product price must be positive")
	}
	if p.Stock < 0 {
		return errors.New("product stock must not be negative")
	}
	if p.Currency == "" {
		return errors.New("product currency is required")
	}
	return nil
}

// Sellable reports whether the product can appear on the storefront.
func (p *Product) Sellable() bool {
	return p.Active && p.Stock > 0
}
