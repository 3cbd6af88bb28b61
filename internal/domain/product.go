package domain

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// Ids travel as a single URL path segment, so they are restricted to
// unreserved characters and may not be a dot segment.
var productIDPattern = regexp.MustCompile(`^[A-Za-z0-9_~-][A-Za-z0-9._~-]*$`)

// Product is a sellable item. It is never mutated after construction and
// is shared by reference between the catalog and cart lines.
type Product struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// NewProduct creates a new product with validation
func NewProduct(id, name string, price decimal.Decimal) (*Product, error) {
	product := &Product{
		ID:    id,
		Name:  name,
		Price: price,
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	return product, nil
}

// Validate performs business validation on the product
func (p *Product) Validate() error {
	if !productIDPattern.MatchString(p.ID) {
		return ErrInvalidProductID
	}
	if p.Name == "" {
		return ErrInvalidProductName
	}
	if p.Price.IsNegative() {
		return ErrInvalidProductPrice
	}
	return nil
}
