package domain

import (
	"context"
)

// ProductRepository defines the contract for catalog storage
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindAll(ctx context.Context) ([]*Product, error)
}
