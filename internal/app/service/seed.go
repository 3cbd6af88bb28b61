package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mrops-br/shopping-cart/internal/app/dto"
)

// DemoProducts is the catalog the widget starts with, along with the
// quantity of each placed in the cart.
var DemoProducts = []struct {
	Request  dto.CreateProductRequest
	Quantity int
}{
	{dto.CreateProductRequest{ID: "1", Name: "Baskets", Price: decimal.NewFromInt(100)}, 1},
	{dto.CreateProductRequest{ID: "2", Name: "Socks", Price: decimal.NewFromInt(20)}, 2},
	{dto.CreateProductRequest{ID: "3", Name: "Bag", Price: decimal.NewFromInt(50)}, 1},
}

// SeedDemo loads DemoProducts into the catalog and the cart.
func SeedDemo(ctx context.Context, catalog *CatalogService, cart *CartService) error {
	for _, item := range DemoProducts {
		req := item.Request
		if _, err := catalog.CreateProduct(ctx, &req); err != nil {
			return fmt.Errorf("seed product %s: %w", req.ID, err)
		}

		quantity := item.Quantity
		if _, err := cart.AddItem(ctx, &dto.AddItemRequest{ProductID: req.ID, Quantity: &quantity}); err != nil {
			return fmt.Errorf("seed cart line %s: %w", req.ID, err)
		}
	}
	return nil
}
