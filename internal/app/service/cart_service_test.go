package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/mrops-br/shopping-cart/internal/app/dto"
	"github.com/mrops-br/shopping-cart/internal/domain"
	"github.com/mrops-br/shopping-cart/internal/infrastructure/repository/memory"
)

func newTestServices(t *testing.T, seed bool) (*CatalogService, *CartService) {
	t.Helper()
	tracer := tracenoop.NewTracerProvider().Tracer("test")
	meter := metricnoop.NewMeterProvider().Meter("test")
	logger := slog.New(slog.DiscardHandler)

	repo := memory.NewProductRepository(tracer, logger)
	catalog := NewCatalogService(repo, tracer, meter, logger)
	cart := NewCartService(catalog, tracer, meter, logger)

	if seed {
		if err := SeedDemo(context.Background(), catalog, cart); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	return catalog, cart
}

func intPtr(v int) *int { return &v }

func TestSeedDemo(t *testing.T) {
	_, cart := newTestServices(t, true)

	resp := cart.GetCart(context.Background())
	if resp.Total != "190.00" {
		t.Fatalf("expected total 190.00, got %s", resp.Total)
	}
	if len(resp.Lines) != 3 || resp.ItemCount != 4 {
		t.Fatalf("expected 3 lines / 4 items, got %d / %d", len(resp.Lines), resp.ItemCount)
	}
	if resp.Lines[1].ProductName != "Socks" || resp.Lines[1].LineTotal != "40.00" {
		t.Errorf("unexpected socks line: %+v", resp.Lines[1])
	}
}

func TestCartService_AddItem(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.AddItemRequest
		wantErr   error
		wantTotal string
	}{
		{"default quantity", dto.AddItemRequest{ProductID: "2"}, nil, "210.00"},
		{"explicit quantity", dto.AddItemRequest{ProductID: "3", Quantity: intPtr(2)}, nil, "290.00"},
		{"zero quantity", dto.AddItemRequest{ProductID: "2", Quantity: intPtr(0)}, domain.ErrInvalidArgument, "190.00"},
		{"missing product id", dto.AddItemRequest{}, domain.ErrInvalidArgument, "190.00"},
		{"unknown product", dto.AddItemRequest{ProductID: "99"}, domain.ErrNotFound, "190.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cart := newTestServices(t, true)
			ctx := context.Background()

			resp, err := cart.AddItem(ctx, &tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if err == nil && resp.Total != tt.wantTotal {
				t.Errorf("expected response total %s, got %s", tt.wantTotal, resp.Total)
			}
			if got := cart.GetCart(ctx).Total; got != tt.wantTotal {
				t.Errorf("expected cart total %s, got %s", tt.wantTotal, got)
			}
		})
	}
}

func TestCartService_UpdateRemoveDispatch(t *testing.T) {
	_, cart := newTestServices(t, true)
	ctx := context.Background()

	if resp := cart.Dispatch(ctx, "2", domain.ActionDecrement); resp.Total != "170.00" {
		t.Fatalf("expected 170.00 after decrement, got %s", resp.Total)
	}
	if resp := cart.RemoveItem(ctx, "1"); resp.Total != "70.00" || len(resp.Lines) != 2 {
		t.Fatalf("expected 70.00 with 2 lines, got %s with %d", resp.Total, len(resp.Lines))
	}
	if resp := cart.RemoveItem(ctx, "1"); resp.Total != "70.00" {
		t.Fatalf("expected second remove to be a no-op, got %s", resp.Total)
	}
	if resp := cart.UpdateItemQuantity(ctx, "3", 4); resp.Total != "220.00" {
		t.Fatalf("expected 220.00 after update, got %s", resp.Total)
	}
	if resp := cart.UpdateItemQuantity(ctx, "3", 0); len(resp.Lines) != 1 {
		t.Fatalf("expected update to zero to remove the line, got %d lines", len(resp.Lines))
	}
	if resp := cart.Dispatch(ctx, "2", domain.ActionToggleFavorite); resp.Total != "20.00" {
		t.Fatalf("expected favorite toggle to leave cart alone, got %s", resp.Total)
	}
}

func TestCartService_SubscribeReceivesChanges(t *testing.T) {
	_, cart := newTestServices(t, true)
	ctx := context.Background()

	var (
		snapshot domain.Snapshot
		changes  []domain.Change
	)
	unsubscribe := cart.Subscribe(
		func(s domain.Snapshot) { snapshot = s },
		func(c domain.Change) { changes = append(changes, c) },
	)
	if !snapshot.Total.Equal(decimal.NewFromInt(190)) {
		t.Fatalf("expected initial snapshot total 190, got %s", snapshot.Total)
	}

	cart.Dispatch(ctx, "3", domain.ActionIncrement)
	cart.RemoveItem(ctx, "missing")
	if _, err := cart.AddItem(ctx, &dto.AddItemRequest{ProductID: "1", Quantity: intPtr(-1)}); err == nil {
		t.Fatal("expected invalid quantity to fail")
	}

	if len(changes) != 1 || changes[0].ProductID != "3" || changes[0].Line.Quantity != 2 {
		t.Fatalf("expected one change for product 3, got %+v", changes)
	}

	unsubscribe()
	cart.Dispatch(ctx, "3", domain.ActionIncrement)
	if len(changes) != 1 {
		t.Fatalf("expected no change after unsubscribe, got %d", len(changes))
	}
}

func TestCatalogService(t *testing.T) {
	catalog, _ := newTestServices(t, false)
	ctx := context.Background()

	created, err := catalog.CreateProduct(ctx, &dto.CreateProductRequest{Name: "Hat", Price: decimal.RequireFromString("12.5")})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.Price != "12.50" {
		t.Errorf("expected price 12.50, got %s", created.Price)
	}

	got, err := catalog.GetProductByID(ctx, created.ID)
	if err != nil || got.Name != "Hat" {
		t.Fatalf("expected Hat, got %+v (%v)", got, err)
	}

	_, err = catalog.CreateProduct(ctx, &dto.CreateProductRequest{ID: created.ID, Name: "Hat", Price: decimal.NewFromInt(1)})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	_, err = catalog.CreateProduct(ctx, &dto.CreateProductRequest{Name: "", Price: decimal.NewFromInt(1)})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}

	list, err := catalog.ListProducts(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected 1 product, got %d (%v)", len(list), err)
	}
}
