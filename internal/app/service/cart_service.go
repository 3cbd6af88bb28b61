package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/shopping-cart/internal/app/dto"
	"github.com/mrops-br/shopping-cart/internal/domain"
)

// CartService owns the session cart. Calls are applied one at a time;
// cart listeners run while the lock is held and must not call back into
// the service.
type CartService struct {
	mu      sync.Mutex
	cart    *domain.Cart
	catalog *CatalogService

	tracer     trace.Tracer
	logger     *slog.Logger
	operations metric.Int64Counter
	lineGauge  metric.Int64Gauge
	totalGauge metric.Float64Gauge
}

// NewCartService creates a service owning one empty session cart
func NewCartService(
	catalog *CatalogService,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CartService {
	operations, _ := meter.Int64Counter(
		"cart.operations",
		metric.WithDescription("Total number of cart operations"),
	)
	lineGauge, _ := meter.Int64Gauge(
		"cart.lines",
		metric.WithDescription("Number of lines in the cart"),
	)
	totalGauge, _ := meter.Float64Gauge(
		"cart.total",
		metric.WithDescription("Cart total price"),
	)

	cart := domain.NewCart()
	logger.Info("Cart created", slog.String("cart_id", cart.ID))

	return &CartService{
		cart:       cart,
		catalog:    catalog,
		tracer:     tracer,
		logger:     logger,
		operations: operations,
		lineGauge:  lineGauge,
		totalGauge: totalGauge,
	}
}

// Subscribe hands the current state to initial and then registers l, both
// under the service lock so no change falls between them.
func (s *CartService) Subscribe(initial func(domain.Snapshot), l domain.Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	initial(s.cart.Snapshot())
	unsubscribe := s.cart.Subscribe(l)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		unsubscribe()
	}
}

// GetCart returns the current cart
func (s *CartService) GetCart(ctx context.Context) *dto.CartResponse {
	_, span := s.tracer.Start(ctx, "CartService.GetCart")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	span.SetAttributes(
		attribute.String("cart.id", s.cart.ID),
		attribute.Int("cart.lines", s.cart.Len()),
	)
	return dto.ToCartResponse(s.cart.Snapshot())
}

// AddItem puts a catalog product in the cart.
func (s *CartService) AddItem(ctx context.Context, req *dto.AddItemRequest) (*dto.CartResponse, error) {
	if req.ProductID == "" {
		recordOperation(ctx, s.operations, "add", resultFailure)
		return nil, domain.ErrInvalidProductID
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity <= 0 {
		recordOperation(ctx, s.operations, "add", resultFailure)
		return nil, domain.ErrInvalidQuantity
	}

	product, err := s.catalog.findProduct(ctx, req.ProductID)
	if err != nil {
		result := resultFailure
		if errors.Is(err, domain.ErrNotFound) {
			result = resultNotFound
		}
		recordOperation(ctx, s.operations, "add", result)
		return nil, err
	}

	return s.mutate(ctx, "AddItem", "add", req.ProductID, func(c *domain.Cart) (bool, error) {
		if err := c.AddItem(product, quantity); err != nil {
			return false, err
		}
		return true, nil
	})
}

// RemoveItem drops a line. Removing an absent line changes nothing.
func (s *CartService) RemoveItem(ctx context.Context, productID string) *dto.CartResponse {
	resp, _ := s.mutate(ctx, "RemoveItem", "remove", productID, func(c *domain.Cart) (bool, error) {
		return c.RemoveItem(productID), nil
	})
	return resp
}

// UpdateItemQuantity sets a line's quantity; zero or less removes it.
func (s *CartService) UpdateItemQuantity(ctx context.Context, productID string, quantity int) *dto.CartResponse {
	resp, _ := s.mutate(ctx, "UpdateItemQuantity", "update", productID, func(c *domain.Cart) (bool, error) {
		return c.UpdateItemQuantity(productID, quantity), nil
	})
	return resp
}

// Dispatch applies a user action to a line.
func (s *CartService) Dispatch(ctx context.Context, productID string, action domain.Action) *dto.CartResponse {
	resp, _ := s.mutate(ctx, "Dispatch", string(action), productID, func(c *domain.Cart) (bool, error) {
		return action.Apply(c, productID), nil
	})
	return resp
}

func (s *CartService) mutate(
	ctx context.Context,
	spanName, operation, productID string,
	fn func(c *domain.Cart) (bool, error),
) (*dto.CartResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CartService."+spanName)
	defer span.End()

	span.SetAttributes(
		attribute.String("cart.operation", operation),
		attribute.String("product.id", productID),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	changed, err := fn(s.cart)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Cart operation rejected")
		s.logger.WarnContext(ctx, "Cart operation rejected",
			slog.String("operation", operation),
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
		recordOperation(ctx, s.operations, operation, resultFailure)
		return nil, err
	}

	snapshot := s.cart.Snapshot()
	if !changed {
		s.logger.DebugContext(ctx, "Cart unchanged",
			slog.String("operation", operation),
			slog.String("product_id", productID),
		)
		recordOperation(ctx, s.operations, operation, resultNoop)
		span.SetStatus(codes.Ok, "")
		return dto.ToCartResponse(snapshot), nil
	}

	s.observe(ctx, snapshot)
	recordOperation(ctx, s.operations, operation, resultSuccess)
	s.logger.InfoContext(ctx, "Cart updated",
		slog.String("operation", operation),
		slog.String("product_id", productID),
		slog.Int("lines", len(snapshot.Lines)),
		slog.String("total", snapshot.Total.StringFixed(2)),
	)

	span.SetAttributes(attribute.Int("cart.lines", len(snapshot.Lines)))
	span.SetStatus(codes.Ok, "")
	return dto.ToCartResponse(snapshot), nil
}

func (s *CartService) observe(ctx context.Context, snapshot domain.Snapshot) {
	attrs := metric.WithAttributes(attribute.String("cart.id", snapshot.CartID))
	s.lineGauge.Record(ctx, int64(len(snapshot.Lines)), attrs)
	total, _ := snapshot.Total.Float64()
	s.totalGauge.Record(ctx, total, attrs)
}
