package memory

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/shopping-cart/internal/domain"
)

// ProductRepository is an in-memory catalog. FindAll returns products in
// the order they were created.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	order    []string
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewProductRepository creates an empty in-memory product repository
func NewProductRepository(tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		products: make(map[string]*domain.Product),
		tracer:   tracer,
		logger:   logger,
	}
}

// Create stores a new product. Ids are unique.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", product.ID),
		attribute.String("product.name", product.Name),
	)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID]; exists {
		span.RecordError(domain.ErrProductExists)
		span.SetStatus(codes.Error, "Product already exists")
		return domain.ErrProductExists
	}

	r.products[product.ID] = product
	r.order = append(r.order, product.ID)

	r.logger.DebugContext(ctx, "Product stored in catalog",
		slog.String("product_id", product.ID),
		slog.String("product_name", product.Name),
	)

	span.SetStatus(codes.Ok, "")
	return nil
}

// FindByID returns the product with id or domain.ErrProductNotFound
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		r.logger.WarnContext(ctx, "Product not in catalog",
			slog.String("product_id", id),
		)
		return nil, domain.ErrProductNotFound
	}

	span.SetStatus(codes.Ok, "")
	return product, nil
}

// FindAll returns every product in insertion order
func (r *ProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	_, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*domain.Product, 0, len(r.order))
	for _, id := range r.order {
		products = append(products, r.products[id])
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "")
	return products, nil
}
