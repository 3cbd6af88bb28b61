package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/shopping-cart/internal/app/dto"
	"github.com/mrops-br/shopping-cart/internal/domain"
)

// CatalogService handles the products that can be put in the cart
type CatalogService struct {
	repo       domain.ProductRepository
	tracer     trace.Tracer
	logger     *slog.Logger
	operations metric.Int64Counter
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	repo domain.ProductRepository,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CatalogService {
	operations, _ := meter.Int64Counter(
		"catalog.operations",
		metric.WithDescription("Total number of catalog operations"),
	)

	return &CatalogService{
		repo:       repo,
		tracer:     tracer,
		logger:     logger,
		operations: operations,
	}
}

// CreateProduct validates and stores a product, generating an id when the
// request has none.
func (s *CatalogService) CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct")
	defer span.End()

	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}

	span.SetAttributes(
		attribute.String("product.id", id),
		attribute.String("product.name", req.Name),
	)

	product, err := domain.NewProduct(id, req.Name, req.Price)
	if err == nil {
		err = s.repo.Create(ctx, product)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create product")
		s.logger.WarnContext(ctx, "Failed to create product",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
		recordOperation(ctx, s.operations, "create", resultFailure)
		return nil, err
	}

	recordOperation(ctx, s.operations, "create", resultSuccess)
	s.logger.InfoContext(ctx, "Product created",
		slog.String("product_id", product.ID),
		slog.String("price", product.Price.String()),
	)

	span.SetStatus(codes.Ok, "")
	return dto.ToProductResponse(product), nil
}

// GetProductByID retrieves a product by its id
func (s *CatalogService) GetProductByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// ListProducts retrieves all products in catalog order
func (s *CatalogService) ListProducts(ctx context.Context) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts")
	defer span.End()

	products, err := s.repo.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list products")
		s.logger.ErrorContext(ctx, "Failed to list products",
			slog.String("error", err.Error()),
		)
		recordOperation(ctx, s.operations, "list", resultFailure)
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	recordOperation(ctx, s.operations, "list", resultSuccess)

	span.SetStatus(codes.Ok, "")
	return dto.ToProductResponseList(products), nil
}

// findProduct resolves a catalog product for this service and for the cart.
func (s *CatalogService) findProduct(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.FindProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Product lookup failed")
		result := resultFailure
		if errors.Is(err, domain.ErrNotFound) {
			result = resultNotFound
		}
		recordOperation(ctx, s.operations, "read", result)
		return nil, err
	}

	recordOperation(ctx, s.operations, "read", resultSuccess)
	span.SetStatus(codes.Ok, "")
	return product, nil
}
