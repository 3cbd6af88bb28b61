package dto

import (
	"github.com/shopspring/decimal"

	"github.com/mrops-br/shopping-cart/internal/domain"
)

// CreateProductRequest adds a product to the catalog. ID may be left
// empty to have one generated.
type CreateProductRequest struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type ProductResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// ToProductResponse converts a domain product to a response DTO
func ToProductResponse(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:    p.ID,
		Name:  p.Name,
		Price: FormatMoney(p.Price),
	}
}

// ToProductResponseList converts a list of products to response DTOs
func ToProductResponseList(products []*domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}

// FormatMoney renders an amount with two decimals.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
