package dto

import (
	"github.com/mrops-br/shopping-cart/internal/domain"
)

// AddItemRequest adds a catalog product to the cart. Quantity defaults
// to one when omitted.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  *int   `json:"quantity,omitempty"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartLineResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	LineTotal   string `json:"line_total"`
}

type CartResponse struct {
	ID        string              `json:"id"`
	Lines     []*CartLineResponse `json:"lines"`
	ItemCount int                 `json:"item_count"`
	Total     string              `json:"total"`
}

// ToCartLineResponse converts a line view to a response DTO
func ToCartLineResponse(l domain.LineView) *CartLineResponse {
	return &CartLineResponse{
		ProductID:   l.ProductID,
		ProductName: l.ProductName,
		UnitPrice:   FormatMoney(l.UnitPrice),
		Quantity:    l.Quantity,
		LineTotal:   FormatMoney(l.LineTotal),
	}
}

// ToCartResponse converts a cart snapshot to a response DTO
func ToCartResponse(s domain.Snapshot) *CartResponse {
	lines := make([]*CartLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = ToCartLineResponse(l)
	}
	return &CartResponse{
		ID:        s.CartID,
		Lines:     lines,
		ItemCount: s.ItemCount,
		Total:     FormatMoney(s.Total),
	}
}
