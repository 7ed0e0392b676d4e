package models

import (
	"github.com/shopspring/decimal"

	"kiosk-order/cart"
)

// CartResponse is the client view of a session cart.
type CartResponse struct {
	BoundStoreID *string         `json:"bound_store_id"`
	Items        []cart.LineItem `json:"items"`
	ItemCount    int             `json:"item_count"`
	IsEmpty      bool            `json:"is_empty"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	Total        decimal.Decimal `json:"total"`
}

func NewCartResponse(s cart.State) CartResponse {
	resp := CartResponse{
		Items:     s.Items,
		ItemCount: s.ItemCount(),
		IsEmpty:   s.IsEmpty(),
		TaxRate:   s.TaxRate,
		Subtotal:  s.Subtotal,
		TaxAmount: s.TaxAmount,
		Total:     s.Total,
	}
	if resp.Items == nil {
		resp.Items = []cart.LineItem{}
	}
	if s.IsBound() {
		storeID := s.BoundStoreID
		resp.BoundStoreID = &storeID
	}
	return resp
}
