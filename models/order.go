package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderPreparing OrderStatus = "PREPARING"
	OrderReady     OrderStatus = "READY"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
)

type OrderSource string

const (
	SourceKiosk   OrderSource = "KIOSK"
	SourceQRTable OrderSource = "QR_TABLE"
)

type Order struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"order_number"`
	StoreID     string          `json:"store_id"`
	SessionID   string          `json:"-"`
	Source      OrderSource     `json:"source"`
	Status      OrderStatus     `json:"status"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	Total       decimal.Decimal `json:"total"`
	Notes       *string         `json:"notes,omitempty"`
	IsPaid      bool            `json:"is_paid"`
	Items       []OrderItem     `json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID          string              `json:"id"`
	ItemID      string              `json:"item_id"`
	ItemName    string              `json:"item_name"`
	VariantID   *string             `json:"variant_id,omitempty"`
	VariantName *string             `json:"variant_name,omitempty"`
	Quantity    int                 `json:"quantity"`
	UnitPrice   decimal.Decimal     `json:"unit_price"`
	TotalPrice  decimal.Decimal     `json:"total_price"`
	Notes       *string             `json:"notes,omitempty"`
	Modifiers   []OrderItemModifier `json:"modifiers"`
}

type OrderItemModifier struct {
	ID           string          `json:"id"`
	ModifierID   string          `json:"modifier_id"`
	ModifierName string          `json:"modifier_name"`
	Price        decimal.Decimal `json:"price"`
}

// CreateOrderRequest is what the client submits to the order API.
type CreateOrderRequest struct {
	StoreID string             `json:"store_id"`
	Source  OrderSource        `json:"source"`
	Items   []OrderItemRequest `json:"items"`
	Notes   *string            `json:"notes,omitempty"`
}

type OrderItemRequest struct {
	ItemID      string   `json:"item_id"`
	VariantID   *string  `json:"variant_id,omitempty"`
	Quantity    int      `json:"quantity"`
	Notes       *string  `json:"notes,omitempty"`
	ModifierIDs []string `json:"modifier_ids"`
}
