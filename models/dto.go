package models

import "github.com/shopspring/decimal"

type DeviceLoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	DeviceName string `json:"device_name" binding:"required,min=2"`
	StoreID    string `json:"store_id" binding:"omitempty,uuid"`
}

type AddToCartRequest struct {
	StoreID     string   `json:"store_id"`
	ItemID      string   `json:"item_id" binding:"required"`
	VariantID   string   `json:"variant_id"`
	ModifierIDs []string `json:"modifier_ids"`
	Quantity    int      `json:"quantity" binding:"required,min=1"`
	Notes       string   `json:"notes" binding:"max=500"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type UpdateNotesRequest struct {
	Notes string `json:"notes" binding:"max=500"`
}

type SetTaxRateRequest struct {
	TaxRate *decimal.Decimal `json:"tax_rate" binding:"required"`
}

type CheckoutRequest struct {
	Notes string `json:"notes" binding:"max=500"`
	Mode  string `json:"mode" binding:"omitempty,oneof=kiosk qr"`
}
