package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Store struct {
	ID        string              `json:"id"`
	TenantID  string              `json:"tenant_id"`
	Name      string              `json:"name"`
	Code      string              `json:"code"`
	Address   *string             `json:"address,omitempty"`
	Phone     *string             `json:"phone,omitempty"`
	IsActive  bool                `json:"is_active"`
	TaxRate   decimal.NullDecimal `json:"tax_rate"`
	CreatedAt time.Time           `json:"created_at"`
}

type Category struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	ImageURL     *string         `json:"image_url,omitempty"`
	DisplayOrder int             `json:"display_order"`
	Items        []MenuItemBrief `json:"items"`
}

type MenuItemBrief struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Description        *string         `json:"description,omitempty"`
	BasePrice          decimal.Decimal `json:"base_price"`
	ImageURL           *string         `json:"image_url,omitempty"`
	IsAvailable        bool            `json:"is_available"`
	DisplayOrder       int             `json:"display_order"`
	VariantCount       int             `json:"variant_count"`
	ModifierGroupCount int             `json:"modifier_group_count"`
}

type MenuItem struct {
	ID             string          `json:"id"`
	StoreID        string          `json:"store_id"`
	Name           string          `json:"name"`
	Description    *string         `json:"description,omitempty"`
	BasePrice      decimal.Decimal `json:"base_price"`
	IsAvailable    bool            `json:"is_available"`
	DisplayOrder   int             `json:"display_order"`
	Variants       []ItemVariant   `json:"variants"`
	ModifierGroups []ModifierGroup `json:"modifier_groups"`
}

type ItemVariant struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
	IsAvailable     bool            `json:"is_available"`
}

type ModifierGroup struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	MinSelections int              `json:"min_selections"`
	MaxSelections int              `json:"max_selections"`
	Modifiers     []ModifierOption `json:"modifiers"`
}

type ModifierOption struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"is_available"`
}
