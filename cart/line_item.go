package cart

import "github.com/shopspring/decimal"

// Modifier is a snapshot of a selected add-on taken when the item was added.
type Modifier struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// LineItemInput is a candidate line built from a menu selection.
type LineItemInput struct {
	MenuItemID   string          `json:"menu_item_id"`
	MenuItemName string          `json:"menu_item_name"`
	VariantID    string          `json:"variant_id,omitempty"`
	VariantName  string          `json:"variant_name,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Modifiers    []Modifier      `json:"modifiers"`
	Notes        string          `json:"notes,omitempty"`
}

// LineItem is one row of the cart. TotalPrice is derived and only ever set by
// the engine.
type LineItem struct {
	ID           string          `json:"id"`
	MenuItemID   string          `json:"menu_item_id"`
	MenuItemName string          `json:"menu_item_name"`
	VariantID    string          `json:"variant_id,omitempty"`
	VariantName  string          `json:"variant_name,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Modifiers    []Modifier      `json:"modifiers"`
	Notes        string          `json:"notes,omitempty"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// ModifierIDs returns the modifier ids in selection order.
func (li LineItem) ModifierIDs() []string {
	ids := make([]string, len(li.Modifiers))
	for i, m := range li.Modifiers {
		ids[i] = m.ID
	}
	return ids
}

// ItemTotal computes (unitPrice + sum(modifier.price)) * quantity.
func ItemTotal(unitPrice decimal.Decimal, modifiers []Modifier, quantity int) decimal.Decimal {
	each := unitPrice
	for _, m := range modifiers {
		each = each.Add(m.Price)
	}
	return each.Mul(decimal.NewFromInt(int64(quantity)))
}

func (li LineItem) withQuantity(quantity int) LineItem {
	li.Quantity = quantity
	li.TotalPrice = ItemTotal(li.UnitPrice, li.Modifiers, quantity)
	return li
}

func newLineItem(id string, in LineItemInput) LineItem {
	mods := make([]Modifier, len(in.Modifiers))
	copy(mods, in.Modifiers)

	return LineItem{
		ID:           id,
		MenuItemID:   in.MenuItemID,
		MenuItemName: in.MenuItemName,
		VariantID:    in.VariantID,
		VariantName:  in.VariantName,
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
		Modifiers:    mods,
		Notes:        in.Notes,
		TotalPrice:   ItemTotal(in.UnitPrice, mods, in.Quantity),
	}
}
