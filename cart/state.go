// Package cart is the pricing and merge engine behind the self-service cart.
//
// A State is a plain value. Every operation is a pure transition that
// returns a new State with its aggregates recomputed from the items, so
// Subtotal, TaxAmount and Total can never drift from the line items.
package cart

import "github.com/shopspring/decimal"

// DefaultTaxRate is applied to a cart that has never had a rate set.
var DefaultTaxRate = decimal.RequireFromString("0.17")

// State is the cart of a single session.
type State struct {
	// BoundStoreID is empty while the cart is unbound.
	BoundStoreID string          `json:"bound_store_id"`
	Items        []LineItem      `json:"items"`
	TaxRate      decimal.Decimal `json:"tax_rate"`

	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

// New returns an empty, unbound cart.
func New(taxRate decimal.Decimal) State {
	return State{
		Items:   []LineItem{},
		TaxRate: taxRate,
	}
}

// IsBound reports whether the cart belongs to a store.
func (s State) IsBound() bool {
	return s.BoundStoreID != ""
}

// IsEmpty reports whether the cart has no lines.
func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

// ItemCount is the number of units across all lines.
func (s State) ItemCount() int {
	n := 0
	for _, item := range s.Items {
		n += item.Quantity
	}
	return n
}

// Find returns the line with the given id.
func (s State) Find(lineItemID string) (LineItem, bool) {
	if i := s.indexOf(lineItemID); i >= 0 {
		return s.Items[i], true
	}
	return LineItem{}, false
}

func (s State) indexOf(lineItemID string) int {
	for i, item := range s.Items {
		if item.ID == lineItemID {
			return i
		}
	}
	return -1
}

// recalculate rebuilds the aggregates from scratch over all items.
func (s State) recalculate() State {
	subtotal := decimal.Zero
	for _, item := range s.Items {
		subtotal = subtotal.Add(item.TotalPrice)
	}
	s.Subtotal = subtotal
	s.TaxAmount = subtotal.Mul(s.TaxRate)
	s.Total = subtotal.Add(s.TaxAmount)
	return s
}

// Round2 rounds a monetary value to cents for display and order records.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
