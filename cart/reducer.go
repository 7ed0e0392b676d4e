package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewLineItemID generates ids for appended lines.
var NewLineItemID = uuid.NewString

// Action is a cart transition.
type Action interface {
	apply(State) State
}

// AddItem merges the candidate into a matching line or appends it. A store
// other than the bound one empties the cart first.
type AddItem struct {
	Input   LineItemInput
	StoreID string
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
type UpdateQuantity struct {
	LineItemID string
	Quantity   int
}

// RemoveItem deletes a line.
type RemoveItem struct {
	LineItemID string
}

// UpdateNotes replaces a line's notes without touching its merge key.
type UpdateNotes struct {
	LineItemID string
	Notes      string
}

// ClearCart empties the items. The store binding is kept.
type ClearCart struct{}

// SetTaxRate changes the rate and recomputes the totals.
type SetTaxRate struct {
	Rate decimal.Decimal
}

// Reset drops items and the store binding, keeping the tax rate.
type Reset struct{}

// Reduce applies the action to s and returns the resulting state. s is not
// modified.
func Reduce(s State, a Action) State {
	return a.apply(s)
}

func (a AddItem) apply(s State) State {
	if a.Input.Quantity <= 0 {
		return s
	}

	items := s.Items
	if a.StoreID != s.BoundStoreID && len(items) > 0 {
		items = nil
	}

	next := make([]LineItem, len(items), len(items)+1)
	copy(next, items)
	s.Items = next
	s.BoundStoreID = a.StoreID

	if i := s.indexOfKey(a.Input.Key()); i >= 0 {
		existing := s.Items[i]
		s.Items[i] = existing.withQuantity(existing.Quantity + a.Input.Quantity)
	} else {
		s.Items = append(s.Items, newLineItem(NewLineItemID(), a.Input))
	}

	return s.recalculate()
}

func (a UpdateQuantity) apply(s State) State {
	if a.Quantity <= 0 {
		return RemoveItem{LineItemID: a.LineItemID}.apply(s)
	}

	i := s.indexOf(a.LineItemID)
	if i < 0 {
		return s
	}

	next := make([]LineItem, len(s.Items))
	copy(next, s.Items)
	next[i] = next[i].withQuantity(a.Quantity)
	s.Items = next

	return s.recalculate()
}

func (a RemoveItem) apply(s State) State {
	if s.indexOf(a.LineItemID) < 0 {
		return s
	}

	next := make([]LineItem, 0, len(s.Items)-1)
	for _, item := range s.Items {
		if item.ID != a.LineItemID {
			next = append(next, item)
		}
	}
	s.Items = next

	return s.recalculate()
}

func (a UpdateNotes) apply(s State) State {
	i := s.indexOf(a.LineItemID)
	if i < 0 {
		return s
	}

	next := make([]LineItem, len(s.Items))
	copy(next, s.Items)
	next[i].Notes = a.Notes
	s.Items = next

	return s
}

func (ClearCart) apply(s State) State {
	s.Items = []LineItem{}
	s.Subtotal = decimal.Zero
	s.TaxAmount = decimal.Zero
	s.Total = decimal.Zero
	return s
}

func (a SetTaxRate) apply(s State) State {
	s.TaxRate = a.Rate
	return s.recalculate()
}

func (Reset) apply(s State) State {
	s = ClearCart{}.apply(s)
	s.BoundStoreID = ""
	return s
}

// AddItemTo applies AddItem.
func AddItemTo(s State, input LineItemInput, storeID string) State {
	return Reduce(s, AddItem{Input: input, StoreID: storeID})
}

// UpdateItemQuantity applies UpdateQuantity.
func UpdateItemQuantity(s State, lineItemID string, quantity int) State {
	return Reduce(s, UpdateQuantity{LineItemID: lineItemID, Quantity: quantity})
}

// RemoveItemFrom applies RemoveItem.
func RemoveItemFrom(s State, lineItemID string) State {
	return Reduce(s, RemoveItem{LineItemID: lineItemID})
}

// UpdateItemNotes applies UpdateNotes.
func UpdateItemNotes(s State, lineItemID, notes string) State {
	return Reduce(s, UpdateNotes{LineItemID: lineItemID, Notes: notes})
}

// Clear applies ClearCart.
func Clear(s State) State {
	return Reduce(s, ClearCart{})
}

// WithTaxRate applies SetTaxRate.
func WithTaxRate(s State, rate decimal.Decimal) State {
	return Reduce(s, SetTaxRate{Rate: rate})
}
