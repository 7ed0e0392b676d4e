package cart

import (
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// BlobName is the name the persisted cart is stored under.
const BlobName = "kiosk-cart"

const snapshotVersion = 1

// Snapshot is the persisted form of a State. It carries no derived values;
// Restore recomputes them.
//
// Revision counts the writes of a session's blob and is owned by the store.
// A Discarded snapshot marks a cart that was thrown away at logout.
type Snapshot struct {
	Version      int                 `json:"version"`
	Revision     int64               `json:"revision"`
	Discarded    bool                `json:"discarded,omitempty"`
	BoundStoreID *string             `json:"bound_store_id"`
	Items        []SnapshotItem      `json:"items"`
	TaxRate      decimal.NullDecimal `json:"tax_rate"`
}

type SnapshotItem struct {
	ID           string          `json:"id"`
	MenuItemID   string          `json:"menu_item_id"`
	MenuItemName string          `json:"menu_item_name"`
	VariantID    string          `json:"variant_id,omitempty"`
	VariantName  string          `json:"variant_name,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Modifiers    []Modifier      `json:"modifiers"`
	Notes        string          `json:"notes,omitempty"`
}

// Snapshot strips the derived fields from s.
func (s State) Snapshot() Snapshot {
	snap := Snapshot{
		Version: snapshotVersion,
		Items:   make([]SnapshotItem, len(s.Items)),
		TaxRate: decimal.NewNullDecimal(s.TaxRate),
	}
	if s.IsBound() {
		storeID := s.BoundStoreID
		snap.BoundStoreID = &storeID
	}

	for i, item := range s.Items {
		snap.Items[i] = SnapshotItem{
			ID:           item.ID,
			MenuItemID:   item.MenuItemID,
			MenuItemName: item.MenuItemName,
			VariantID:    item.VariantID,
			VariantName:  item.VariantName,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			Modifiers:    item.Modifiers,
			Notes:        item.Notes,
		}
	}
	return snap
}

// Restore rebuilds a State from a snapshot. Lines with a quantity below one
// are dropped and every total is recomputed.
func Restore(snap Snapshot, defaultTaxRate decimal.Decimal) State {
	s := New(defaultTaxRate)
	if snap.TaxRate.Valid {
		s.TaxRate = snap.TaxRate.Decimal
	}
	if snap.BoundStoreID != nil {
		s.BoundStoreID = *snap.BoundStoreID
	}

	seen := make(map[string]bool, len(snap.Items))
	for _, it := range snap.Items {
		if it.Quantity < 1 {
			continue
		}
		id := it.ID
		if id == "" || seen[id] {
			id = NewLineItemID()
		}
		seen[id] = true

		mods := it.Modifiers
		if mods == nil {
			mods = []Modifier{}
		}

		s.Items = append(s.Items, newLineItem(id, LineItemInput{
			MenuItemID:   it.MenuItemID,
			MenuItemName: it.MenuItemName,
			VariantID:    it.VariantID,
			VariantName:  it.VariantName,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			Modifiers:    mods,
			Notes:        it.Notes,
		}))
	}

	return s.recalculate()
}

// Encode serializes a snapshot into the persisted blob.
func Encode(snap Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, errors.Wrap(err, "encode cart snapshot")
	}
	return data, nil
}

// Decode parses a persisted blob.
func Decode(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, errors.Wrap(err, "decode cart snapshot")
	}
	return snap, nil
}
