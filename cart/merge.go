package cart

import (
	"sort"
	"strings"
)

// MergeKey identifies a line item configuration. Two selections with equal
// keys collapse into one line. Notes are not part of the key.
type MergeKey struct {
	MenuItemID string
	VariantID  string
	Modifiers  string
}

// KeyOf builds the merge key for an item/variant/modifier-id combination.
// Modifier order does not matter; duplicates are kept so that a doubled
// add-on never merges into a single one.
func KeyOf(menuItemID, variantID string, modifierIDs []string) MergeKey {
	ids := make([]string, len(modifierIDs))
	copy(ids, modifierIDs)
	sort.Strings(ids)

	return MergeKey{
		MenuItemID: menuItemID,
		VariantID:  variantID,
		Modifiers:  strings.Join(ids, "\x00"),
	}
}

// Key returns the merge key of an existing line.
func (li LineItem) Key() MergeKey {
	return KeyOf(li.MenuItemID, li.VariantID, li.ModifierIDs())
}

// Key returns the merge key of a candidate.
func (in LineItemInput) Key() MergeKey {
	ids := make([]string, len(in.Modifiers))
	for i, m := range in.Modifiers {
		ids[i] = m.ID
	}
	return KeyOf(in.MenuItemID, in.VariantID, ids)
}

func (s State) indexOfKey(key MergeKey) int {
	for i, item := range s.Items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}
