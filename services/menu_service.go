package services

import (
	"context"

	"github.com/pkg/errors"

	"kiosk-order/cart"
	"kiosk-order/models"
	"kiosk-order/repositories"
)

var (
	ErrStoreNotFound    = errors.New("store not found")
	ErrItemNotFound     = errors.New("menu item not found")
	ErrItemUnavailable  = errors.New("menu item is not available")
	ErrInvalidSelection = errors.New("invalid menu selection")
)

type MenuReader interface {
	ListStores(ctx context.Context, tenantID string) ([]models.Store, error)
	GetStore(ctx context.Context, id string) (*models.Store, error)
	GetMenu(ctx context.Context, storeID string) ([]models.Category, error)
	GetMenuItem(ctx context.Context, itemID string) (*models.MenuItem, error)
}

type MenuService struct {
	menu MenuReader
}

func NewMenuService(menu MenuReader) *MenuService {
	return &MenuService{menu: menu}
}

func (s *MenuService) ListStores(ctx context.Context, tenantID string) ([]models.Store, error) {
	return s.menu.ListStores(ctx, tenantID)
}

// GetStore returns an active store owned by the tenant.
func (s *MenuService) GetStore(ctx context.Context, tenantID, storeID string) (*models.Store, error) {
	store, err := s.menu.GetStore(ctx, storeID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrStoreNotFound
	}
	if err != nil {
		return nil, err
	}
	if store.TenantID != tenantID || !store.IsActive {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

func (s *MenuService) GetMenu(ctx context.Context, tenantID, storeID string) ([]models.Category, error) {
	if _, err := s.GetStore(ctx, tenantID, storeID); err != nil {
		return nil, err
	}
	return s.menu.GetMenu(ctx, storeID)
}

func (s *MenuService) GetMenuItem(ctx context.Context, tenantID, itemID string) (*models.MenuItem, error) {
	item, err := s.menu.GetMenuItem(ctx, itemID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.GetStore(ctx, tenantID, item.StoreID); err != nil {
		if errors.Is(err, ErrStoreNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// ResolveSelection turns an add-to-cart request into a cart line candidate
// priced from the menu: the unit price is the item's base price plus the
// variant's adjustment, and each modifier is snapshotted with its current
// price in request order.
func (s *MenuService) ResolveSelection(ctx context.Context, tenantID, storeID string, req models.AddToCartRequest) (Selection, error) {
	store, err := s.GetStore(ctx, tenantID, storeID)
	if err != nil {
		return Selection{}, err
	}

	item, err := s.menu.GetMenuItem(ctx, req.ItemID)
	if errors.Is(err, repositories.ErrNotFound) {
		return Selection{}, ErrItemNotFound
	}
	if err != nil {
		return Selection{}, err
	}
	if item.StoreID != store.ID {
		return Selection{}, ErrItemNotFound
	}
	if !item.IsAvailable {
		return Selection{}, errors.Wrapf(ErrItemUnavailable, "%s", item.Name)
	}

	input := cart.LineItemInput{
		MenuItemID:   item.ID,
		MenuItemName: item.Name,
		Quantity:     req.Quantity,
		UnitPrice:    item.BasePrice,
		Modifiers:    []cart.Modifier{},
		Notes:        req.Notes,
	}

	if err := applyVariant(&input, item, req.VariantID); err != nil {
		return Selection{}, err
	}
	if err := applyModifiers(&input, item, req.ModifierIDs); err != nil {
		return Selection{}, err
	}

	return Selection{
		Input:        input,
		StoreID:      store.ID,
		StoreTaxRate: store.TaxRate,
	}, nil
}

func applyVariant(input *cart.LineItemInput, item *models.MenuItem, variantID string) error {
	if variantID == "" {
		if len(item.Variants) > 0 {
			return errors.Wrapf(ErrInvalidSelection, "%s requires a variant", item.Name)
		}
		return nil
	}

	for _, v := range item.Variants {
		if v.ID != variantID {
			continue
		}
		if !v.IsAvailable {
			return errors.Wrapf(ErrItemUnavailable, "%s %s", item.Name, v.Name)
		}
		input.VariantID = v.ID
		input.VariantName = v.Name
		input.UnitPrice = item.BasePrice.Add(v.PriceAdjustment)
		return nil
	}
	return errors.Wrapf(ErrInvalidSelection, "variant %s does not belong to %s", variantID, item.Name)
}

func applyModifiers(input *cart.LineItemInput, item *models.MenuItem, modifierIDs []string) error {
	type option struct {
		group int
		mod   models.ModifierOption
	}
	options := map[string]option{}
	for gi, g := range item.ModifierGroups {
		for _, m := range g.Modifiers {
			options[m.ID] = option{group: gi, mod: m}
		}
	}

	counts := make([]int, len(item.ModifierGroups))
	for _, id := range modifierIDs {
		opt, ok := options[id]
		if !ok {
			return errors.Wrapf(ErrInvalidSelection, "modifier %s does not belong to %s", id, item.Name)
		}
		if !opt.mod.IsAvailable {
			return errors.Wrapf(ErrItemUnavailable, "%s", opt.mod.Name)
		}
		counts[opt.group]++
		input.Modifiers = append(input.Modifiers, cart.Modifier{
			ID:    opt.mod.ID,
			Name:  opt.mod.Name,
			Price: opt.mod.Price,
		})
	}

	for gi, g := range item.ModifierGroups {
		if counts[gi] < g.MinSelections {
			return errors.Wrapf(ErrInvalidSelection, "%s needs at least %d selection(s)", g.Name, g.MinSelections)
		}
		// zero max means unlimited
		if g.MaxSelections > 0 && counts[gi] > g.MaxSelections {
			return errors.Wrapf(ErrInvalidSelection, "%s allows at most %d selection(s)", g.Name, g.MaxSelections)
		}
	}
	return nil
}

