package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"kiosk-order/models"
)

var ErrNotFound = errors.New("record not found")

type MenuRepository struct {
	db *pgxpool.Pool
}

func NewMenuRepository(db *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{db: db}
}

func (r *MenuRepository) ListStores(ctx context.Context, tenantID string) ([]models.Store, error) {
	query := `SELECT id, tenant_id, name, code, address, phone, is_active, tax_rate, created_at
	          FROM stores WHERE tenant_id = $1 AND is_active = true ORDER BY name`

	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, errors.Wrap(err, "query stores")
	}
	defer rows.Close()

	stores := []models.Store{}
	for rows.Next() {
		var s models.Store
		if err := rows.Scan(&s.ID, &s.TenantID, &s.Name, &s.Code, &s.Address, &s.Phone, &s.IsActive, &s.TaxRate, &s.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan store")
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *MenuRepository) GetStore(ctx context.Context, id string) (*models.Store, error) {
	query := `SELECT id, tenant_id, name, code, address, phone, is_active, tax_rate, created_at
	          FROM stores WHERE id = $1`

	var s models.Store
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.TenantID, &s.Name, &s.Code, &s.Address, &s.Phone, &s.IsActive, &s.TaxRate, &s.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select store")
	}
	return &s, nil
}

// GetMenu returns the active categories of a store with their items.
func (r *MenuRepository) GetMenu(ctx context.Context, storeID string) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, description, image_url, display_order
		FROM categories WHERE store_id = $1 AND is_active = true
		ORDER BY display_order, name`, storeID)
	if err != nil {
		return nil, errors.Wrap(err, "query categories")
	}

	categories := []models.Category{}
	index := map[string]int{}
	for rows.Next() {
		c := models.Category{Items: []models.MenuItemBrief{}}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.DisplayOrder); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "scan category")
		}
		index[c.ID] = len(categories)
		categories = append(categories, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate categories")
	}

	rows, err = r.db.Query(ctx, `
		SELECT i.id, i.category_id, i.name, i.description, i.base_price, i.image_url, i.is_available, i.display_order,
		       (SELECT COUNT(*) FROM item_variants v WHERE v.item_id = i.id),
		       (SELECT COUNT(*) FROM modifier_groups g WHERE g.item_id = i.id)
		FROM menu_items i WHERE i.store_id = $1
		ORDER BY i.display_order, i.name`, storeID)
	if err != nil {
		return nil, errors.Wrap(err, "query menu items")
	}
	defer rows.Close()

	for rows.Next() {
		var it models.MenuItemBrief
		var categoryID string
		if err := rows.Scan(&it.ID, &categoryID, &it.Name, &it.Description, &it.BasePrice, &it.ImageURL,
			&it.IsAvailable, &it.DisplayOrder, &it.VariantCount, &it.ModifierGroupCount); err != nil {
			return nil, errors.Wrap(err, "scan menu item")
		}
		if i, ok := index[categoryID]; ok {
			categories[i].Items = append(categories[i].Items, it)
		}
	}
	return categories, rows.Err()
}

// GetMenuItem loads an item with its variants and modifier groups.
func (r *MenuRepository) GetMenuItem(ctx context.Context, itemID string) (*models.MenuItem, error) {
	item := &models.MenuItem{
		Variants:       []models.ItemVariant{},
		ModifierGroups: []models.ModifierGroup{},
	}
	err := r.db.QueryRow(ctx, `
		SELECT id, store_id, name, description, base_price, is_available, display_order
		FROM menu_items WHERE id = $1`, itemID,
	).Scan(&item.ID, &item.StoreID, &item.Name, &item.Description, &item.BasePrice, &item.IsAvailable, &item.DisplayOrder)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select menu item")
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, name, price_adjustment, is_available
		FROM item_variants WHERE item_id = $1 ORDER BY display_order, name`, itemID)
	if err != nil {
		return nil, errors.Wrap(err, "query variants")
	}
	for rows.Next() {
		var v models.ItemVariant
		if err := rows.Scan(&v.ID, &v.Name, &v.PriceAdjustment, &v.IsAvailable); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "scan variant")
		}
		item.Variants = append(item.Variants, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate variants")
	}

	rows, err = r.db.Query(ctx, `
		SELECT g.id, g.name, g.min_selections, g.max_selections, m.id, m.name, m.price, m.is_available
		FROM modifier_groups g
		LEFT JOIN modifiers m ON m.group_id = g.id
		WHERE g.item_id = $1
		ORDER BY g.display_order, g.id, m.display_order, m.name`, itemID)
	if err != nil {
		return nil, errors.Wrap(err, "query modifier groups")
	}
	defer rows.Close()

	groups := map[string]int{}
	for rows.Next() {
		var g models.ModifierGroup
		var modID, modName *string
		var modPrice decimal.NullDecimal
		var modAvailable *bool
		if err := rows.Scan(&g.ID, &g.Name, &g.MinSelections, &g.MaxSelections, &modID, &modName, &modPrice, &modAvailable); err != nil {
			return nil, errors.Wrap(err, "scan modifier")
		}

		i, ok := groups[g.ID]
		if !ok {
			g.Modifiers = []models.ModifierOption{}
			i = len(item.ModifierGroups)
			groups[g.ID] = i
			item.ModifierGroups = append(item.ModifierGroups, g)
		}
		if modID == nil {
			continue
		}
		item.ModifierGroups[i].Modifiers = append(item.ModifierGroups[i].Modifiers, models.ModifierOption{
			ID:          *modID,
			Name:        *modName,
			Price:       modPrice.Decimal,
			IsAvailable: modAvailable != nil && *modAvailable,
		})
	}
	return item, rows.Err()
}
