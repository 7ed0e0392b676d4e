package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"kiosk-order/models"
)

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order with its items and modifiers in one transaction
// and fills in the generated ids, order number and timestamps.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin order transaction")
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	order.ID = uuid.NewString()
	order.CreatedAt = now
	order.UpdatedAt = now

	var number int64
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (id, store_id, session_id, source, status, subtotal, tax_amount, total, notes, is_paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, false, $10, $10)
		RETURNING order_number`,
		order.ID, order.StoreID, order.SessionID, order.Source, order.Status,
		order.Subtotal, order.TaxAmount, order.Total, order.Notes, now,
	).Scan(&number)
	if err != nil {
		return errors.Wrap(err, "insert order")
	}
	order.OrderNumber = fmt.Sprintf("ORD-%d", number)

	for i := range order.Items {
		item := &order.Items[i]
		item.ID = uuid.NewString()

		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, position, item_id, item_name, variant_id, variant_name, quantity, unit_price, total_price, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			item.ID, order.ID, i, item.ItemID, item.ItemName, item.VariantID, item.VariantName,
			item.Quantity, item.UnitPrice, item.TotalPrice, item.Notes,
		)
		if err != nil {
			return errors.Wrap(err, "insert order item")
		}

		for j := range item.Modifiers {
			mod := &item.Modifiers[j]
			mod.ID = uuid.NewString()

			_, err = tx.Exec(ctx, `
				INSERT INTO order_item_modifiers (id, order_item_id, position, modifier_id, modifier_name, price)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				mod.ID, item.ID, j, mod.ModifierID, mod.ModifierName, mod.Price,
			)
			if err != nil {
				return errors.Wrap(err, "insert order item modifier")
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit order")
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	o := &models.Order{Items: []models.OrderItem{}}
	var number int64
	err := r.db.QueryRow(ctx, `
		SELECT id, order_number, store_id, session_id, source, status, subtotal, tax_amount, total, notes, is_paid, created_at, updated_at
		FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &number, &o.StoreID, &o.SessionID, &o.Source, &o.Status,
		&o.Subtotal, &o.TaxAmount, &o.Total, &o.Notes, &o.IsPaid, &o.CreatedAt, &o.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select order")
	}
	o.OrderNumber = fmt.Sprintf("ORD-%d", number)

	rows, err := r.db.Query(ctx, `
		SELECT id, item_id, item_name, variant_id, variant_name, quantity, unit_price, total_price, notes
		FROM order_items WHERE order_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, errors.Wrap(err, "query order items")
	}

	index := map[string]int{}
	for rows.Next() {
		it := models.OrderItem{Modifiers: []models.OrderItemModifier{}}
		if err := rows.Scan(&it.ID, &it.ItemID, &it.ItemName, &it.VariantID, &it.VariantName,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.Notes); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "scan order item")
		}
		index[it.ID] = len(o.Items)
		o.Items = append(o.Items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate order items")
	}

	rows, err = r.db.Query(ctx, `
		SELECT m.id, m.order_item_id, m.modifier_id, m.modifier_name, m.price
		FROM order_item_modifiers m
		JOIN order_items i ON i.id = m.order_item_id
		WHERE i.order_id = $1
		ORDER BY i.position, m.position`, id)
	if err != nil {
		return nil, errors.Wrap(err, "query order item modifiers")
	}
	defer rows.Close()

	for rows.Next() {
		var m models.OrderItemModifier
		var itemID string
		if err := rows.Scan(&m.ID, &itemID, &m.ModifierID, &m.ModifierName, &m.Price); err != nil {
			return nil, errors.Wrap(err, "scan order item modifier")
		}
		if i, ok := index[itemID]; ok {
			o.Items[i].Modifiers = append(o.Items[i].Modifiers, m)
		}
	}
	return o, rows.Err()
}
