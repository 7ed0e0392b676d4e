package services

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"kiosk-order/cart"
	"kiosk-order/models"
	"kiosk-order/repositories"
)

var (
	ErrCartEmpty     = errors.New("cart is empty")
	ErrNoStoreBound  = errors.New("cart is not bound to a store")
	ErrOrderNotFound = errors.New("order not found")
)

const (
	CheckoutModeKiosk = "kiosk"
	CheckoutModeQR    = "qr"
)

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
}

type OrderService struct {
	orders OrderStore
	carts  *CartService
	logger *zap.Logger
}

func NewOrderService(orders OrderStore, carts *CartService, logger *zap.Logger) *OrderService {
	return &OrderService{orders: orders, carts: carts, logger: logger}
}

// Checkout places an order from the session cart and clears the cart once
// the order is stored. A failed placement leaves the cart untouched.
func (s *OrderService) Checkout(ctx context.Context, sessionID string, req models.CheckoutRequest) (*models.Order, error) {
	var order *models.Order

	err := s.carts.Drain(ctx, sessionID, func(state cart.State) error {
		if state.IsEmpty() {
			return ErrCartEmpty
		}
		if !state.IsBound() {
			return ErrNoStoreBound
		}

		createReq := NewCreateOrderRequest(state, sourceFor(req.Mode), req.Notes)
		order = buildOrder(sessionID, createReq, state)
		if err := s.orders.Create(ctx, order); err != nil {
			return errors.Wrap(err, "place order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		zap.String("session_id", sessionID),
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.Total.StringFixed(2)),
	)
	return order, nil
}

// GetOrder returns an order placed by the same device session.
func (s *OrderService) GetOrder(ctx context.Context, sessionID, orderID string) (*models.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if order.SessionID != sessionID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func sourceFor(mode string) models.OrderSource {
	if mode == CheckoutModeQR {
		return models.SourceQRTable
	}
	return models.SourceKiosk
}

// NewCreateOrderRequest maps the cart to the order submission payload. Only
// identifiers travel; the menu owns the prices.
func NewCreateOrderRequest(state cart.State, source models.OrderSource, notes string) models.CreateOrderRequest {
	req := models.CreateOrderRequest{
		StoreID: state.BoundStoreID,
		Source:  source,
		Items:   make([]models.OrderItemRequest, len(state.Items)),
		Notes:   optional(notes),
	}
	for i, item := range state.Items {
		req.Items[i] = models.OrderItemRequest{
			ItemID:      item.MenuItemID,
			VariantID:   optional(item.VariantID),
			Quantity:    item.Quantity,
			Notes:       optional(item.Notes),
			ModifierIDs: item.ModifierIDs(),
		}
	}
	return req
}

// buildOrder pairs each request line with the cart line it came from to
// record names and prices as they were shown to the customer.
func buildOrder(sessionID string, req models.CreateOrderRequest, state cart.State) *models.Order {
	order := &models.Order{
		StoreID:   req.StoreID,
		SessionID: sessionID,
		Source:    req.Source,
		Status:    models.OrderPending,
		Subtotal:  cart.Round2(state.Subtotal),
		TaxAmount: cart.Round2(state.TaxAmount),
		Total:     cart.Round2(state.Total),
		Notes:     req.Notes,
		Items:     make([]models.OrderItem, len(req.Items)),
	}

	for i, line := range req.Items {
		item := state.Items[i]
		mods := make([]models.OrderItemModifier, len(item.Modifiers))
		for j, m := range item.Modifiers {
			mods[j] = models.OrderItemModifier{
				ModifierID:   m.ID,
				ModifierName: m.Name,
				Price:        m.Price,
			}
		}

		order.Items[i] = models.OrderItem{
			ItemID:      line.ItemID,
			ItemName:    item.MenuItemName,
			VariantID:   line.VariantID,
			VariantName: optional(item.VariantName),
			Quantity:    line.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  cart.Round2(item.TotalPrice),
			Notes:       line.Notes,
			Modifiers:   mods,
		}
	}
	return order
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
