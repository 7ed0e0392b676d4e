package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kiosk-order/middleware"
	"kiosk-order/models"
	"kiosk-order/services"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Checkout godoc
// @Summary Place order
// @Description Submit the cart as an order. The cart is cleared only after the order is stored.
// @Tags Orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CheckoutRequest false "Checkout Request"
// @Success 201 {object} models.Response{data=models.Order}
// @Failure 409 {object} models.ErrorResponse
// @Router /orders/checkout [post]
func (ctrl *OrderController) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	claims := middleware.Claims(c)
	order, err := ctrl.orders.Checkout(c.Request.Context(), claims.SessionID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Order placed", order)
}

// GetOrder godoc
// @Summary Get order
// @Description Order status for polling after checkout
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param orderId path string true "Order ID"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 404 {object} models.ErrorResponse
// @Router /orders/{orderId} [get]
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	claims := middleware.Claims(c)
	order, err := ctrl.orders.GetOrder(c.Request.Context(), claims.SessionID, c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Order retrieved", order)
}
