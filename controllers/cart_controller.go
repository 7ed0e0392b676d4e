package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kiosk-order/middleware"
	"kiosk-order/models"
	"kiosk-order/services"
	"kiosk-order/utils"
)

type CartController struct {
	carts *services.CartService
	menu  *services.MenuService
}

func NewCartController(carts *services.CartService, menu *services.MenuService) *CartController {
	return &CartController{carts: carts, menu: menu}
}

// targetStore picks the store an item is added for. Pinned devices always
// order from their own store.
func targetStore(claims *utils.DeviceClaims, requested string) (string, error) {
	if claims.HasStore() {
		if requested != "" && requested != claims.StoreID {
			return "", ErrStoreMismatch
		}
		return claims.StoreID, nil
	}
	if requested == "" {
		return "", ErrStoreRequired
	}
	return requested, nil
}

// GetCart godoc
// @Summary Get cart
// @Description Current cart of the device session with computed totals
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=models.CartResponse}
// @Failure 503 {object} models.ErrorResponse
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	claims := middleware.Claims(c)
	state, err := ctrl.carts.Get(c.Request.Context(), claims.SessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Cart retrieved", models.NewCartResponse(state))
}

// AddItem godoc
// @Summary Add item to cart
// @Description Add a configured menu item. Identical configurations merge into one line; adding from another store empties the cart first.
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.AddToCartRequest true "Add To Cart Request"
// @Success 201 {object} models.Response{data=models.CartResponse}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /cart/items [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	claims := middleware.Claims(c)
	storeID, err := targetStore(claims, req.StoreID)
	if err != nil {
		respondError(c, err)
		return
	}

	sel, err := ctrl.menu.ResolveSelection(c.Request.Context(), claims.TenantID, storeID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	state, err := ctrl.carts.AddItem(c.Request.Context(), claims.SessionID, sel)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Item added to cart", models.NewCartResponse(state))
}

// UpdateQuantity godoc
// @Summary Update line quantity
// @Description Set the quantity of a cart line. Zero or less removes the line.
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param lineItemId path string true "Line item ID"
// @Param request body models.UpdateQuantityRequest true "Update Quantity Request"
// @Success 200 {object} models.Response{data=models.CartResponse}
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/items/{lineItemId}/quantity [patch]
func (ctrl *CartController) UpdateQuantity(c *gin.Context) {
	var req models.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	claims := middleware.Claims(c)
	state, err := ctrl.carts.UpdateQuantity(c.Request.Context(), claims.SessionID, c.Param("lineItemId"), *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Cart updated", models.NewCartResponse(state))
}

// UpdateNotes godoc
// @Summary Update line notes
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param lineItemId path string true "Line item ID"
// @Param request body models.UpdateNotesRequest true "Update Notes Request"
// @Success 200 {object} models.Response{data=models.CartResponse}
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/items/{lineItemId}/notes [patch]
func (ctrl *CartController) UpdateNotes(c *gin.Context) {
	var req models.UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	claims := middleware.Claims(c)
	state, err := ctrl.carts.UpdateNotes(c.Request.Context(), claims.SessionID, c.Param("lineItemId"), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Cart updated", models.NewCartResponse(state))
}

// RemoveItem godoc
// @Summary Remove line
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Param lineItemId path string true "Line item ID"
// @Success 200 {object} models.Response{data=models.CartResponse}
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/items/{lineItemId} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	claims := middleware.Claims(c)
	state, err := ctrl.carts.RemoveItem(c.Request.Context(), claims.SessionID, c.Param("lineItemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Item removed from cart", models.NewCartResponse(state))
}

// ClearCart godoc
// @Summary Clear cart
// @Description Remove every line. The store binding is kept.
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=models.CartResponse}
// @Router /cart [delete]
func (ctrl *CartController) ClearCart(c *gin.Context) {
	claims := middleware.Claims(c)
	state, err := ctrl.carts.Clear(c.Request.Context(), claims.SessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Cart cleared", models.NewCartResponse(state))
}

// SetTaxRate godoc
// @Summary Set tax rate
// @Description Replace the cart tax rate and recompute tax and total
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.SetTaxRateRequest true "Set Tax Rate Request"
// @Success 200 {object} models.Response{data=models.CartResponse}
// @Failure 400 {object} models.ErrorResponse
// @Router /cart/tax-rate [put]
func (ctrl *CartController) SetTaxRate(c *gin.Context) {
	var req models.SetTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	claims := middleware.Claims(c)
	state, err := ctrl.carts.SetTaxRate(c.Request.Context(), claims.SessionID, *req.TaxRate)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Tax rate updated", models.NewCartResponse(state))
}
