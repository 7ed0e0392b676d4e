package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kiosk-order/middleware"
	"kiosk-order/services"
)

type StoreController struct {
	menu *services.MenuService
}

func NewStoreController(menu *services.MenuService) *StoreController {
	return &StoreController{menu: menu}
}

// ListStores godoc
// @Summary List stores
// @Description Active stores of the device's tenant
// @Tags Stores
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Store}
// @Router /stores [get]
func (ctrl *StoreController) ListStores(c *gin.Context) {
	claims := middleware.Claims(c)
	stores, err := ctrl.menu.ListStores(c.Request.Context(), claims.TenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Stores retrieved", stores)
}

// GetStore godoc
// @Summary Get store
// @Description Store details including its tax rate setting
// @Tags Stores
// @Security BearerAuth
// @Produce json
// @Param storeId path string true "Store ID"
// @Success 200 {object} models.Response{data=models.Store}
// @Failure 404 {object} models.ErrorResponse
// @Router /stores/{storeId} [get]
func (ctrl *StoreController) GetStore(c *gin.Context) {
	claims := middleware.Claims(c)
	store, err := ctrl.menu.GetStore(c.Request.Context(), claims.TenantID, c.Param("storeId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Store retrieved", store)
}

// GetMenu godoc
// @Summary Get store menu
// @Description Categories of a store with their items
// @Tags Menu
// @Security BearerAuth
// @Produce json
// @Param storeId path string true "Store ID"
// @Success 200 {object} models.Response{data=[]models.Category}
// @Failure 404 {object} models.ErrorResponse
// @Router /stores/{storeId}/menu [get]
func (ctrl *StoreController) GetMenu(c *gin.Context) {
	claims := middleware.Claims(c)
	menu, err := ctrl.menu.GetMenu(c.Request.Context(), claims.TenantID, c.Param("storeId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Menu retrieved", menu)
}

// GetMenuItem godoc
// @Summary Get menu item
// @Description Item detail with variants and modifier groups
// @Tags Menu
// @Security BearerAuth
// @Produce json
// @Param itemId path string true "Menu item ID"
// @Success 200 {object} models.Response{data=models.MenuItem}
// @Failure 404 {object} models.ErrorResponse
// @Router /menu/items/{itemId} [get]
func (ctrl *StoreController) GetMenuItem(c *gin.Context) {
	claims := middleware.Claims(c)
	item, err := ctrl.menu.GetMenuItem(c.Request.Context(), claims.TenantID, c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Menu item retrieved", item)
}
