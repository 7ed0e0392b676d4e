package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"kiosk-order/controllers"
	"kiosk-order/middleware"
	"kiosk-order/services"
)

type Services struct {
	Auth   *services.AuthService
	Menu   *services.MenuService
	Carts  *services.CartService
	Orders *services.OrderService
}

func SetupRoutes(router *gin.Engine, svc Services) {
	authCtrl := controllers.NewAuthController(svc.Auth)
	storeCtrl := controllers.NewStoreController(svc.Menu)
	cartCtrl := controllers.NewCartController(svc.Carts, svc.Menu)
	orderCtrl := controllers.NewOrderController(svc.Orders)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	router.POST("/auth/device/login", authCtrl.Login)

	auth := router.Group("/")
	auth.Use(middleware.DeviceAuthMiddleware(svc.Auth))
	{
		auth.POST("/auth/device/logout", authCtrl.Logout)

		auth.GET("/stores", storeCtrl.ListStores)
		auth.GET("/stores/:storeId", storeCtrl.GetStore)
		auth.GET("/stores/:storeId/menu", storeCtrl.GetMenu)
		auth.GET("/menu/items/:itemId", storeCtrl.GetMenuItem)

		auth.GET("/cart", cartCtrl.GetCart)
		auth.DELETE("/cart", cartCtrl.ClearCart)
		auth.POST("/cart/items", cartCtrl.AddItem)
		auth.PATCH("/cart/items/:lineItemId/quantity", cartCtrl.UpdateQuantity)
		auth.PATCH("/cart/items/:lineItemId/notes", cartCtrl.UpdateNotes)
		auth.DELETE("/cart/items/:lineItemId", cartCtrl.RemoveItem)
		auth.PUT("/cart/tax-rate", cartCtrl.SetTaxRate)

		auth.POST("/orders/checkout", orderCtrl.Checkout)
		auth.GET("/orders/:orderId", orderCtrl.GetOrder)
	}
}
