package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"kiosk-order/models"
	"kiosk-order/services"
)

var (
	ErrStoreRequired = errors.New("store_id is required for devices without a store")
	ErrStoreMismatch = errors.New("device is bound to a different store")
)

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, models.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func fail(c *gin.Context, status int, message string, err error) {
	resp := models.ErrorResponse{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(status, resp)
}

func badRequest(c *gin.Context, err error) {
	fail(c, http.StatusBadRequest, "Invalid request", err)
}

// respondError maps service errors to status codes. Anything unknown is
// recorded on the context for the request logger and reported as a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrStoreNotFound),
		errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrLineItemNotFound),
		errors.Is(err, services.ErrOrderNotFound):
		fail(c, http.StatusNotFound, "Not found", err)
	case errors.Is(err, services.ErrInvalidSelection),
		errors.Is(err, services.ErrInvalidTaxRate),
		errors.Is(err, ErrStoreRequired):
		fail(c, http.StatusBadRequest, "Invalid request", err)
	case errors.Is(err, services.ErrItemUnavailable),
		errors.Is(err, services.ErrCartEmpty),
		errors.Is(err, services.ErrNoStoreBound):
		fail(c, http.StatusConflict, "Request cannot be fulfilled", err)
	case errors.Is(err, services.ErrCartBusy):
		fail(c, http.StatusConflict, "Cart changed, try again", err)
	case errors.Is(err, services.ErrCartUnavailable):
		fail(c, http.StatusServiceUnavailable, "Cart unavailable", err)
	case errors.Is(err, services.ErrCartDiscarded):
		fail(c, http.StatusUnauthorized, "Session ended", err)
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, "Invalid credentials", nil)
	case errors.Is(err, services.ErrAccountDisabled),
		errors.Is(err, ErrStoreMismatch):
		fail(c, http.StatusForbidden, "Forbidden", err)
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}
