package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kiosk-order/middleware"
	"kiosk-order/models"
	"kiosk-order/services"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Login godoc
// @Summary Device login
// @Description Sign a kiosk or QR device in with staff credentials, optionally pinning it to a store
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.DeviceLoginRequest true "Device Login Request"
// @Success 200 {object} models.Response{data=models.DeviceAuthResponse}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/device/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.DeviceLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := ctrl.auth.DeviceLogin(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Login successful", resp)
}

// Logout godoc
// @Summary Device logout
// @Description End the device session and discard its cart
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /auth/device/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	claims := middleware.Claims(c)
	if err := ctrl.auth.Logout(c.Request.Context(), claims.SessionID); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Logout successful", nil)
}
