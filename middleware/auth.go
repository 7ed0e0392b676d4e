package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kiosk-order/models"
	"kiosk-order/utils"
)

const claimsKey = "device_claims"

type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*utils.DeviceClaims, error)
}

func DeviceAuthMiddleware(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Authorization header required",
			})
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Invalid authorization header format",
			})
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), tokenParts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Invalid or expired token",
				Error:   err.Error(),
			})
			return
		}

		c.Set(claimsKey, claims)
		c.Set("session_id", claims.SessionID)
		c.Set("tenant_id", claims.TenantID)
		c.Set("store_id", claims.StoreID)
		c.Next()
	}
}

// Claims returns the device claims stored by DeviceAuthMiddleware.
func Claims(c *gin.Context) *utils.DeviceClaims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.DeviceClaims)
	return claims
}
