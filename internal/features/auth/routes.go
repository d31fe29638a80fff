package auth

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the one-time-code endpoints
func RegisterRoutes(router *gin.RouterGroup, service *Service) {
	handler := NewHandler(service)

	auth := router.Group("/auth")
	{
		auth.POST("/request-otp", handler.RequestCode)
		auth.POST("/verify-otp", handler.VerifyCode)
	}
}
