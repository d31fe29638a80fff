package users

import (
	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/civic-connect/internal/middleware"
	"github.com/xyz-asif/civic-connect/internal/pkg/jwt"
)

// RegisterRoutes mounts the citizen profile routes
func RegisterRoutes(router *gin.RouterGroup, repo ProfileStore, authMiddleware gin.HandlerFunc) {
	handler := NewHandler(repo)

	users := router.Group("/users")
	users.Use(authMiddleware, middleware.RequireRole(jwt.RoleCitizen))
	{
		users.GET("/me", handler.GetMe)
		users.PATCH("/me", handler.UpdateMe)
		users.PUT("/me", handler.UpdateMe)
	}
}
