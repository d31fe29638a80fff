package departments

import (
	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/civic-connect/internal/middleware"
	"github.com/xyz-asif/civic-connect/internal/pkg/jwt"
)

// RegisterRoutes mounts department account routes. Issue routes live in the reports feature.
func RegisterRoutes(router *gin.RouterGroup, service *Service, authMiddleware gin.HandlerFunc) {
	handler := NewHandler(service)

	departments := router.Group("/departments")
	{
		departments.POST("/login", handler.Login)
		departments.POST("/signup", authMiddleware, middleware.RequireRole(jwt.RoleAdmin), handler.Signup)
		departments.GET("/me", authMiddleware, middleware.RequireRole(jwt.RoleDepartment), handler.GetMe)
	}
}
