package media

import (
	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/civic-connect/internal/middleware"
	"github.com/xyz-asif/civic-connect/internal/pkg/jwt"
	"github.com/xyz-asif/civic-connect/internal/pkg/logger"
	"github.com/xyz-asif/civic-connect/internal/pkg/photostore"
)

// RegisterRoutes mounts photo upload for citizens and departments
func RegisterRoutes(router *gin.RouterGroup, store photostore.Store, authMiddleware gin.HandlerFunc, log *logger.Logger) {
	handler := NewHandler(store, log)

	media := router.Group("/media", authMiddleware, middleware.RequireRole(jwt.RoleCitizen, jwt.RoleDepartment))
	{
		media.POST("/photos", handler.UploadPhoto)
		media.DELETE("/photos/*publicId", handler.DeletePhoto)
	}
}
