package notifications

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the caller's notification inbox
func RegisterRoutes(router *gin.RouterGroup, store Store, authMiddleware gin.HandlerFunc) {
	handler := NewHandler(store)

	notifications := router.Group("/notifications")
	notifications.Use(authMiddleware)
	{
		notifications.GET("", handler.ListNotifications)
		notifications.GET("/unread-count", handler.GetUnreadCount)
		notifications.PATCH("/read-all", handler.MarkAllAsRead)
		notifications.PATCH("/:id/read", handler.MarkAsRead)
	}
}
