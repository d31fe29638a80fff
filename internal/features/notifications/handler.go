package notifications

import (
	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/civic-connect/internal/middleware"
	"github.com/xyz-asif/civic-connect/internal/pkg/jwt"
	"github.com/xyz-asif/civic-connect/internal/pkg/pagination"
	"github.com/xyz-asif/civic-connect/internal/pkg/response"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// inboxOf maps the caller to their own inbox: departments by code, citizens by email
func inboxOf(c *gin.Context) (Recipient, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return Recipient{}, false
	}
	switch p.Role {
	case jwt.RoleDepartment:
		return Department(p.Department), true
	case jwt.RoleCitizen:
		return User(p.Subject), true
	default:
		response.Forbidden(c, "No notification inbox for this account", "FORBIDDEN")
		return Recipient{}, false
	}
}

// ListNotifications godoc
// @Summary List notifications
// @Description Get the caller's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 20, max 50)"
// @Param unreadOnly query bool false "Only show unread"
// @Success 200 {object} response.SuccessResponse{data=PaginatedNotificationsResponse}
// @Failure 401 {object} response.ErrorResponse
// @Router /notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	inbox, ok := inboxOf(c)
	if !ok {
		return
	}

	var query NotificationListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters", "INVALID_QUERY")
		return
	}

	items, total, err := h.store.List(c.Request.Context(), inbox, query.UnreadOnly, query.Page, query.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}

	meta := pagination.New(pagination.Request{Page: query.Page, Limit: query.Limit}, total)
	resp := PaginatedNotificationsResponse{Notifications: items}
	resp.Pagination.Page = meta.Page
	resp.Pagination.Limit = meta.Limit
	resp.Pagination.Total = meta.Total
	resp.Pagination.TotalPages = meta.Pages
	resp.Pagination.HasMore = meta.HasNext

	response.Success(c, resp)
}

// GetUnreadCount godoc
// @Summary Get unread notification count
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=UnreadCountResponse}
// @Failure 401 {object} response.ErrorResponse
// @Router /notifications/unread-count [get]
func (h *Handler) GetUnreadCount(c *gin.Context) {
	inbox, ok := inboxOf(c)
	if !ok {
		return
	}

	count, err := h.store.CountUnread(c.Request.Context(), inbox)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, UnreadCountResponse{UnreadCount: count})
}

// MarkAsRead godoc
// @Summary Mark notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} response.SuccessResponse{data=MarkReadResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /notifications/{id}/read [patch]
func (h *Handler) MarkAsRead(c *gin.Context) {
	inbox, ok := inboxOf(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid notification ID", "INVALID_ID")
		return
	}

	if err := h.store.MarkAsRead(c.Request.Context(), inbox, id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, MarkReadResponse{ID: id, Read: true})
}

// MarkAllAsRead godoc
// @Summary Mark all notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=MarkAllReadResponse}
// @Failure 401 {object} response.ErrorResponse
// @Router /notifications/read-all [patch]
func (h *Handler) MarkAllAsRead(c *gin.Context) {
	inbox, ok := inboxOf(c)
	if !ok {
		return
	}

	count, err := h.store.MarkAllAsRead(c.Request.Context(), inbox)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, MarkAllReadResponse{MarkedCount: count})
}
