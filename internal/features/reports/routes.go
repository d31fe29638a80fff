package reports

import (
	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/civic-connect/internal/middleware"
	"github.com/xyz-asif/civic-connect/internal/pkg/jwt"
	"github.com/xyz-asif/civic-connect/internal/pkg/ratelimit"
)

// RegisterRoutes mounts report workflow routes and the department issue desk.
// submitLimiter may be nil to disable submission rate limiting.
func RegisterRoutes(router *gin.RouterGroup, service *Service, authMiddleware gin.HandlerFunc, submitLimiter ratelimit.Limiter) {
	handler := NewHandler(service)

	submit := []gin.HandlerFunc{authMiddleware, middleware.RequireRole(jwt.RoleCitizen)}
	if submitLimiter != nil {
		submit = append(submit, ratelimit.Middleware(submitLimiter, func(c *gin.Context) string {
			if p, ok := middleware.CurrentPrincipal(c); ok {
				return "report:" + p.Subject
			}
			return ""
		}))
	}
	submit = append(submit, handler.SubmitReport)

	reports := router.Group("/reports")
	{
		reports.GET("", handler.ListReports)
		reports.POST("", submit...)
		reports.GET("/mine", authMiddleware, middleware.RequireRole(jwt.RoleCitizen), handler.ListMine)
		reports.GET("/tracking/:trackingCode", handler.Track)
		reports.GET("/:reportId", authMiddleware, handler.GetReport)
		reports.PATCH("/:reportId/status", authMiddleware, middleware.RequireRole(jwt.RoleAdmin), handler.UpdateStatus)
		reports.POST("/:reportId/resolution", authMiddleware, middleware.RequireRole(jwt.RoleDepartment), handler.SubmitResolution)
		reports.POST("/:reportId/resolution/review", authMiddleware, middleware.RequireRole(jwt.RoleCitizen), handler.ReviewResolution)
		reports.POST("/:reportId/like", authMiddleware, middleware.RequireRole(jwt.RoleCitizen), handler.Like)
		reports.POST("/:reportId/dislike", authMiddleware, middleware.RequireRole(jwt.RoleCitizen), handler.Dislike)
		reports.POST("/:reportId/comments", authMiddleware, middleware.RequireRole(jwt.RoleCitizen), handler.AddComment)
	}

	desk := router.Group("/departments", authMiddleware, middleware.RequireRole(jwt.RoleDepartment))
	{
		desk.GET("/issues", handler.ListDepartmentIssues)
		desk.PATCH("/issues/:reportId/status", handler.UpdateStatus)
		desk.GET("/analytics/summary", handler.DepartmentSummary)
	}
}
