package reports

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/civic-connect/internal/middleware"
	"github.com/xyz-asif/civic-connect/internal/pkg/jwt"
	"github.com/xyz-asif/civic-connect/internal/pkg/pagination"
	"github.com/xyz-asif/civic-connect/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func actorOf(p *middleware.Principal) Actor {
	switch p.Role {
	case jwt.RoleDepartment:
		return Actor{Role: ActorDepartment, ID: p.Subject, Department: p.Department}
	case jwt.RoleCitizen:
		return Actor{Role: ActorCitizen, ID: p.Subject}
	default:
		return Actor{Role: ActorSystem, ID: p.Subject}
	}
}

func principal(c *gin.Context) (*middleware.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
	}
	return p, ok
}

// SubmitReport godoc
// @Summary Submit a civic issue report
// @Description File a report; it is routed to a department by category
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubmitReportRequest true "Report details"
// @Success 201 {object} response.SuccessResponse{data=SubmitReportResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /reports [post]
func (h *Handler) SubmitReport(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	in, err := ValidateSubmit(&req, p.Subject, time.Now().UTC())
	if err != nil {
		response.ValidationFailed(c, err.Error())
		return
	}

	report, err := h.service.SubmitReport(c.Request.Context(), in)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, SubmitReportResponse{
		ReportID:     report.ReportID,
		TrackingCode: report.TrackingCode,
		Status:       report.Status,
		Department:   report.Department(),
	}, "Report submitted")
}

// ListReports godoc
// @Summary List all reports
// @Description Public listing, newest first, without reporter contact details
// @Tags reports
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 20, max 100)"
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Success 200 {object} response.SuccessResponse{data=PublicListResponse}
// @Failure 400 {object} response.ErrorResponse
// @Router /reports [get]
func (h *Handler) ListReports(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters", "INVALID_QUERY")
		return
	}

	resp, err := h.service.ListPublic(c.Request.Context(), query.Status, query.Priority, pagination.FromRequest(query.Page, query.Limit))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, resp)
}

// ListMine godoc
// @Summary List my reports
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 20, max 100)"
// @Success 200 {object} response.SuccessResponse{data=ReportListResponse}
// @Router /reports/mine [get]
func (h *Handler) ListMine(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters", "INVALID_QUERY")
		return
	}

	resp, err := h.service.ListMine(c.Request.Context(), p.Subject, pagination.FromRequest(query.Page, query.Limit))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, resp)
}

// Track godoc
// @Summary Track a report
// @Description Public, citizen-safe view of a report by tracking code
// @Tags reports
// @Produce json
// @Param trackingCode path string true "Tracking code"
// @Success 200 {object} response.SuccessResponse{data=TrackingView}
// @Failure 404 {object} response.ErrorResponse
// @Router /reports/tracking/{trackingCode} [get]
func (h *Handler) Track(c *gin.Context) {
	report, err := h.service.GetByTracking(c.Request.Context(), c.Param("trackingCode"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, report.TrackingView())
}

// GetReport godoc
// @Summary Get a report
// @Description Visible to the reporter, the owning department, and admins
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param reportId path string true "Report ID"
// @Success 200 {object} response.SuccessResponse{data=Report}
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reports/{reportId} [get]
func (h *Handler) GetReport(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	report, err := h.service.Get(c.Request.Context(), c.Param("reportId"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	if !canView(p, report) {
		response.Forbidden(c, "You cannot view this report", "FORBIDDEN")
		return
	}
	response.Success(c, report)
}

func canView(p *middleware.Principal, r *Report) bool {
	switch p.Role {
	case jwt.RoleAdmin:
		return true
	case jwt.RoleDepartment:
		dept := r.Department()
		return p.Department != "" && (dept == "" || dept == p.Department)
	case jwt.RoleCitizen:
		return p.Subject == r.Reporter.Email
	}
	return false
}

// UpdateStatus godoc
// @Summary Change a report's status
// @Description Generic status update; resolving requires the resolution endpoint
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reportId path string true "Report ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} response.SuccessResponse{data=Report}
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /reports/{reportId}/status [patch]
// @Router /departments/issues/{reportId}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	report, err := h.service.UpdateStatus(c.Request.Context(), c.Param("reportId"), req.Status, req.Note, actorOf(p))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, report, "Status updated")
}

// SubmitResolution godoc
// @Summary Submit resolution proof
// @Description Department marks a report resolved with proof photos; the reporter must approve
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reportId path string true "Report ID"
// @Param request body SubmitResolutionRequest true "Proof of work"
// @Success 200 {object} response.SuccessResponse{data=Resolution}
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /reports/{reportId}/resolution [post]
func (h *Handler) SubmitResolution(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req SubmitResolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	in, err := ValidateResolution(&req, time.Now().UTC())
	if err != nil {
		response.ValidationFailed(c, err.Error())
		return
	}

	report, err := h.service.SubmitResolution(c.Request.Context(), c.Param("reportId"), in, actorOf(p))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, report.Resolution, "Resolution submitted for approval")
}

// ReviewResolution godoc
// @Summary Approve or reject a resolution
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reportId path string true "Report ID"
// @Param request body ReviewResolutionRequest true "Decision"
// @Success 200 {object} response.SuccessResponse{data=Resolution}
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /reports/{reportId}/resolution/review [post]
func (h *Handler) ReviewResolution(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req ReviewResolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	report, err := h.service.ReviewResolution(c.Request.Context(), c.Param("reportId"), req.Decision, req.Reason, actorOf(p))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, report.Resolution, "Resolution "+report.Resolution.ApprovalStatus)
}

// ListDepartmentIssues godoc
// @Summary List issues assigned to my department
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 20, max 100)"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.SuccessResponse{data=ReportListResponse}
// @Router /departments/issues [get]
func (h *Handler) ListDepartmentIssues(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters", "INVALID_QUERY")
		return
	}

	resp, err := h.service.ListForDepartment(c.Request.Context(), p.Department, query.Status, pagination.FromRequest(query.Page, query.Limit))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, resp)
}

// DepartmentSummary godoc
// @Summary Report counts by status for my department
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=SummaryResponse}
// @Router /departments/analytics/summary [get]
func (h *Handler) DepartmentSummary(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	resp, err := h.service.Summary(c.Request.Context(), p.Department)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, resp)
}

// Like godoc
// @Summary Like a report
// @Description Adds the citizen to likers and removes them from dislikers
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param reportId path string true "Report ID"
// @Success 200 {object} response.SuccessResponse{data=ReactionSummary}
// @Failure 404 {object} response.ErrorResponse
// @Router /reports/{reportId}/like [post]
func (h *Handler) Like(c *gin.Context) {
	h.react(c, true)
}

// Dislike godoc
// @Summary Dislike a report
// @Description Adds the citizen to dislikers and removes them from likers
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param reportId path string true "Report ID"
// @Success 200 {object} response.SuccessResponse{data=ReactionSummary}
// @Failure 404 {object} response.ErrorResponse
// @Router /reports/{reportId}/dislike [post]
func (h *Handler) Dislike(c *gin.Context) {
	h.react(c, false)
}

func (h *Handler) react(c *gin.Context, like bool) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var (
		summary ReactionSummary
		err     error
	)
	if like {
		summary, err = h.service.Like(c.Request.Context(), c.Param("reportId"), p.Subject)
	} else {
		summary, err = h.service.Dislike(c.Request.Context(), c.Param("reportId"), p.Subject)
	}
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, summary)
}

// AddComment godoc
// @Summary Comment on a report
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reportId path string true "Report ID"
// @Param request body CommentRequest true "Comment"
// @Success 201 {object} response.SuccessResponse{data=CommentsResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reports/{reportId}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	comments, err := h.service.AddComment(c.Request.Context(), c.Param("reportId"), p.Subject, req.ByName, req.Text)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, CommentsResponse{Comments: publicComments(comments)}, "Comment added")
}
