package departments

import (
	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/civic-connect/internal/middleware"
	"github.com/xyz-asif/civic-connect/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Signup godoc
// @Summary Create a department account
// @Description Admin-only creation of a department login
// @Tags departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SignupRequest true "Department details"
// @Success 201 {object} response.SuccessResponse{data=AuthResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /departments/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	if err := ValidateSignup(&req); err != nil {
		response.ValidationFailed(c, err.Error())
		return
	}

	resp, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, resp, "Department created")
}

// Login godoc
// @Summary Department login
// @Description Sign in with department code or email and password
// @Tags departments
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} response.SuccessResponse{data=AuthResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /departments/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	if err := ValidateLogin(&req); err != nil {
		response.ValidationFailed(c, err.Error())
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, resp)
}

// GetMe godoc
// @Summary Get own department
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=DepartmentResponse}
// @Failure 401 {object} response.ErrorResponse
// @Router /departments/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	d, err := h.service.Me(c.Request.Context(), p.Department)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, d.Response())
}
