package users

import (
	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/civic-connect/internal/middleware"
	"github.com/xyz-asif/civic-connect/internal/pkg/response"
)

type Handler struct {
	repo ProfileStore
}

func NewHandler(repo ProfileStore) *Handler {
	return &Handler{repo: repo}
}

// GetMe godoc
// @Summary Get own profile
// @Description Get the profile of the signed-in citizen
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=ProfileResponse}
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	user, err := h.repo.FindByEmail(c.Request.Context(), p.Subject)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, user.Profile())
}

// UpdateMe godoc
// @Summary Update own profile
// @Description Change name, phone, or avatar; omitted fields are kept
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.SuccessResponse{data=ProfileResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /users/me [patch]
// @Router /users/me [put]
func (h *Handler) UpdateMe(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	fields, err := ValidateProfileUpdate(&req)
	if err != nil {
		response.ValidationFailed(c, err.Error())
		return
	}

	user, err := h.repo.UpdateProfile(c.Request.Context(), p.Subject, fields)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, user.Profile(), "Profile updated")
}
