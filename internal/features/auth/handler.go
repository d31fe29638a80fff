package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/civic-connect/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RequestCode godoc
// @Summary Request a one-time code
// @Description Send a 6-digit code to the email for login or signup
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RequestCodeRequest true "Target and purpose"
// @Success 200 {object} response.SuccessResponse{data=RequestCodeResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /auth/request-otp [post]
func (h *Handler) RequestCode(c *gin.Context) {
	var req RequestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	if err := ValidateRequestCode(&req); err != nil {
		response.ValidationFailed(c, err.Error())
		return
	}

	resp, err := h.service.RequestCode(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, resp, "OTP sent to email")
}

// VerifyCode godoc
// @Summary Verify a one-time code
// @Description Exchange a valid code for a session token; signup creates the account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyCodeRequest true "Target, purpose and code"
// @Success 200 {object} response.SuccessResponse{data=VerifyCodeResponse}
// @Failure 400 {object} response.ErrorResponse
// @Router /auth/verify-otp [post]
func (h *Handler) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	if err := ValidateVerifyCode(&req); err != nil {
		response.ValidationFailed(c, err.Error())
		return
	}

	resp, err := h.service.VerifyCode(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, resp, "OTP verified")
}
