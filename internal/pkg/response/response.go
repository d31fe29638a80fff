package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/xyz-asif/civic-connect/pkg/errors"
)

// ErrorResponse represents a standard error payload returned by the API
type ErrorResponse struct {
	Status string `json:"status" example:"error"`
	Error  string `json:"error" example:"Report not found"`
	Code   string `json:"code,omitempty" example:"NOT_FOUND"`
}

// SuccessResponse represents a standard success payload
type SuccessResponse struct {
	Status  string      `json:"status" example:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// PaginatedResponse represents a paginated list response
type PaginatedResponse struct {
	Status string      `json:"status" example:"success"`
	Data   interface{} `json:"data"`
	Total  int64       `json:"total" example:"25"`
	Limit  int         `json:"limit" example:"10"`
	Page   int         `json:"page,omitempty" example:"1"`
}

// Success sends a 200 OK response with data
func Success(c *gin.Context, data interface{}, message ...string) {
	c.JSON(http.StatusOK, SuccessResponse{
		Status:  "success",
		Message: first(message),
		Data:    data,
	})
}

// Created sends a 201 Created response
func Created(c *gin.Context, data interface{}, message ...string) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Status:  "success",
		Message: first(message),
		Data:    data,
	})
}

// Paginated sends a paginated response
func Paginated(c *gin.Context, data interface{}, total int64, limit int, page ...int) {
	pageNum := 1
	if len(page) > 0 {
		pageNum = page[0]
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Status: "success",
		Data:   data,
		Total:  total,
		Limit:  limit,
		Page:   pageNum,
	})
}

// Error sends an error response with custom status code and message
func Error(c *gin.Context, statusCode int, message string, errorCode ...string) {
	c.JSON(statusCode, ErrorResponse{
		Status: "error",
		Error:  message,
		Code:   first(errorCode),
	})
}

// BadRequest sends a 400 Bad Request error
func BadRequest(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusBadRequest, message, errorCode...)
}

// Unauthorized sends a 401 Unauthorized error
func Unauthorized(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusUnauthorized, message, errorCode...)
}

// Forbidden sends a 403 Forbidden error
func Forbidden(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusForbidden, message, errorCode...)
}

// NotFound sends a 404 Not Found error
func NotFound(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusNotFound, message, errorCode...)
}

// TooManyRequests sends a 429 error
func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, message, "RATE_LIMITED")
}

// InternalServerError sends a 500 Internal Server Error
func InternalServerError(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusInternalServerError, message, errorCode...)
}

// BindJSONError handles JSON decode errors in request body
func BindJSONError(c *gin.Context, err error) {
	BadRequest(c, "Invalid request format", "INVALID_JSON")
}

// ValidationFailed handles validation errors
func ValidationFailed(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message, string(apperrors.KindValidation))
}

var statusByKind = map[apperrors.Kind]int{
	apperrors.KindValidation:              http.StatusBadRequest,
	apperrors.KindConflict:                http.StatusConflict,
	apperrors.KindNotFound:                http.StatusNotFound,
	apperrors.KindForbidden:               http.StatusForbidden,
	apperrors.KindInvalidTransition:       http.StatusConflict,
	apperrors.KindResolutionProofRequired: http.StatusUnprocessableEntity,
	apperrors.KindProofRequired:           http.StatusUnprocessableEntity,
	apperrors.KindInvalidOrExpired:        http.StatusBadRequest,
	apperrors.KindAccountConflict:         http.StatusConflict,
	apperrors.KindAccountNotFound:         http.StatusNotFound,
	apperrors.KindInvalidToken:            http.StatusUnauthorized,
	apperrors.KindUnavailable:             http.StatusServiceUnavailable,
	apperrors.KindRateLimited:             http.StatusTooManyRequests,
}

// FromError writes the response for a typed service error.
// Untyped errors are reported as 500 without leaking their text.
func FromError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		InternalServerError(c, apperrors.ErrInternal.Message, string(apperrors.KindInternal))
		return
	}
	Error(c, status, apperrors.MessageOf(err), string(kind))
}

func first(values []string) string {
	if len(values) > 0 {
		return values[0]
	}
	return ""
}
