package media

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/civic-connect/internal/pkg/logger"
	"github.com/xyz-asif/civic-connect/internal/pkg/photostore"
	"github.com/xyz-asif/civic-connect/internal/pkg/response"
	apperrors "github.com/xyz-asif/civic-connect/pkg/errors"
)

type Handler struct {
	store photostore.Store
	log   *logger.Logger
}

func NewHandler(store photostore.Store, log *logger.Logger) *Handler {
	if store == nil {
		store = photostore.Disabled{}
	}
	if log == nil {
		log = logger.Default().Named("media")
	}
	return &Handler{store: store, log: log}
}

func storeError(err error) error {
	if errors.Is(err, photostore.ErrNotConfigured) {
		return apperrors.Wrap(apperrors.KindUnavailable, "photo storage is not configured", err)
	}
	return apperrors.Wrap(apperrors.KindUnavailable, "photo storage is unavailable", err)
}

// UploadPhoto godoc
// @Summary Upload a photo
// @Description Store an issue or proof photo and get back a reference for report payloads
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file (jpg, jpeg, png, gif, webp; max 10MB)"
// @Success 201 {object} response.SuccessResponse{data=PhotoResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 503 {object} response.ErrorResponse
// @Router /media/photos [post]
func (h *Handler) UploadPhoto(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.BadRequest(c, "Image file is required", "MISSING_FILE")
		return
	}
	defer file.Close()

	if err := photostore.ValidateImageFile(header); err != nil {
		response.BadRequest(c, err.Error(), "INVALID_FILE")
		return
	}

	stored, err := h.store.Upload(c.Request.Context(), file, header.Filename, header.Size)
	if err != nil {
		h.log.Error("upload of %s failed: %v", header.Filename, err)
		response.FromError(c, storeError(err))
		return
	}

	response.Created(c, PhotoResponse{
		URI:      stored.URI,
		PublicID: stored.PublicID,
		Filename: stored.Filename,
		Size:     stored.Size,
		Format:   stored.Format,
	}, "Photo uploaded")
}

// DeletePhoto godoc
// @Summary Delete an uploaded photo
// @Tags media
// @Produce json
// @Security BearerAuth
// @Param publicId path string true "Public ID returned by upload"
// @Success 200 {object} response.SuccessResponse{data=DeleteResponse}
// @Failure 503 {object} response.ErrorResponse
// @Router /media/photos/{publicId} [delete]
func (h *Handler) DeletePhoto(c *gin.Context) {
	publicID := strings.TrimPrefix(c.Param("publicId"), "/")
	if publicID == "" {
		response.BadRequest(c, "Public ID is required", "MISSING_PARAM")
		return
	}

	if err := h.store.Delete(c.Request.Context(), publicID); err != nil {
		h.log.Error("delete of %s failed: %v", publicID, err)
		response.FromError(c, storeError(err))
		return
	}

	response.Success(c, DeleteResponse{PublicID: publicID, Deleted: true})
}
