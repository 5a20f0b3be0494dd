package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"framecraft-backend/internal/config"
	"framecraft-backend/internal/models"
	"framecraft-backend/internal/store"
)

type UploadHandler struct {
	config *config.Config
	store  store.SessionStore
}

func NewUploadHandler(cfg *config.Config, sessions store.SessionStore) *UploadHandler {
	return &UploadHandler{config: cfg, store: sessions}
}

// Upload godoc
// @Summary     Upload the portrait photo
// @Description Stores the session's photo. JPEG and PNG are accepted; re-uploading replaces the previous photo.
// @Tags        upload
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       photo formData file true "Portrait photo"
// @Success     200 {object} models.UploadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /session/photo [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "storage not available"})
		return
	}

	session, ok := sessionID(c)
	if !ok {
		return
	}

	if err := c.Request.ParseMultipartForm(h.config.MaxUploadBytes); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: err.Error(),
		})
		return
	}

	form := c.Request.MultipartForm
	if form == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: "multipart form is nil",
		})
		return
	}

	// Try multiple common field names
	var file *multipart.FileHeader
	fieldNames := []string{"photo", "image", "file", "upload"}
	for _, fieldName := range fieldNames {
		if f := form.File[fieldName]; len(f) > 0 {
			file = f[0]
			break
		}
	}

	if file == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "no photo uploaded",
			Message: fmt.Sprintf("please provide a file with one of these field names: %v", fieldNames),
		})
		return
	}

	if file.Size > h.config.MaxUploadBytes {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "photo too large",
			Message: fmt.Sprintf("photo is %d bytes, limit is %d", file.Size, h.config.MaxUploadBytes),
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to open file",
			Message: err.Error(),
		})
		return
	}
	data, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read file data",
			Message: err.Error(),
		})
		return
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "unsupported file type",
			Message: fmt.Sprintf("expected an image, got %s", mimeType),
		})
		return
	}

	ref, err := h.store.SaveUpload(c.Request.Context(), session, data, mimeType)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrQuotaExceeded) {
			status = http.StatusInsufficientStorage
		}
		c.JSON(status, models.ErrorResponse{
			Error:   "failed to store photo",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		UploadRef: ref,
		Size:      int64(len(data)),
		MimeType:  mimeType,
	})
}
