package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"framecraft-backend/internal/compositor"
	"framecraft-backend/internal/models"
	"framecraft-backend/internal/services"
)

type CompositeHandler struct {
	composites *services.CompositeService
}

func NewCompositeHandler(composites *services.CompositeService) *CompositeHandler {
	return &CompositeHandler{composites: composites}
}

// RenderComposite godoc
// @Summary     Render the final composite
// @Description Renders the uploaded photo under the chosen frame with the recorded transform and caches the result. Safe to call repeatedly.
// @Tags        composite
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.CompositeResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     422 {object} models.ErrorResponse
// @Router      /orders/composite [post]
func (h *CompositeHandler) RenderComposite(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		return
	}

	_, cached, degraded, err := h.composites.Ensure(c.Request.Context(), session)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CompositeResponse{
		Cached:   cached,
		Degraded: degraded,
	})
}

// DownloadComposite godoc
// @Summary     Download the composite PNG
// @Description Streams the final framed image. A composite that could not be cached is regenerated on the fly.
// @Tags        composite
// @Produce     png
// @Security    Bearer
// @Success     200 {file} binary
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     422 {object} models.ErrorResponse
// @Router      /orders/composite [get]
func (h *CompositeHandler) DownloadComposite(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		return
	}

	png, _, _, err := h.composites.Ensure(c.Request.Context(), session)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="framed-portrait.png"`)
	c.Data(http.StatusOK, "image/png", png)
}

func (h *CompositeHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoOrder):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "no order for this session"})
	case errors.Is(err, compositor.ErrAssetLoad):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "failed to load source images",
			Message: err.Error(),
		})
	case errors.Is(err, compositor.ErrCanvasUnavailable):
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "rendering surface unavailable",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to render composite",
			Message: err.Error(),
		})
	}
}
