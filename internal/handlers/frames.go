package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"framecraft-backend/internal/models"
)

// ListFrames godoc
// @Summary     List frame templates
// @Description Returns the catalog of decorative frames, including each frame's circular-mask flag, aspect class and layering.
// @Tags        frames
// @Accept      json
// @Produce     json
// @Success     200 {object} models.FramesResponse
// @Router      /frames [get]
func ListFrames(c *gin.Context) {
	c.JSON(http.StatusOK, models.FramesResponse{Frames: models.Frames})
}
