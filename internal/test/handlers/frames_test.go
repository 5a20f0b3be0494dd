package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"framecraft-backend/internal/handlers"
	"framecraft-backend/internal/models"
)

func TestListFrames(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/frames", handlers.ListFrames)

	req, _ := http.NewRequest("GET", "/frames", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.FramesResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Frames, 2)

	classic := resp.Frames[0]
	assert.Equal(t, "frame-1", classic.ID)
	assert.True(t, classic.IsCircularMask)
	assert.Equal(t, models.AspectSquare, classic.Aspect)

	anniversary := resp.Frames[1]
	assert.Equal(t, "frame-2", anniversary.ID)
	assert.False(t, anniversary.IsCircularMask)
	assert.Equal(t, models.AspectTall, anniversary.Aspect)
}
