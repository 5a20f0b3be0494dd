package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"framecraft-backend/internal/config"
	"framecraft-backend/internal/handlers"
	"framecraft-backend/internal/models"
	"framecraft-backend/internal/store"
)

func uploadRouter(sessions store.SessionStore, maxBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{MaxUploadBytes: maxBytes}
	h := handlers.NewUploadHandler(cfg, sessions)

	router := gin.New()
	router.Use(withSession("session-1"))
	router.POST("/session/photo", h.Upload)
	return router
}

func multipartPhoto(t *testing.T, fieldName string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, "photo.png")
	assert.NoError(t, err)
	_, err = part.Write(data)
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestUpload(t *testing.T) {
	sessions := store.NewMemoryStore(0)
	router := uploadRouter(sessions, 10<<20)

	body, contentType := multipartPhoto(t, "photo", pngBytes(t, 10, 10))
	req, _ := http.NewRequest("POST", "/session/photo", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.UploadResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.UploadRef)
	assert.Equal(t, "image/png", resp.MimeType)

	stored, err := sessions.LoadUpload(context.Background(), "session-1")
	assert.NoError(t, err)
	assert.Equal(t, resp.Size, int64(len(stored)))
}

func TestUpload_AlternateFieldName(t *testing.T) {
	router := uploadRouter(store.NewMemoryStore(0), 10<<20)

	body, contentType := multipartPhoto(t, "image", pngBytes(t, 10, 10))
	req, _ := http.NewRequest("POST", "/session/photo", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpload_MissingFile(t *testing.T) {
	router := uploadRouter(store.NewMemoryStore(0), 10<<20)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.WriteField("note", "no file here")
	writer.Close()

	req, _ := http.NewRequest("POST", "/session/photo", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no photo uploaded")
}

func TestUpload_NotAnImage(t *testing.T) {
	router := uploadRouter(store.NewMemoryStore(0), 10<<20)

	body, contentType := multipartPhoto(t, "photo", []byte("plain text, definitely not pixels"))
	req, _ := http.NewRequest("POST", "/session/photo", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported file type")
}

func TestUpload_QuotaExceeded(t *testing.T) {
	router := uploadRouter(store.NewMemoryStore(16), 10<<20)

	body, contentType := multipartPhoto(t, "photo", pngBytes(t, 10, 10))
	req, _ := http.NewRequest("POST", "/session/photo", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInsufficientStorage, w.Code)
}

func TestUpload_ReplacesPreviousPhoto(t *testing.T) {
	sessions := store.NewMemoryStore(0)
	router := uploadRouter(sessions, 10<<20)

	for _, size := range []int{10, 20} {
		body, contentType := multipartPhoto(t, "photo", pngBytes(t, size, size))
		req, _ := http.NewRequest("POST", "/session/photo", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	stored, err := sessions.LoadUpload(context.Background(), "session-1")
	assert.NoError(t, err)
	assert.Equal(t, pngBytes(t, 20, 20), stored)
}
