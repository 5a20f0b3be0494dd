package handlers

import (
	"bytes"
	"fmt"
	"image"
	"net/http"
	"sync"

	_ "image/jpeg"
	_ "image/png"

	"github.com/gin-gonic/gin"

	"framecraft-backend/internal/models"
	"framecraft-backend/internal/store"
	"framecraft-backend/internal/transform"
)

const (
	defaultViewportWidth  = 300
	defaultViewportHeight = 400
)

type EditorHandler struct {
	registry *transform.Registry
	store    store.SessionStore

	mu     sync.Mutex
	frames map[string]string // session id -> frame id the editor was opened with
}

func NewEditorHandler(registry *transform.Registry, sessions store.SessionStore) *EditorHandler {
	return &EditorHandler{
		registry: registry,
		store:    sessions,
		frames:   map[string]string{},
	}
}

func (h *EditorHandler) frameFor(session string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames[session]
}

// CreateEditor godoc
// @Summary     Open the viewport editor
// @Description Creates a fresh transform engine for the session's photo inside the chosen frame. Reopening with a different frame resets pan and zoom.
// @Tags        editor
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       editor body models.CreateEditorRequest true "Frame choice and viewport size"
// @Success     200 {object} models.EditorResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /session/editor [post]
func (h *EditorHandler) CreateEditor(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		return
	}

	var req models.CreateEditorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	frame, ok := models.FrameByID(req.FrameID)
	if !ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "unknown frame",
			Message: fmt.Sprintf("no frame with id %q", req.FrameID),
		})
		return
	}

	vw, vh := req.ViewportWidth, req.ViewportHeight
	if vw <= 0 || vh <= 0 {
		vw, vh = defaultViewportWidth, defaultViewportHeight
	}

	engine := h.registry.Create(session, vw, vh)
	h.mu.Lock()
	h.frames[session] = frame.ID
	h.mu.Unlock()

	// Seed the cover-fit base scale from the uploaded photo, when there
	// is one. The editor still opens without an upload; gestures simply
	// act on an unsized image until a photo arrives.
	if h.store != nil {
		data, err := h.store.LoadUpload(c.Request.Context(), session)
		if err == nil && data != nil {
			if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
				engine.SetImage(float64(cfg.Width), float64(cfg.Height))
			}
		}
	}

	c.JSON(http.StatusOK, models.EditorResponse{
		FrameID:   frame.ID,
		Transform: engine.Snapshot(),
	})
}

// ApplyEvents godoc
// @Summary     Apply gesture events
// @Description Replays a batch of drag, pinch, wheel and scale events into the session's editor in order and returns the resulting transform.
// @Tags        editor
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       events body models.GestureBatchRequest true "Ordered gesture events"
// @Success     200 {object} models.EditorResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /session/editor/events [post]
func (h *EditorHandler) ApplyEvents(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		return
	}

	engine, ok := h.registry.Get(session)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "editor not open"})
		return
	}

	var req models.GestureBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	for i, ev := range req.Events {
		switch ev.Type {
		case "drag_start":
			engine.BeginDrag()
		case "drag":
			engine.Drag(ev.DeltaX, ev.DeltaY)
		case "drag_end":
			engine.EndDrag()
		case "pinch_start":
			engine.BeginPinch(ev.Distance, transform.Offset{X: ev.MidpointX, Y: ev.MidpointY})
		case "pinch":
			engine.MovePinch(ev.Distance, transform.Offset{X: ev.MidpointX, Y: ev.MidpointY})
		case "pinch_end":
			engine.EndPinch()
		case "wheel":
			engine.Wheel(ev.Value)
		case "set_scale":
			engine.SetScale(ev.Value)
		default:
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "unknown event type",
				Message: fmt.Sprintf("event %d has unsupported type %q", i, ev.Type),
			})
			return
		}
	}

	c.JSON(http.StatusOK, models.EditorResponse{
		FrameID:   h.frameFor(session),
		Transform: engine.Snapshot(),
	})
}

// GetTransform godoc
// @Summary     Read the current transform
// @Tags        editor
// @Produce     json
// @Security    Bearer
// @Success     200 {object} transform.Snapshot
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /session/editor/transform [get]
func (h *EditorHandler) GetTransform(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		return
	}

	engine, ok := h.registry.Get(session)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "editor not open"})
		return
	}

	c.JSON(http.StatusOK, engine.Snapshot())
}
