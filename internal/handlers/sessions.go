package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"framecraft-backend/internal/config"
	"framecraft-backend/internal/middleware"
	"framecraft-backend/internal/models"
)

type SessionsHandler struct {
	config *config.Config
}

func NewSessionsHandler(cfg *config.Config) *SessionsHandler {
	return &SessionsHandler{config: cfg}
}

// CreateSession godoc
// @Summary     Start a session
// @Description Creates an anonymous session scoping one upload-frame-pay flow and returns its bearer token.
// @Tags        sessions
// @Accept      json
// @Produce     json
// @Success     200 {object} models.SessionResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /sessions [post]
func (h *SessionsHandler) CreateSession(c *gin.Context) {
	sessionID := uuid.New().String()

	token, err := middleware.IssueSessionToken(h.config, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to issue session token",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SessionResponse{
		SessionID: sessionID,
		Token:     token,
	})
}

// sessionID pulls the validated session id out of the request context.
func sessionID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.SessionIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "session id not found"})
		return "", false
	}
	id, ok := v.(string)
	if !ok || id == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid session id"})
		return "", false
	}
	return id, true
}
