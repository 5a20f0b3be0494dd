package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"framecraft-backend/internal/config"
	"framecraft-backend/internal/emailer"
	"framecraft-backend/internal/models"
	"framecraft-backend/internal/paystack"
	"framecraft-backend/internal/queue"
	"framecraft-backend/internal/services"
	"framecraft-backend/internal/store"
	"framecraft-backend/internal/transform"
)

type OrdersHandler struct {
	config     *config.Config
	store      store.SessionStore
	registry   *transform.Registry
	paystack   *paystack.Client
	composites *services.CompositeService
	queue      *asynq.Client
}

func NewOrdersHandler(cfg *config.Config, sessions store.SessionStore, registry *transform.Registry, paystackClient *paystack.Client, composites *services.CompositeService, queueClient *asynq.Client) *OrdersHandler {
	return &OrdersHandler{
		config:     cfg,
		store:      sessions,
		registry:   registry,
		paystack:   paystackClient,
		composites: composites,
		queue:      queueClient,
	}
}

// CreateOrder godoc
// @Summary     Create the session's order
// @Description Freezes the frame choice and the editor's current transform into the order record. Requires an uploaded photo.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       order body models.CreateOrderRequest true "Frame choice"
// @Success     200 {object} models.OrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     507 {object} models.ErrorResponse
// @Router      /orders [post]
func (h *OrdersHandler) CreateOrder(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "storage not available"})
		return
	}

	session, ok := sessionID(c)
	if !ok {
		return
	}

	var req models.CreateOrderRequest
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

	uploadRef := ""
	data, err := h.store.LoadUpload(c.Request.Context(), session)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to read upload",
			Message: err.Error(),
		})
		return
	}
	if data == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "no photo uploaded for this session",
		})
		return
	}
	uploadRef = fmt.Sprintf("sessions/%s/upload", session)

	order := &models.Order{
		SessionID: session,
		FrameID:   frame.ID,
		UploadRef: uploadRef,
	}
	if engine, ok := h.registry.Get(session); ok {
		snap := engine.Snapshot()
		order.Transform = &snap
	}

	// Losing the order record is fatal for the flow; unlike the cached
	// composite there is nothing to regenerate it from.
	if err := h.store.SaveOrder(c.Request.Context(), session, order); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrQuotaExceeded) {
			status = http.StatusInsufficientStorage
		}
		c.JSON(status, models.ErrorResponse{
			Error:   "failed to save order",
			Message: err.Error(),
		})
		return
	}

	saved, err := h.store.LoadOrder(c.Request.Context(), session)
	if err != nil || saved == nil {
		saved = order
		saved.CreatedAt = time.Now()
		saved.UpdatedAt = saved.CreatedAt
	}
	c.JSON(http.StatusOK, models.OrderFromRecord(saved))
}

// GetOrder godoc
// @Summary     Read the session's order
// @Tags        orders
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.OrderResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /orders/current [get]
func (h *OrdersHandler) GetOrder(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "storage not available"})
		return
	}

	session, ok := sessionID(c)
	if !ok {
		return
	}

	order, err := h.store.LoadOrder(c.Request.Context(), session)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to read order",
			Message: err.Error(),
		})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "no order for this session"})
		return
	}

	c.JSON(http.StatusOK, models.OrderFromRecord(order))
}

// ConfirmOrder godoc
// @Summary     Confirm a paid order
// @Description Verifies the payment reference with the gateway, marks the order processed, renders the final composite and queues the confirmation email. A failed verification leaves the order untouched.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       confirmation body models.ConfirmOrderRequest true "Payment reference and customer details"
// @Success     200 {object} models.ConfirmOrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     402 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /orders/confirm [post]
func (h *OrdersHandler) ConfirmOrder(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "storage not available"})
		return
	}

	session, ok := sessionID(c)
	if !ok {
		return
	}

	var req models.ConfirmOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}
	if req.Reference == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "payment reference is required"})
		return
	}

	order, err := h.store.LoadOrder(c.Request.Context(), session)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to read order",
			Message: err.Error(),
		})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "no order for this session"})
		return
	}

	var success bool
	var message string
	err = h.paystack.RetryWithBackoff(func() error {
		var verifyErr error
		success, message, verifyErr = h.paystack.VerifyTransaction(req.Reference)
		return verifyErr
	}, 3)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "payment verification failed",
			Message: err.Error(),
		})
		return
	}
	if !success {
		// The order keeps whatever state it had; the customer can retry
		// the payment without losing their photo or framing.
		if message == "" {
			message = "payment was not successful"
		}
		c.JSON(http.StatusPaymentRequired, models.ErrorResponse{
			Error:   "payment not verified",
			Message: message + ", please retry the payment",
		})
		return
	}

	order.PaymentReference = req.Reference
	order.IsProcessed = true
	if req.FullName != "" || req.Email != "" {
		order.Customer = &models.CustomerInfo{
			FullName: req.FullName,
			Email:    req.Email,
		}
	}

	if err := h.store.SaveOrder(c.Request.Context(), session, order); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to save order",
			Message: err.Error(),
		})
		return
	}

	// Ensure re-reads the order and records the composite ref itself, so
	// the customer record above has to be saved first.
	_, _, degraded, renderErr := h.composites.Ensure(c.Request.Context(), session)
	if renderErr != nil {
		// The payment is already captured; report the order as confirmed
		// and leave the composite to the download endpoint's retry.
		log.Printf("composite render after confirmation failed for session %s: %v", session, renderErr)
	}

	emailQueued := false
	if h.queue != nil && !order.EmailSent && req.Email != "" {
		frame, _ := models.FrameByID(order.FrameID)
		payload := queue.ConfirmationPayload{
			SessionID: session,
			Reference: req.Reference,
			Params: emailer.ConfirmationParams{
				ToEmail:        req.Email,
				ToName:         req.FullName,
				OrderReference: req.Reference,
				FrameType:      frame.Title,
				OrderTotal:     fmt.Sprintf("%.2f %s", float64(h.config.OrderAmount)/100, h.config.OrderCurrency),
				Message:        "Thank you for your order! Your framed portrait is ready to download.",
			},
		}
		if err := queue.EnqueueConfirmation(c.Request.Context(), h.queue, payload); err != nil {
			// Email is best effort; confirmation never fails on it.
			log.Printf("failed to enqueue confirmation email for session %s: %v", session, err)
		} else {
			emailQueued = true
		}
	}

	saved, err := h.store.LoadOrder(c.Request.Context(), session)
	if err != nil || saved == nil {
		saved = order
	}
	c.JSON(http.StatusOK, models.ConfirmOrderResponse{
		Order:       models.OrderFromRecord(saved),
		Degraded:    degraded,
		EmailQueued: emailQueued,
	})
}
