package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"framecraft-backend/internal/config"
	"framecraft-backend/internal/models"
	"framecraft-backend/internal/paystack"
)

type PaymentsHandler struct {
	config   *config.Config
	paystack *paystack.Client
}

func NewPaymentsHandler(cfg *config.Config, paystackClient *paystack.Client) *PaymentsHandler {
	return &PaymentsHandler{config: cfg, paystack: paystackClient}
}

// InitPayment godoc
// @Summary     Start a payment
// @Description Initializes a gateway transaction for the fixed order amount and returns the hosted checkout URL to redirect the customer to.
// @Tags        payments
// @Accept      json
// @Produce     json
// @Param       payment body models.InitPaymentRequest true "Customer email"
// @Success     200 {object} models.InitPaymentResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /payments/init [post]
func (h *PaymentsHandler) InitPayment(c *gin.Context) {
	var req models.InitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}
	if req.Email == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "email is required"})
		return
	}

	result, err := h.paystack.InitializeTransaction(paystack.InitializeRequest{
		Email:       req.Email,
		Amount:      h.config.OrderAmount,
		Currency:    h.config.OrderCurrency,
		CallbackURL: fmt.Sprintf("%s/orderconfirmation", h.config.BaseURL),
	})
	if err != nil {
		var apiErr *paystack.APIError
		if errors.As(err, &apiErr) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: apiErr.Message})
			return
		}
		log.Printf("payment initialization failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, models.InitPaymentResponse{
		AuthorizationURL: result.AuthorizationURL,
	})
}

// VerifyPayment godoc
// @Summary     Verify a payment
// @Description Asks the gateway whether the referenced transaction succeeded. A declined payment is a successful verification with success=false.
// @Tags        payments
// @Accept      json
// @Produce     json
// @Param       verification body models.VerifyPaymentRequest true "Transaction reference"
// @Success     200 {object} models.VerifyPaymentResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.VerifyPaymentResponse
// @Router      /payments/verify [post]
func (h *PaymentsHandler) VerifyPayment(c *gin.Context) {
	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}
	if req.Reference == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "reference is required"})
		return
	}

	success, message, err := h.paystack.VerifyTransaction(req.Reference)
	if err != nil {
		log.Printf("payment verification failed for reference %s: %v", req.Reference, err)
		c.JSON(http.StatusInternalServerError, models.VerifyPaymentResponse{
			Success: false,
			Message: "Verification failed",
		})
		return
	}

	if success {
		c.JSON(http.StatusOK, models.VerifyPaymentResponse{Success: true})
		return
	}
	c.JSON(http.StatusOK, models.VerifyPaymentResponse{
		Success: false,
		Message: message,
	})
}
