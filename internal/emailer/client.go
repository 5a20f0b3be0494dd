// Package emailer sends the order confirmation email through the EmailJS
// REST API. Deliveries are fire-and-forget: failures are logged by the
// caller and never surface to the user.
package emailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	serviceID  string
	templateID string
	publicKey  string
	httpClient *http.Client
}

// ConfirmationParams are the template parameters for the confirmation
// email.
type ConfirmationParams struct {
	ToEmail        string `json:"to_email"`
	ToName         string `json:"to_name"`
	OrderReference string `json:"order_reference"`
	FrameType      string `json:"frame_type"`
	OrderTotal     string `json:"order_total"`
	Message        string `json:"message"`
}

type sendRequest struct {
	ServiceID      string             `json:"service_id"`
	TemplateID     string             `json:"template_id"`
	UserID         string             `json:"user_id"`
	TemplateParams ConfirmationParams `json:"template_params"`
}

func NewClient(baseURL, serviceID, templateID, publicKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		serviceID:  serviceID,
		templateID: templateID,
		publicKey:  publicKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SendConfirmation delivers one confirmation email.
func (c *Client) SendConfirmation(ctx context.Context, params ConfirmationParams) error {
	jsonData, err := json.Marshal(sendRequest{
		ServiceID:      c.serviceID,
		TemplateID:     c.templateID,
		UserID:         c.publicKey,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimSuffix(c.baseURL, "/") + "/api/v1.0/email/send"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to send email: status %d, body: %s", resp.StatusCode, string(body))
	}

	return nil
}
