package models

import (
	"time"

	"framecraft-backend/internal/transform"
)

type SessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
}

type FramesResponse struct {
	Frames []FrameTemplate `json:"frames"`
}

type EditorResponse struct {
	FrameID   string             `json:"frame_id"`
	Transform transform.Snapshot `json:"transform"`
}

type OrderResponse struct {
	SessionID        string              `json:"session_id"`
	FrameID          string              `json:"frame_id"`
	Transform        *transform.Snapshot `json:"transform,omitempty"`
	HasComposite     bool                `json:"has_composite"`
	IsProcessed      bool                `json:"is_processed"`
	EmailSent        bool                `json:"email_sent"`
	PaymentReference string              `json:"payment_reference,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// OrderFromRecord shapes a stored order for API responses.
func OrderFromRecord(o *Order) OrderResponse {
	return OrderResponse{
		SessionID:        o.SessionID,
		FrameID:          o.FrameID,
		Transform:        o.Transform,
		HasComposite:     o.CompositeRef != "",
		IsProcessed:      o.IsProcessed,
		EmailSent:        o.EmailSent,
		PaymentReference: o.PaymentReference,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

type UploadResponse struct {
	UploadRef string `json:"upload_ref"`
	Size      int64  `json:"size"`
	MimeType  string `json:"mime_type"`
}

type CompositeResponse struct {
	Cached bool `json:"cached"`
	// Degraded reports that the composite could not be persisted within
	// the session storage budget and will be regenerated on demand.
	Degraded bool `json:"degraded"`
}

type InitPaymentResponse struct {
	AuthorizationURL string `json:"authorization_url"`
}

type VerifyPaymentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type ConfirmOrderResponse struct {
	Order       OrderResponse `json:"order"`
	Degraded    bool          `json:"degraded"`
	EmailQueued bool          `json:"email_queued"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
